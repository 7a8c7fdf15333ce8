package profile

import (
	"github.com/roktodan/roktodan-api/internal/platform/timeutil"
	profilesvc "github.com/roktodan/roktodan-api/internal/service/profile"
)

// Profile is the HTTP representation of a stored account.
type Profile struct {
	Email      string        `json:"email"      doc:"Account email"  example:"asha@example.com" format:"email"`
	Name       string        `json:"name,omitempty"       doc:"Display name"   example:"Asha Rahman"`
	Avatar     string        `json:"avatar,omitempty"     doc:"Avatar URL"`
	BloodGroup string        `json:"bloodGroup,omitempty" doc:"Blood group"    example:"O+"`
	District   string        `json:"district,omitempty"   doc:"District"       example:"Dhaka"`
	Upazila    string        `json:"upazila,omitempty"    doc:"Upazila"        example:"Savar"`
	Role       string        `json:"role"       doc:"Assigned role"  example:"donor"  enum:"donor,volunteer,admin"`
	Status     string        `json:"status"     doc:"Account status" example:"active" enum:"active,blocked"`
	CreatedAt  timeutil.Time `json:"createdAt"  doc:"First sign-in timestamp"`
	UpdatedAt  timeutil.Time `json:"updatedAt"  doc:"Last update timestamp"`
}

func toHTTPProfile(p *profilesvc.Profile) Profile {
	return Profile{
		Email:      p.Email,
		Name:       p.Name,
		Avatar:     p.Avatar,
		BloodGroup: p.BloodGroup,
		District:   p.District,
		Upazila:    p.Upazila,
		Role:       string(p.Role),
		Status:     string(p.Status),
		CreatedAt:  timeutil.Time{Time: p.CreatedAt},
		UpdatedAt:  timeutil.Time{Time: p.UpdatedAt},
	}
}
