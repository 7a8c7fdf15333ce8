package users

import (
	"github.com/roktodan/roktodan-api/internal/platform/timeutil"
	profilesvc "github.com/roktodan/roktodan-api/internal/service/profile"
)

// User is the admin-facing account representation.
type User struct {
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

// Donor is the trimmed representation returned by donor search. It omits
// account management fields that non-admin callers have no business seeing.
type Donor struct {
	Email      string `json:"email"      doc:"Donor email"   example:"asha@example.com" format:"email"`
	Name       string `json:"name,omitempty"       doc:"Display name"  example:"Asha Rahman"`
	Avatar     string `json:"avatar,omitempty"     doc:"Avatar URL"`
	BloodGroup string `json:"bloodGroup,omitempty" doc:"Blood group"   example:"O+"`
	District   string `json:"district,omitempty"   doc:"District"      example:"Dhaka"`
	Upazila    string `json:"upazila,omitempty"    doc:"Upazila"       example:"Savar"`
}

func toHTTPUser(p *profilesvc.Profile) User {
	return User{
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

func toHTTPDonor(p *profilesvc.Profile) Donor {
	return Donor{
		Email:      p.Email,
		Name:       p.Name,
		Avatar:     p.Avatar,
		BloodGroup: p.BloodGroup,
		District:   p.District,
		Upazila:    p.Upazila,
	}
}
