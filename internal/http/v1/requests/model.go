package requests

import (
	"github.com/roktodan/roktodan-api/internal/lifecycle"
	"github.com/roktodan/roktodan-api/internal/platform/timeutil"
	requestsvc "github.com/roktodan/roktodan-api/internal/service/request"
)

// DonationRequest is the canonical request representation. Every endpoint
// returns this one shape; callers never unwrap alternates.
type DonationRequest struct {
	ID                string        `json:"id"                doc:"Unique identifier"                example:"6a1f1c9e-0b6a-4f0e-9f6d-2f1f9b1c8d3e"`
	RequesterEmail    string        `json:"requesterEmail"    doc:"Owner of the request"             example:"asha@example.com"`
	RequesterName     string        `json:"requesterName"     doc:"Owner display name"               example:"Asha Rahman"`
	RecipientName     string        `json:"recipientName"     doc:"Patient receiving the donation"   example:"Karim Uddin"`
	RecipientDistrict string        `json:"recipientDistrict" doc:"Recipient district"               example:"Dhaka"`
	RecipientUpazila  string        `json:"recipientUpazila"  doc:"Recipient upazila"                example:"Savar"`
	HospitalName      string        `json:"hospitalName"      doc:"Hospital name"                    example:"Dhaka Medical College Hospital"`
	FullAddress       string        `json:"fullAddress"       doc:"Full street address"              example:"Secretariat Road, Dhaka"`
	BloodGroup        string        `json:"bloodGroup"        doc:"Required blood group"             example:"O+"`
	DonationDate      string        `json:"donationDate"      doc:"Donation date (YYYY-MM-DD)"       example:"2026-09-12"`
	DonationTime      string        `json:"donationTime"      doc:"Donation time (HH:MM)"            example:"14:30"`
	RequestMessage    string        `json:"requestMessage"    doc:"Why the donation is needed"       example:"Urgent surgery scheduled"`
	Status            string        `json:"status"            doc:"Lifecycle status"                 example:"pending" enum:"pending,inprogress,done,canceled"`
	DonorName         string        `json:"donorName,omitempty"  doc:"Assigned donor name, set by claim"`
	DonorEmail        string        `json:"donorEmail,omitempty" doc:"Assigned donor email, set by claim"`
	CreatedAt         timeutil.Time `json:"createdAt"         doc:"Creation timestamp"`
	UpdatedAt         timeutil.Time `json:"updatedAt"         doc:"Last update timestamp"`
}

// Actions is the caller's permitted action set for a request, computed
// server-side. Clients may use it to show or hide controls, but the server
// re-derives it on every mutation.
type Actions struct {
	View        bool     `json:"view"        doc:"Caller may view this request"`
	Edit        bool     `json:"edit"        doc:"Caller may edit descriptive fields"`
	Delete      bool     `json:"delete"      doc:"Caller may delete this request"`
	Transitions []string `json:"transitions" doc:"Statuses the caller may move this request to"`
}

func toHTTPRequest(r *requestsvc.Request) DonationRequest {
	return DonationRequest{
		ID:                r.ID,
		RequesterEmail:    r.RequesterEmail,
		RequesterName:     r.RequesterName,
		RecipientName:     r.RecipientName,
		RecipientDistrict: r.RecipientDistrict,
		RecipientUpazila:  r.RecipientUpazila,
		HospitalName:      r.HospitalName,
		FullAddress:       r.FullAddress,
		BloodGroup:        r.BloodGroup,
		DonationDate:      r.DonationDate,
		DonationTime:      r.DonationTime,
		RequestMessage:    r.RequestMessage,
		Status:            string(r.Status),
		DonorName:         r.DonorName,
		DonorEmail:        r.DonorEmail,
		CreatedAt:         timeutil.Time{Time: r.CreatedAt},
		UpdatedAt:         timeutil.Time{Time: r.UpdatedAt},
	}
}

func toHTTPActions(d lifecycle.Decision) Actions {
	transitions := make([]string, 0, len(d.Transitions))
	for _, t := range d.Transitions {
		transitions = append(transitions, string(t))
	}
	return Actions{
		View:        d.View,
		Edit:        d.Edit,
		Delete:      d.Delete,
		Transitions: transitions,
	}
}
