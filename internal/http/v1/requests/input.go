package requests

import "github.com/roktodan/roktodan-api/internal/platform/pagination"

// RequestCreateInput for POST /requests
type RequestCreateInput struct {
	Body struct {
		RecipientName     string `json:"recipientName"     minLength:"1" maxLength:"100"  required:"true" doc:"Patient receiving the donation" example:"Karim Uddin"`
		RecipientDistrict string `json:"recipientDistrict" minLength:"1" maxLength:"100"  required:"true" doc:"Recipient district"             example:"Dhaka"`
		RecipientUpazila  string `json:"recipientUpazila"  minLength:"1" maxLength:"100"  required:"true" doc:"Recipient upazila"              example:"Savar"`
		HospitalName      string `json:"hospitalName"      minLength:"1" maxLength:"200"  required:"true" doc:"Hospital name"                  example:"Dhaka Medical College Hospital"`
		FullAddress       string `json:"fullAddress"       minLength:"1" maxLength:"500"  required:"true" doc:"Full street address"            example:"Secretariat Road, Dhaka"`
		BloodGroup        string `json:"bloodGroup"        enum:"A+,A-,B+,B-,AB+,AB-,O+,O-" required:"true" doc:"Required blood group"         example:"O+"`
		DonationDate      string `json:"donationDate"      pattern:"^\\d{4}-\\d{2}-\\d{2}$" required:"true" doc:"Donation date (YYYY-MM-DD)"   example:"2026-09-12"`
		DonationTime      string `json:"donationTime"      pattern:"^\\d{2}:\\d{2}$"        required:"true" doc:"Donation time (HH:MM)"        example:"14:30"`
		RequestMessage    string `json:"requestMessage"    maxLength:"2000"                                 doc:"Why the donation is needed"   example:"Urgent surgery scheduled"`
	}
}

// RequestGetInput for GET /requests/{id}
type RequestGetInput struct {
	ID string `path:"id" maxLength:"64" doc:"Request identifier"`
}

// MyRequestsListInput for GET /requests/my
type MyRequestsListInput struct {
	pagination.Params
	Status string `query:"status" doc:"Filter by lifecycle status" enum:"pending,inprogress,done,canceled"`
}

// RequestsListInput for GET /requests (volunteer/admin listing)
type RequestsListInput struct {
	pagination.Params
	Status         string `query:"status"         doc:"Filter by lifecycle status"  enum:"pending,inprogress,done,canceled"`
	BloodGroup     string `query:"bloodGroup"     doc:"Filter by blood group"       enum:"A+,A-,B+,B-,AB+,AB-,O+,O-"`
	District       string `query:"district"       doc:"Filter by recipient district"`
	Upazila        string `query:"upazila"        doc:"Filter by recipient upazila"`
	RequesterEmail string `query:"requesterEmail" doc:"Filter by requester email" format:"email"`
}

// OpenRequestsListInput for GET /requests/open (pending-only browse)
type OpenRequestsListInput struct {
	pagination.Params
	BloodGroup string `query:"bloodGroup" doc:"Filter by blood group" enum:"A+,A-,B+,B-,AB+,AB-,O+,O-"`
	District   string `query:"district"   doc:"Filter by recipient district"`
	Upazila    string `query:"upazila"    doc:"Filter by recipient upazila"`
}

// StatusUpdateInput for PATCH /requests/{id}/status
type StatusUpdateInput struct {
	ID   string `path:"id" maxLength:"64" doc:"Request identifier"`
	Body struct {
		Status string `json:"status" enum:"pending,inprogress,done,canceled" required:"true" doc:"Target lifecycle status" example:"inprogress"`
	}
}

// RequestUpdateInput for PATCH /requests/{id} (descriptive fields only)
type RequestUpdateInput struct {
	ID   string `path:"id" maxLength:"64" doc:"Request identifier"`
	Body struct {
		RecipientName     *string `json:"recipientName,omitempty"     minLength:"1" maxLength:"100"  doc:"Patient receiving the donation"`
		RecipientDistrict *string `json:"recipientDistrict,omitempty" minLength:"1" maxLength:"100"  doc:"Recipient district"`
		RecipientUpazila  *string `json:"recipientUpazila,omitempty"  minLength:"1" maxLength:"100"  doc:"Recipient upazila"`
		HospitalName      *string `json:"hospitalName,omitempty"      minLength:"1" maxLength:"200"  doc:"Hospital name"`
		FullAddress       *string `json:"fullAddress,omitempty"       minLength:"1" maxLength:"500"  doc:"Full street address"`
		BloodGroup        *string `json:"bloodGroup,omitempty"        enum:"A+,A-,B+,B-,AB+,AB-,O+,O-" doc:"Required blood group"`
		DonationDate      *string `json:"donationDate,omitempty"      pattern:"^\\d{4}-\\d{2}-\\d{2}$" doc:"Donation date (YYYY-MM-DD)"`
		DonationTime      *string `json:"donationTime,omitempty"      pattern:"^\\d{2}:\\d{2}$"        doc:"Donation time (HH:MM)"`
		RequestMessage    *string `json:"requestMessage,omitempty"    maxLength:"2000"                 doc:"Why the donation is needed"`
	}
}

// RequestDeleteInput for DELETE /requests/{id}
type RequestDeleteInput struct {
	ID string `path:"id" maxLength:"64" doc:"Request identifier"`
}
