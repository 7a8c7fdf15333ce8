package users

import "github.com/roktodan/roktodan-api/internal/platform/pagination"

// UsersListInput for GET /users (admin listing)
type UsersListInput struct {
	pagination.Params
	Role   string `query:"role"   doc:"Filter by role"   enum:"donor,volunteer,admin"`
	Status string `query:"status" doc:"Filter by status" enum:"active,blocked"`
}

// DonorSearchInput for GET /users/donors
type DonorSearchInput struct {
	pagination.Params
	BloodGroup string `query:"bloodGroup" doc:"Filter by blood group" enum:"A+,A-,B+,B-,AB+,AB-,O+,O-"`
	District   string `query:"district"   doc:"Filter by district"`
	Upazila    string `query:"upazila"    doc:"Filter by upazila"`
}

// RoleUpdateInput for PATCH /users/{email}/role
type RoleUpdateInput struct {
	Email string `path:"email" maxLength:"320" doc:"Target account email"`
	Body  struct {
		Role string `json:"role" enum:"donor,volunteer,admin" required:"true" doc:"Role to assign" example:"volunteer"`
	}
}

// UserStatusUpdateInput for PATCH /users/{email}/status
type UserStatusUpdateInput struct {
	Email string `path:"email" maxLength:"320" doc:"Target account email"`
	Body  struct {
		Status string `json:"status" enum:"active,blocked" required:"true" doc:"Status to assign" example:"blocked"`
	}
}
