package users

// UsersListData is the response body containing paginated users.
type UsersListData struct {
	Users []User `json:"users" doc:"List of accounts"`
	Total int    `json:"total" doc:"Total count matching the filter" example:"42"`
}

// UsersListOutput is the response wrapper with pagination Link header.
type UsersListOutput struct {
	Link string `header:"Link" doc:"RFC 8288 pagination links"`
	Body UsersListData
}

// DonorsListData is the response body containing paginated donors.
type DonorsListData struct {
	Donors []Donor `json:"donors" doc:"Matching donors"`
	Total  int     `json:"total"  doc:"Total count matching the filter" example:"7"`
}

// DonorsListOutput is the response wrapper with pagination Link header.
type DonorsListOutput struct {
	Link string `header:"Link" doc:"RFC 8288 pagination links"`
	Body DonorsListData
}

// UserUpdateOutput for PATCH /users/{email}/role and /users/{email}/status
type UserUpdateOutput struct {
	Body User
}
