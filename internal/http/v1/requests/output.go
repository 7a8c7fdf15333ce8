package requests

// RequestCreateOutput for POST /requests (201 Created)
type RequestCreateOutput struct {
	Location string `header:"Location" doc:"URL of created request"`
	Body     DonationRequest
}

// RequestDetail pairs a request with the caller's permitted actions.
type RequestDetail struct {
	Request DonationRequest `json:"request" doc:"The donation request"`
	Actions Actions         `json:"actions" doc:"Actions the caller may perform"`
}

// RequestGetOutput for GET /requests/{id}
type RequestGetOutput struct {
	Body RequestDetail
}

// ListData is the response body containing paginated requests.
type ListData struct {
	Requests []DonationRequest `json:"requests" doc:"List of donation requests"`
	Total    int               `json:"total"    doc:"Total count matching the filter" example:"12"`
}

// RequestsListOutput is the response wrapper with pagination Link header.
type RequestsListOutput struct {
	Link string `header:"Link" doc:"RFC 8288 pagination links"`
	Body ListData
}

// RequestUpdateOutput for PATCH /requests/{id} and /requests/{id}/status
type RequestUpdateOutput struct {
	Body DonationRequest
}
