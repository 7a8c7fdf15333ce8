package requests

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"slices"

	"github.com/danielgtaylor/huma/v2"

	"github.com/roktodan/roktodan-api/internal/identity"
	"github.com/roktodan/roktodan-api/internal/lifecycle"
	applog "github.com/roktodan/roktodan-api/internal/platform/logging"
	"github.com/roktodan/roktodan-api/internal/platform/pagination"
	"github.com/roktodan/roktodan-api/internal/platform/timeutil"
	"github.com/roktodan/roktodan-api/internal/service/profile"
	requestsvc "github.com/roktodan/roktodan-api/internal/service/request"
)

const cursorType = "request"

var bearerSecurity = []map[string][]string{
	{"bearerAuth": {}},
}

// Register registers donation request endpoints.
func Register(api huma.API, store requestsvc.Store, engine *lifecycle.Engine, prefix string) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-request",
		Method:        http.MethodPost,
		Path:          "/requests",
		Summary:       "Create a donation request",
		Description:   "Creates a new donation request owned by the authenticated donor. Status always starts as pending.",
		Tags:          []string{"Requests"},
		DefaultStatus: http.StatusCreated,
		Security:      bearerSecurity,
	}, func(ctx context.Context, input *RequestCreateInput) (*RequestCreateOutput, error) {
		principal := identity.PrincipalFromContext(ctx)
		if principal.Blocked() {
			return nil, huma.Error403Forbidden("account is blocked")
		}
		if principal.Role != profile.RoleDonor {
			return nil, huma.Error403Forbidden("only donors may create donation requests")
		}
		if !timeutil.ValidDate(input.Body.DonationDate) {
			return nil, huma.Error422UnprocessableEntity("donationDate is not a valid calendar date")
		}
		if !timeutil.ValidClock(input.Body.DonationTime) {
			return nil, huma.Error422UnprocessableEntity("donationTime is not a valid time of day")
		}

		created, err := store.Create(ctx, requestsvc.CreateParams{
			RequesterEmail:    principal.Email,
			RequesterName:     principal.Name,
			RecipientName:     input.Body.RecipientName,
			RecipientDistrict: input.Body.RecipientDistrict,
			RecipientUpazila:  input.Body.RecipientUpazila,
			HospitalName:      input.Body.HospitalName,
			FullAddress:       input.Body.FullAddress,
			BloodGroup:        input.Body.BloodGroup,
			DonationDate:      input.Body.DonationDate,
			DonationTime:      input.Body.DonationTime,
			RequestMessage:    input.Body.RequestMessage,
		})
		if err != nil {
			return nil, mapStoreError(err)
		}

		applog.LogAuditEvent(ctx, "create", principal.Email, "donation_request", created.ID, "success", nil)
		return &RequestCreateOutput{
			Location: prefix + "/requests/" + created.ID,
			Body:     toHTTPRequest(created),
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-request",
		Method:      http.MethodGet,
		Path:        "/requests/{id}",
		Summary:     "Get a donation request",
		Description: "Retrieves one request together with the actions the caller may perform on it.",
		Tags:        []string{"Requests"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *RequestGetInput) (*RequestGetOutput, error) {
		principal := identity.PrincipalFromContext(ctx)
		if principal.Blocked() {
			return nil, huma.Error403Forbidden("account is blocked")
		}

		req, err := store.GetByID(ctx, input.ID)
		if err != nil {
			return nil, mapStoreError(err)
		}
		return &RequestGetOutput{
			Body: RequestDetail{
				Request: toHTTPRequest(req),
				Actions: toHTTPActions(lifecycle.Permitted(principal, req)),
			},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-my-requests",
		Method:      http.MethodGet,
		Path:        "/requests/my",
		Summary:     "List the caller's donation requests",
		Tags:        []string{"Requests"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *MyRequestsListInput) (*RequestsListOutput, error) {
		principal := identity.PrincipalFromContext(ctx)
		if principal.Blocked() {
			return nil, huma.Error403Forbidden("account is blocked")
		}

		filter := requestsvc.Filter{
			RequesterEmail: principal.Email,
			Status:         requestsvc.Status(input.Status),
		}
		query := url.Values{}
		if input.Status != "" {
			query.Set("status", input.Status)
		}
		return listPage(ctx, store, filter, input.Params, prefix+"/requests/my", query)
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-requests",
		Method:      http.MethodGet,
		Path:        "/requests",
		Summary:     "List all donation requests",
		Description: "Full listing across requesters. Volunteers and admins only.",
		Tags:        []string{"Requests"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *RequestsListInput) (*RequestsListOutput, error) {
		principal := identity.PrincipalFromContext(ctx)
		if principal.Blocked() {
			return nil, huma.Error403Forbidden("account is blocked")
		}
		if !principal.IsVolunteer() && !principal.IsAdmin() {
			return nil, huma.Error403Forbidden("listing all requests requires volunteer or admin role")
		}

		filter := requestsvc.Filter{
			Status:         requestsvc.Status(input.Status),
			BloodGroup:     input.BloodGroup,
			District:       input.District,
			Upazila:        input.Upazila,
			RequesterEmail: input.RequesterEmail,
		}
		query := url.Values{}
		if input.Status != "" {
			query.Set("status", input.Status)
		}
		if input.BloodGroup != "" {
			query.Set("bloodGroup", input.BloodGroup)
		}
		if input.District != "" {
			query.Set("district", input.District)
		}
		if input.Upazila != "" {
			query.Set("upazila", input.Upazila)
		}
		if input.RequesterEmail != "" {
			query.Set("requesterEmail", input.RequesterEmail)
		}
		return listPage(ctx, store, filter, input.Params, prefix+"/requests", query)
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-open-requests",
		Method:      http.MethodGet,
		Path:        "/requests/open",
		Summary:     "Browse pending donation requests",
		Description: "Pending-only listing, available to every active principal regardless of role.",
		Tags:        []string{"Requests"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *OpenRequestsListInput) (*RequestsListOutput, error) {
		principal := identity.PrincipalFromContext(ctx)
		if principal.Blocked() {
			return nil, huma.Error403Forbidden("account is blocked")
		}

		filter := requestsvc.Filter{
			Status:     requestsvc.StatusPending,
			BloodGroup: input.BloodGroup,
			District:   input.District,
			Upazila:    input.Upazila,
		}
		query := url.Values{}
		if input.BloodGroup != "" {
			query.Set("bloodGroup", input.BloodGroup)
		}
		if input.District != "" {
			query.Set("district", input.District)
		}
		if input.Upazila != "" {
			query.Set("upazila", input.Upazila)
		}
		return listPage(ctx, store, filter, input.Params, prefix+"/requests/open", query)
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-request-status",
		Method:      http.MethodPatch,
		Path:        "/requests/{id}/status",
		Summary:     "Transition a donation request",
		Description: "Moves the request through its lifecycle. pending→inprogress is the claim and assigns the caller as donor.",
		Tags:        []string{"Requests"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *StatusUpdateInput) (*RequestUpdateOutput, error) {
		principal := identity.PrincipalFromContext(ctx)

		updated, err := engine.Transition(ctx, principal, input.ID, requestsvc.Status(input.Body.Status))
		if err != nil {
			return nil, mapTransitionError(err)
		}
		return &RequestUpdateOutput{Body: toHTTPRequest(updated)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-request",
		Method:      http.MethodPatch,
		Path:        "/requests/{id}",
		Summary:     "Edit a donation request",
		Description: "Updates descriptive fields. Owner or admin only; status and donor fields never change here.",
		Tags:        []string{"Requests"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *RequestUpdateInput) (*RequestUpdateOutput, error) {
		principal := identity.PrincipalFromContext(ctx)
		if principal.Blocked() {
			return nil, huma.Error403Forbidden("account is blocked")
		}
		if !hasUpdateFields(input) {
			return nil, huma.Error422UnprocessableEntity("at least one field must be provided")
		}
		if input.Body.DonationDate != nil && !timeutil.ValidDate(*input.Body.DonationDate) {
			return nil, huma.Error422UnprocessableEntity("donationDate is not a valid calendar date")
		}
		if input.Body.DonationTime != nil && !timeutil.ValidClock(*input.Body.DonationTime) {
			return nil, huma.Error422UnprocessableEntity("donationTime is not a valid time of day")
		}

		req, err := store.GetByID(ctx, input.ID)
		if err != nil {
			return nil, mapStoreError(err)
		}
		if !lifecycle.CanEdit(principal, req) {
			return nil, huma.Error403Forbidden("not permitted to edit this request")
		}

		updated, err := store.PatchDescriptive(ctx, input.ID, requestsvc.UpdateParams{
			RecipientName:     input.Body.RecipientName,
			RecipientDistrict: input.Body.RecipientDistrict,
			RecipientUpazila:  input.Body.RecipientUpazila,
			HospitalName:      input.Body.HospitalName,
			FullAddress:       input.Body.FullAddress,
			BloodGroup:        input.Body.BloodGroup,
			DonationDate:      input.Body.DonationDate,
			DonationTime:      input.Body.DonationTime,
			RequestMessage:    input.Body.RequestMessage,
		})
		if err != nil {
			return nil, mapStoreError(err)
		}

		applog.LogAuditEvent(ctx, "update", principal.Email, "donation_request", input.ID, "success", nil)
		return &RequestUpdateOutput{Body: toHTTPRequest(updated)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-request",
		Method:        http.MethodDelete,
		Path:          "/requests/{id}",
		Summary:       "Delete a donation request",
		Description:   "Permanently removes a request. Owner or admin only; no lifecycle constraint applies.",
		Tags:          []string{"Requests"},
		DefaultStatus: http.StatusNoContent,
		Security:      bearerSecurity,
	}, func(ctx context.Context, input *RequestDeleteInput) (*struct{}, error) {
		principal := identity.PrincipalFromContext(ctx)
		if principal.Blocked() {
			return nil, huma.Error403Forbidden("account is blocked")
		}

		req, err := store.GetByID(ctx, input.ID)
		if err != nil {
			return nil, mapStoreError(err)
		}
		if !lifecycle.CanEdit(principal, req) {
			return nil, huma.Error403Forbidden("not permitted to delete this request")
		}

		if err := store.Delete(ctx, input.ID); err != nil {
			return nil, mapStoreError(err)
		}
		applog.LogAuditEvent(ctx, "delete", principal.Email, "donation_request", input.ID, "success", nil)
		return nil, nil
	})
}

func listPage(
	ctx context.Context,
	store requestsvc.Store,
	filter requestsvc.Filter,
	params pagination.Params,
	baseURL string,
	query url.Values,
) (*RequestsListOutput, error) {
	cursor, err := pagination.DecodeCursor(params.Cursor)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid cursor format")
	}
	if cursor.Type != "" && cursor.Type != cursorType {
		return nil, huma.Error400BadRequest("cursor type mismatch")
	}

	all, err := store.List(ctx, filter)
	if err != nil {
		return nil, mapStoreError(err)
	}

	if cursor.Value != "" && !slices.ContainsFunc(all, func(r *requestsvc.Request) bool {
		return r.ID == cursor.Value
	}) {
		return nil, huma.Error400BadRequest("cursor references unknown request")
	}

	result := pagination.Paginate(
		all,
		cursor,
		params.DefaultLimit(),
		cursorType,
		func(r *requestsvc.Request) string { return r.ID },
		baseURL,
		query,
	)

	page := make([]DonationRequest, 0, len(result.Items))
	for _, r := range result.Items {
		page = append(page, toHTTPRequest(r))
	}
	return &RequestsListOutput{
		Link: result.LinkHeader,
		Body: ListData{Requests: page, Total: result.Total},
	}, nil
}

func hasUpdateFields(input *RequestUpdateInput) bool {
	b := input.Body
	return b.RecipientName != nil ||
		b.RecipientDistrict != nil ||
		b.RecipientUpazila != nil ||
		b.HospitalName != nil ||
		b.FullAddress != nil ||
		b.BloodGroup != nil ||
		b.DonationDate != nil ||
		b.DonationTime != nil ||
		b.RequestMessage != nil
}

func mapStoreError(err error) error {
	switch {
	case errors.Is(err, requestsvc.ErrNotFound):
		return huma.Error404NotFound("donation request not found")
	case errors.Is(err, requestsvc.ErrConflict):
		return huma.Error409Conflict("request changed concurrently, re-fetch and retry")
	default:
		return huma.Error500InternalServerError("internal error")
	}
}

func mapTransitionError(err error) error {
	switch {
	case errors.Is(err, lifecycle.ErrBlocked):
		return huma.Error403Forbidden("account is blocked")
	case errors.Is(err, lifecycle.ErrForbidden):
		return huma.Error403Forbidden("not permitted to perform this transition")
	case errors.Is(err, lifecycle.ErrSelfClaim):
		return huma.Error422UnprocessableEntity("cannot claim your own request")
	case errors.Is(err, lifecycle.ErrIllegalTransition):
		return huma.Error409Conflict("transition not legal from the request's current status")
	default:
		return mapStoreError(err)
	}
}
