package profile

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/roktodan/roktodan-api/internal/identity"
	applog "github.com/roktodan/roktodan-api/internal/platform/logging"
	profilesvc "github.com/roktodan/roktodan-api/internal/service/profile"
)

var bearerSecurity = []map[string][]string{
	{"bearerAuth": {}},
}

// Register registers profile endpoints. Accounts are provisioned by session
// reconciliation, so there is no create endpoint; the record always exists by
// the time an authenticated handler runs.
func Register(api huma.API, svc profilesvc.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "get-profile",
		Method:      http.MethodGet,
		Path:        "/profile",
		Summary:     "Get current user's profile",
		Description: "Retrieves the stored account for the authenticated user. Works while blocked so the client can show the lockout.",
		Tags:        []string{"Profile"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, _ *ProfileGetInput) (*ProfileGetOutput, error) {
		principal := identity.PrincipalFromContext(ctx)

		p, err := svc.GetByEmail(ctx, principal.Email)
		if err != nil {
			return nil, mapServiceError(err)
		}
		return &ProfileGetOutput{Body: toHTTPProfile(p)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-profile",
		Method:      http.MethodPatch,
		Path:        "/profile",
		Summary:     "Update current user's profile",
		Description: "Updates display fields on the authenticated user's account. Role and status are admin-managed and never change here.",
		Tags:        []string{"Profile"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *ProfileUpdateInput) (*ProfileUpdateOutput, error) {
		principal := identity.PrincipalFromContext(ctx)
		if principal.Blocked() {
			return nil, huma.Error403Forbidden("account is blocked")
		}
		if !hasProfileUpdateFields(input) {
			return nil, huma.Error422UnprocessableEntity("at least one field must be provided")
		}

		p, err := svc.Patch(ctx, principal.Email, profilesvc.UpdateParams{
			Name:       input.Body.Name,
			Avatar:     input.Body.Avatar,
			BloodGroup: input.Body.BloodGroup,
			District:   input.Body.District,
			Upazila:    input.Body.Upazila,
		})
		if err != nil {
			return nil, mapServiceError(err)
		}

		applog.LogAuditEvent(ctx, "update", principal.Email, "account", principal.Email, "success", nil)
		return &ProfileUpdateOutput{Body: toHTTPProfile(p)}, nil
	})
}

func hasProfileUpdateFields(input *ProfileUpdateInput) bool {
	return input.Body.Name != nil ||
		input.Body.Avatar != nil ||
		input.Body.BloodGroup != nil ||
		input.Body.District != nil ||
		input.Body.Upazila != nil
}

func mapServiceError(err error) error {
	switch {
	case errors.Is(err, profilesvc.ErrNotFound):
		return huma.Error404NotFound("profile not found")
	default:
		return huma.Error500InternalServerError("internal error")
	}
}
