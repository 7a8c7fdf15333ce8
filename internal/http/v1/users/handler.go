package users

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"slices"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/roktodan/roktodan-api/internal/identity"
	platformauth "github.com/roktodan/roktodan-api/internal/platform/auth"
	applog "github.com/roktodan/roktodan-api/internal/platform/logging"
	"github.com/roktodan/roktodan-api/internal/platform/pagination"
	profilesvc "github.com/roktodan/roktodan-api/internal/service/profile"
)

const cursorType = "user"

var bearerSecurity = []map[string][]string{
	{"bearerAuth": {}},
}

// Register registers account management and donor search endpoints.
func Register(api huma.API, svc profilesvc.Service, revoker platformauth.Revoker, prefix string) {
	huma.Register(api, huma.Operation{
		OperationID: "list-users",
		Method:      http.MethodGet,
		Path:        "/users",
		Summary:     "List accounts",
		Description: "Admin-only listing of every account, filterable by role and status.",
		Tags:        []string{"Users"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *UsersListInput) (*UsersListOutput, error) {
		principal := identity.PrincipalFromContext(ctx)
		if err := requireAdmin(principal); err != nil {
			return nil, err
		}

		filter := profilesvc.Filter{
			Role:   profilesvc.Role(input.Role),
			Status: profilesvc.Status(input.Status),
		}
		query := url.Values{}
		if input.Role != "" {
			query.Set("role", input.Role)
		}
		if input.Status != "" {
			query.Set("status", input.Status)
		}

		result, err := listProfiles(ctx, svc, filter, input.Params, prefix+"/users", query)
		if err != nil {
			return nil, err
		}

		page := make([]User, 0, len(result.Items))
		for _, p := range result.Items {
			page = append(page, toHTTPUser(p))
		}
		return &UsersListOutput{
			Link: result.LinkHeader,
			Body: UsersListData{Users: page, Total: result.Total},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "search-donors",
		Method:      http.MethodGet,
		Path:        "/users/donors",
		Summary:     "Search donors",
		Description: "Finds active donors by blood group and location. Available to every active principal.",
		Tags:        []string{"Users"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *DonorSearchInput) (*DonorsListOutput, error) {
		principal := identity.PrincipalFromContext(ctx)
		if principal.Blocked() {
			return nil, huma.Error403Forbidden("account is blocked")
		}

		filter := profilesvc.Filter{
			Role:       profilesvc.RoleDonor,
			Status:     profilesvc.StatusActive,
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

		result, err := listProfiles(ctx, svc, filter, input.Params, prefix+"/users/donors", query)
		if err != nil {
			return nil, err
		}

		page := make([]Donor, 0, len(result.Items))
		for _, p := range result.Items {
			page = append(page, toHTTPDonor(p))
		}
		return &DonorsListOutput{
			Link: result.LinkHeader,
			Body: DonorsListData{Donors: page, Total: result.Total},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-user-role",
		Method:      http.MethodPatch,
		Path:        "/users/{email}/role",
		Summary:     "Assign a role",
		Description: "Admin-only. Changes take effect on the target's next request; no re-authentication needed.",
		Tags:        []string{"Users"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *RoleUpdateInput) (*UserUpdateOutput, error) {
		principal := identity.PrincipalFromContext(ctx)
		if err := requireAdmin(principal); err != nil {
			return nil, err
		}

		p, err := svc.SetRole(ctx, input.Email, profilesvc.Role(input.Body.Role))
		if err != nil {
			return nil, mapServiceError(err)
		}

		applog.LogAuditEvent(ctx, "set_role", principal.Email, "account", p.Email, "success",
			map[string]any{"role": input.Body.Role})
		return &UserUpdateOutput{Body: toHTTPUser(p)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-user-status",
		Method:      http.MethodPatch,
		Path:        "/users/{email}/status",
		Summary:     "Block or unblock an account",
		Description: "Admin-only. Blocking also revokes the target's provider sessions; the lockout itself is enforced from the stored status on every request.",
		Tags:        []string{"Users"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *UserStatusUpdateInput) (*UserUpdateOutput, error) {
		principal := identity.PrincipalFromContext(ctx)
		if err := requireAdmin(principal); err != nil {
			return nil, err
		}

		p, err := svc.SetStatus(ctx, input.Email, profilesvc.Status(input.Body.Status))
		if err != nil {
			return nil, mapServiceError(err)
		}

		if p.Status == profilesvc.StatusBlocked {
			// Best effort. The block holds either way because status is
			// re-read from the store on every authenticated request.
			if err := revoker.RevokeSessions(ctx, p.Email); err != nil {
				applog.LogWarn(ctx, "session revocation failed for blocked account",
					zap.String("email", p.Email), zap.Error(err))
			}
		}

		applog.LogAuditEvent(ctx, "set_status", principal.Email, "account", p.Email, "success",
			map[string]any{"status": input.Body.Status})
		return &UserUpdateOutput{Body: toHTTPUser(p)}, nil
	})
}

func listProfiles(
	ctx context.Context,
	svc profilesvc.Service,
	filter profilesvc.Filter,
	params pagination.Params,
	baseURL string,
	query url.Values,
) (pagination.Result[*profilesvc.Profile], error) {
	var zero pagination.Result[*profilesvc.Profile]

	cursor, err := pagination.DecodeCursor(params.Cursor)
	if err != nil {
		return zero, huma.Error400BadRequest("invalid cursor format")
	}
	if cursor.Type != "" && cursor.Type != cursorType {
		return zero, huma.Error400BadRequest("cursor type mismatch")
	}

	all, err := svc.List(ctx, filter)
	if err != nil {
		return zero, mapServiceError(err)
	}

	if cursor.Value != "" && !slices.ContainsFunc(all, func(p *profilesvc.Profile) bool {
		return p.Email == cursor.Value
	}) {
		return zero, huma.Error400BadRequest("cursor references unknown account")
	}

	return pagination.Paginate(
		all,
		cursor,
		params.DefaultLimit(),
		cursorType,
		func(p *profilesvc.Profile) string { return p.Email },
		baseURL,
		query,
	), nil
}

func requireAdmin(p *identity.Principal) error {
	if p.Blocked() {
		return huma.Error403Forbidden("account is blocked")
	}
	if !p.IsAdmin() {
		return huma.Error403Forbidden("admin role required")
	}
	return nil
}

func mapServiceError(err error) error {
	switch {
	case errors.Is(err, profilesvc.ErrNotFound):
		return huma.Error404NotFound("account not found")
	default:
		return huma.Error500InternalServerError("internal error")
	}
}
