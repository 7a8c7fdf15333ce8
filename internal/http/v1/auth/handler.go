package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/roktodan/roktodan-api/internal/identity"
	platformauth "github.com/roktodan/roktodan-api/internal/platform/auth"
	applog "github.com/roktodan/roktodan-api/internal/platform/logging"
	"github.com/roktodan/roktodan-api/internal/service/profile"
)

var bearerSecurity = []map[string][]string{
	{"bearerAuth": {}},
}

// Register registers session endpoints.
//
// Sign-in itself happens against the identity provider on the client; the
// server's part of the handshake is /auth/sync, which reconciles the session
// into a stored account and returns it. Blocked accounts still sync so the
// client can explain the lockout.
func Register(api huma.API, profiles profile.Service, revoker platformauth.Revoker) {
	huma.Register(api, huma.Operation{
		OperationID: "sync-session",
		Method:      http.MethodPost,
		Path:        "/auth/sync",
		Summary:     "Reconcile the provider session into an account",
		Description: "Ensures an account record exists for the session's email and returns it. Idempotent; safe to call on every sign-in.",
		Tags:        []string{"Auth"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, _ *struct{}) (*SyncOutput, error) {
		principal := identity.PrincipalFromContext(ctx)

		p, err := profiles.GetByEmail(ctx, principal.Email)
		if err != nil {
			if errors.Is(err, profile.ErrNotFound) {
				// Reconciliation just upserted this record; absence means the
				// store lost it between the two reads.
				return nil, huma.Error503ServiceUnavailable("account temporarily unavailable")
			}
			return nil, huma.Error500InternalServerError("internal error")
		}

		applog.LogAuditEvent(ctx, "sync", principal.Email, "account", p.Email, "success", nil)
		return &SyncOutput{Body: toHTTPAccount(p)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "sign-out",
		Method:        http.MethodPost,
		Path:          "/auth/signout",
		Summary:       "Sign out everywhere",
		Description:   "Revokes every outstanding provider session for the caller. Outstanding tokens fail verification afterwards.",
		Tags:          []string{"Auth"},
		DefaultStatus: http.StatusNoContent,
		Security:      bearerSecurity,
	}, func(ctx context.Context, _ *struct{}) (*struct{}, error) {
		principal := identity.PrincipalFromContext(ctx)

		if err := revoker.RevokeSessions(ctx, principal.Email); err != nil {
			applog.LogError(ctx, "session revocation failed", err)
			return nil, huma.Error503ServiceUnavailable("sign-out temporarily unavailable")
		}

		applog.LogAuditEvent(ctx, "signout", principal.Email, "account", principal.Email, "success", nil)
		return nil, nil
	})
}
