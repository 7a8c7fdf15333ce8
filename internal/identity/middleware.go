package identity

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/roktodan/roktodan-api/internal/platform/auth"
	applog "github.com/roktodan/roktodan-api/internal/platform/logging"
)

// principalContextKey is the context key for the reconciled principal.
type principalContextKey struct{}

// NewMiddleware creates Huma middleware that reconciles the caller's session
// into a Principal for every operation declaring Security requirements. The
// Principal is injected explicitly into the request context; there is no
// process-wide session state.
func NewMiddleware(api huma.API, reconciler *Reconciler) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if len(ctx.Operation().Security) == 0 {
			next(ctx)
			return
		}

		token, err := auth.ExtractBearerToken(ctx.Header("Authorization"))
		if err != nil {
			applog.LogWarn(ctx.Context(), "auth failed: missing or invalid header",
				zap.String("reason", "no_token"))
			ctx.SetHeader("WWW-Authenticate", "Bearer")
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "missing or invalid authorization header")
			return
		}

		principal, err := reconciler.Reconcile(ctx.Context(), token)
		if err != nil {
			reason := categorizeReconcileError(err)
			applog.LogWarn(ctx.Context(), "auth failed: reconciliation failed",
				zap.String("reason", reason))

			// Outages are retryable, never a sign-out.
			if errors.Is(err, ErrProviderUnavailable) || errors.Is(err, ErrProfileUnavailable) {
				ctx.SetHeader("Retry-After", "30")
				_ = huma.WriteErr(api, ctx, http.StatusServiceUnavailable,
					"authentication temporarily unavailable")
				return
			}
			ctx.SetHeader("WWW-Authenticate", "Bearer")
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "invalid or expired session")
			return
		}

		ctx = huma.WithValue(ctx, principalContextKey{}, principal)
		next(ctx)
	}
}

// categorizeReconcileError returns a safe category string for logging.
func categorizeReconcileError(err error) string {
	switch {
	case errors.Is(err, ErrProviderUnavailable):
		return "provider_unavailable"
	case errors.Is(err, ErrProfileUnavailable):
		return "profile_unavailable"
	case errors.Is(err, ErrInvalidSession):
		return "invalid_session"
	default:
		return "unknown"
	}
}

// PrincipalFromContext retrieves the reconciled principal from context.
// Returns nil if the request was not authenticated.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey{}).(*Principal)
	return p
}
