package identity

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/roktodan/roktodan-api/internal/platform/auth"
	applog "github.com/roktodan/roktodan-api/internal/platform/logging"
	"github.com/roktodan/roktodan-api/internal/service/profile"
)

// Reconciler resolves a provider session token into a Principal backed by the
// profile store. First-seen emails are provisioned with role donor and status
// active; the store's upsert guarantees concurrent first sign-ins coalesce
// onto one record.
type Reconciler struct {
	verifier auth.Verifier
	profiles profile.Service
}

// NewReconciler creates a reconciler over the given verifier and profile store.
func NewReconciler(verifier auth.Verifier, profiles profile.Service) *Reconciler {
	return &Reconciler{verifier: verifier, profiles: profiles}
}

// Reconcile verifies the session token and resolves the caller's Principal.
//
// Token verification failures map to ErrInvalidSession, except certificate
// fetch failures which map to ErrProviderUnavailable. Profile store failures
// map to ErrProfileUnavailable. Role and status are always read from the
// store; the token's name/picture claims are hints that fill blank fields on
// the stored record only.
func (r *Reconciler) Reconcile(ctx context.Context, token string) (*Principal, error) {
	user, err := r.verifier.Verify(ctx, token)
	if err != nil {
		if errors.Is(err, auth.ErrCertificateFetch) {
			return nil, ErrProviderUnavailable
		}
		return nil, ErrInvalidSession
	}

	p, err := r.profiles.UpsertByEmail(ctx, user.Email, profile.Hints{
		Name:   user.Name,
		Avatar: user.Avatar,
	})
	if err != nil {
		applog.LogError(ctx, "profile reconciliation failed", err,
			zap.String("email", user.Email))
		return nil, ErrProfileUnavailable
	}

	return &Principal{
		Email:  p.Email,
		Name:   p.Name,
		Avatar: p.Avatar,
		Role:   p.Role,
		Status: p.Status,
	}, nil
}
