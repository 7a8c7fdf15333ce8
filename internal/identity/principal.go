package identity

import (
	"errors"

	"github.com/roktodan/roktodan-api/internal/service/profile"
)

// Reconciliation errors. Provider and profile-store outages are retryable and
// must never be reported as an unauthenticated session.
var (
	// ErrInvalidSession indicates the session token failed verification.
	ErrInvalidSession = errors.New("invalid session")

	// ErrProviderUnavailable indicates the identity provider could not be
	// reached. Callers should retry, not treat the user as signed out.
	ErrProviderUnavailable = errors.New("identity provider unavailable")

	// ErrProfileUnavailable indicates the profile store could not be reached.
	// The ambiguous state surfaces as a retryable error, never as anonymous.
	ErrProfileUnavailable = errors.New("profile store unavailable")
)

// Principal is the resolved, authorization-relevant identity of the current
// caller. It is derived per request from the provider session and the stored
// profile, and never persisted.
type Principal struct {
	Email  string
	Name   string
	Avatar string

	// Role and Status come from the profile store, never from the token.
	Role   profile.Role
	Status profile.Status
}

// IsAdmin reports whether the principal holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p.Role == profile.RoleAdmin
}

// IsVolunteer reports whether the principal holds the volunteer role.
func (p *Principal) IsVolunteer() bool {
	return p.Role == profile.RoleVolunteer
}

// Blocked reports whether the principal is locked out of every mutating
// operation.
func (p *Principal) Blocked() bool {
	return p.Status == profile.StatusBlocked
}
