package profile

import (
	"context"
	"errors"
	"time"
)

// Service errors
var (
	ErrNotFound = errors.New("profile not found")
)

// Role is the application role stored on a profile. The identity provider
// never asserts roles; they are owned exclusively by this store.
type Role string

// Roles, in ascending order of privilege.
const (
	RoleDonor     Role = "donor"
	RoleVolunteer Role = "volunteer"
	RoleAdmin     Role = "admin"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleDonor, RoleVolunteer, RoleAdmin:
		return true
	}
	return false
}

// Status is the account status stored on a profile. Blocked accounts are
// denied every mutating operation.
type Status string

// Account statuses.
const (
	StatusActive  Status = "active"
	StatusBlocked Status = "blocked"
)

// ValidStatus reports whether s is a known account status.
func ValidStatus(s Status) bool {
	return s == StatusActive || s == StatusBlocked
}

// Profile is the durable per-email record backing every authorization
// decision. Email is the natural key and never changes.
type Profile struct {
	Email      string
	Name       string
	Avatar     string
	BloodGroup string
	District   string
	Upazila    string
	Role       Role
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Hints carries provider-asserted display fields. They seed a new record or
// fill blank fields on an existing one, and are never allowed to overwrite
// stored values.
type Hints struct {
	Name   string
	Avatar string
}

// UpdateParams for self-service profile edits. Role and status are absent on
// purpose; they change only through SetRole/SetStatus.
type UpdateParams struct {
	Name       *string
	Avatar     *string
	BloodGroup *string
	District   *string
	Upazila    *string
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Role       Role
	Status     Status
	BloodGroup string
	District   string
	Upazila    string
}

// Service defines profile store operations.
//
// Implementations must normalize the email key: lowercase and trim whitespace.
type Service interface {
	// GetByEmail returns the stored record or ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*Profile, error)

	// UpsertByEmail atomically creates the record if absent (role donor,
	// status active, hints as initial display fields) or returns the existing
	// one with blank display fields filled from hints. Concurrent calls for
	// the same new email must yield exactly one record.
	UpsertByEmail(ctx context.Context, email string, hints Hints) (*Profile, error)

	// Patch updates self-service fields. Only provided fields change.
	Patch(ctx context.Context, email string, params UpdateParams) (*Profile, error)

	// SetRole changes the stored role. Admin-invoked path only.
	SetRole(ctx context.Context, email string, role Role) (*Profile, error)

	// SetStatus changes the stored status. Admin-invoked path only.
	SetStatus(ctx context.Context, email string, status Status) (*Profile, error)

	// List returns records matching the filter, newest first.
	List(ctx context.Context, filter Filter) ([]*Profile, error)
}

// Matches reports whether p satisfies the filter.
func (f Filter) Matches(p *Profile) bool {
	if f.Role != "" && p.Role != f.Role {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.BloodGroup != "" && p.BloodGroup != f.BloodGroup {
		return false
	}
	if f.District != "" && p.District != f.District {
		return false
	}
	if f.Upazila != "" && p.Upazila != f.Upazila {
		return false
	}
	return true
}
