package request

import (
	"context"
	"errors"
	"time"
)

// Store errors
var (
	ErrNotFound = errors.New("donation request not found")

	// ErrConflict indicates a compare-and-set write observed a status other
	// than the one the caller expected. Retryable: re-fetch and retry.
	ErrConflict = errors.New("donation request status changed concurrently")
)

// Status is a donation request's lifecycle state. Only the lifecycle engine
// may move a request between statuses.
type Status string

// Lifecycle states. Done and canceled are terminal.
const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "inprogress"
	StatusDone       Status = "done"
	StatusCanceled   Status = "canceled"
)

// ValidStatus reports whether s is a known lifecycle state.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone, StatusCanceled:
		return true
	}
	return false
}

// Terminal reports whether no transition may leave s.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusCanceled
}

// Request is a donation request record. RequesterEmail is fixed at creation
// from the authenticated principal; DonorName/DonorEmail are set exactly once
// by the claim transition and never by direct field writes.
type Request struct {
	ID                string
	RequesterEmail    string
	RequesterName     string
	RecipientName     string
	RecipientDistrict string
	RecipientUpazila  string
	HospitalName      string
	FullAddress       string
	BloodGroup        string
	DonationDate      string
	DonationTime      string
	RequestMessage    string
	Status            Status
	DonorName         string
	DonorEmail        string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Donor identifies the claiming principal on a pending → inprogress write.
type Donor struct {
	Name  string
	Email string
}

// CreateParams for new requests. Status is not a parameter: every request
// starts pending.
type CreateParams struct {
	RequesterEmail    string
	RequesterName     string
	RecipientName     string
	RecipientDistrict string
	RecipientUpazila  string
	HospitalName      string
	FullAddress       string
	BloodGroup        string
	DonationDate      string
	DonationTime      string
	RequestMessage    string
}

// UpdateParams for descriptive edits. Status and donor fields are absent on
// purpose; they change only through CompareAndSetStatus.
type UpdateParams struct {
	RecipientName     *string
	RecipientDistrict *string
	RecipientUpazila  *string
	HospitalName      *string
	FullAddress       *string
	BloodGroup        *string
	DonationDate      *string
	DonationTime      *string
	RequestMessage    *string
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Status         Status
	BloodGroup     string
	District       string
	Upazila        string
	RequesterEmail string
}

// Store defines donation request persistence. All mutating writes are atomic:
// a crash mid-write must never expose an inprogress record without a donor or
// a donor on a pending record.
type Store interface {
	// Create persists a new request with status pending and a fresh ID.
	Create(ctx context.Context, params CreateParams) (*Request, error)

	// GetByID returns the record or ErrNotFound.
	GetByID(ctx context.Context, id string) (*Request, error)

	// List returns records matching the filter, newest first.
	List(ctx context.Context, filter Filter) ([]*Request, error)

	// CompareAndSetStatus writes next only if the record's status still equals
	// expected, otherwise ErrConflict. A non-nil donor is written in the same
	// atomic unit (the claim). Losing a claim race reports ErrConflict, never
	// an overwrite.
	CompareAndSetStatus(ctx context.Context, id string, expected, next Status, donor *Donor) (*Request, error)

	// PatchDescriptive updates descriptive fields only.
	PatchDescriptive(ctx context.Context, id string, params UpdateParams) (*Request, error)

	// Delete removes the record. Authorization is the caller's concern; the
	// lifecycle table does not constrain deletion.
	Delete(ctx context.Context, id string) error
}

// Matches reports whether r satisfies the filter.
func (f Filter) Matches(r *Request) bool {
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.BloodGroup != "" && r.BloodGroup != f.BloodGroup {
		return false
	}
	if f.District != "" && r.RecipientDistrict != f.District {
		return false
	}
	if f.Upazila != "" && r.RecipientUpazila != f.Upazila {
		return false
	}
	if f.RequesterEmail != "" && r.RequesterEmail != f.RequesterEmail {
		return false
	}
	return true
}
