// Package lifecycle governs donation request status transitions. The
// transition table is the single source of truth: the engine enforces it on
// every write and the gate derives UI-facing permissions from the same
// predicates, so client and server can never disagree about what is allowed.
package lifecycle

import (
	"errors"

	"github.com/roktodan/roktodan-api/internal/identity"
	"github.com/roktodan/roktodan-api/internal/service/request"
)

// Transition errors.
var (
	// ErrBlocked rejects any mutating call from a blocked principal.
	ErrBlocked = errors.New("account is blocked")

	// ErrIllegalTransition rejects target statuses the table does not reach
	// from the record's current status, regardless of caller. This is what a
	// stale client sees after losing a race.
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrForbidden rejects callers failing the table's role/relationship
	// predicate for an otherwise legal transition.
	ErrForbidden = errors.New("not permitted for this request")

	// ErrSelfClaim rejects a requester claiming their own request.
	ErrSelfClaim = errors.New("cannot claim own request")
)

// transitions holds the reachable target statuses per current status.
// Terminal states have no entries.
var transitions = map[request.Status][]request.Status{
	request.StatusPending:    {request.StatusInProgress, request.StatusCanceled},
	request.StatusInProgress: {request.StatusDone, request.StatusCanceled},
}

// reachable reports whether the table contains the (from, to) edge.
func reachable(from, to request.Status) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// allowed evaluates the role/relationship predicate for the (from, to) edge.
// It assumes the edge is reachable and the principal is not blocked.
//
//	pending    → inprogress  any principal other than the requester (the claim)
//	pending    → canceled    requester or admin
//	inprogress → done        assigned donor, any volunteer, or any admin
//	inprogress → canceled    assigned donor, any volunteer, or any admin
func allowed(p *identity.Principal, req *request.Request, from, to request.Status) error {
	switch {
	case from == request.StatusPending && to == request.StatusInProgress:
		if p.Email == req.RequesterEmail {
			return ErrSelfClaim
		}
		return nil
	case from == request.StatusPending && to == request.StatusCanceled:
		if p.Email == req.RequesterEmail || p.IsAdmin() {
			return nil
		}
		return ErrForbidden
	case from == request.StatusInProgress && (to == request.StatusDone || to == request.StatusCanceled):
		if p.Email == req.DonorEmail || p.IsVolunteer() || p.IsAdmin() {
			return nil
		}
		return ErrForbidden
	default:
		return ErrIllegalTransition
	}
}

// CanEdit reports whether the principal may edit descriptive fields or delete
// the request: the owner or an admin. Volunteers are denied.
func CanEdit(p *identity.Principal, req *request.Request) bool {
	if p.Blocked() {
		return false
	}
	return p.Email == req.RequesterEmail || p.IsAdmin()
}
