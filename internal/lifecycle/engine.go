package lifecycle

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/roktodan/roktodan-api/internal/identity"
	applog "github.com/roktodan/roktodan-api/internal/platform/logging"
	"github.com/roktodan/roktodan-api/internal/service/request"
)

// Engine validates and applies status transitions. Every write goes through
// the store's compare-and-set, so a transition observed on a stale status
// fails with request.ErrConflict instead of overwriting a racing writer.
type Engine struct {
	store request.Store
}

// NewEngine creates an engine over the given request store.
func NewEngine(store request.Store) *Engine {
	return &Engine{store: store}
}

// Transition moves the request to target on behalf of the principal.
//
// Replaying an already-applied transition (same target, same effective actor)
// returns the current record unchanged, so a client retry after an ambiguous
// network failure is harmless. A claim replay by a different principal
// reports request.ErrConflict: the request is already taken.
func (e *Engine) Transition(ctx context.Context, p *identity.Principal, id string, target request.Status) (*request.Request, error) {
	if p.Blocked() {
		return nil, ErrBlocked
	}
	if !request.ValidStatus(target) {
		return nil, ErrIllegalTransition
	}

	req, err := e.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status == target {
		return e.replay(p, req, target)
	}

	if !reachable(req.Status, target) {
		return nil, ErrIllegalTransition
	}
	if err := allowed(p, req, req.Status, target); err != nil {
		return nil, err
	}

	var donor *request.Donor
	if req.Status == request.StatusPending && target == request.StatusInProgress {
		donor = &request.Donor{Name: p.Name, Email: p.Email}
	}

	updated, err := e.store.CompareAndSetStatus(ctx, id, req.Status, target, donor)
	if err != nil {
		if errors.Is(err, request.ErrConflict) {
			applog.LogWarn(ctx, "transition lost status race",
				zap.String("request_id", id),
				zap.String("target", string(target)))
		}
		applog.LogAuditEvent(ctx, "transition", p.Email, "donation_request", id, "failure",
			map[string]any{"target": string(target)})
		return nil, err
	}

	applog.LogAuditEvent(ctx, "transition", p.Email, "donation_request", id, "success",
		map[string]any{"from": string(req.Status), "to": string(target)})
	return updated, nil
}

// replay resolves a transition whose target equals the current status.
func (e *Engine) replay(p *identity.Principal, req *request.Request, target request.Status) (*request.Request, error) {
	if target == request.StatusPending {
		// pending is the initial state, never a transition target.
		return nil, ErrIllegalTransition
	}
	if target == request.StatusInProgress {
		if req.DonorEmail == p.Email {
			return req, nil
		}
		// Someone else already claimed it.
		return nil, request.ErrConflict
	}
	// Terminal replays: idempotent for any caller the predicate would have
	// admitted from either feeding state.
	if allowed(p, req, request.StatusInProgress, target) == nil ||
		allowed(p, req, request.StatusPending, target) == nil {
		return req, nil
	}
	return nil, ErrForbidden
}
