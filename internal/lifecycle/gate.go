package lifecycle

import (
	"github.com/roktodan/roktodan-api/internal/identity"
	"github.com/roktodan/roktodan-api/internal/service/request"
)

// Decision is the permitted action set for a (principal, request) pair. The
// server enforces it on every mutation; clients may render it but their copy
// is advisory only.
type Decision struct {
	View        bool
	Edit        bool
	Delete      bool
	Transitions []request.Status
}

// Permitted derives the caller's action set from the transition table plus
// ownership and role checks. Blocked principals get an empty decision.
func Permitted(p *identity.Principal, req *request.Request) Decision {
	if p == nil || p.Blocked() {
		return Decision{}
	}

	d := Decision{
		View:   true,
		Edit:   CanEdit(p, req),
		Delete: CanEdit(p, req),
	}
	for _, target := range transitions[req.Status] {
		if allowed(p, req, req.Status, target) == nil {
			d.Transitions = append(d.Transitions, target)
		}
	}
	return d
}
