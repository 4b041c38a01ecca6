// Package guard decides whether a navigation may proceed.
package guard

import (
	"context"
	"slices"
	"sync"

	"github.com/stemsi/campus-portal/internal/access"
	"github.com/stemsi/campus-portal/internal/model"
)

// State is the outcome of a navigation.
type State int

const (
	Pending State = iota
	Authorized
	Denied
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Authorized:
		return "authorized"
	case Denied:
		return "denied"
	}
	return "unknown"
}

// LoginPath is where denied navigations are sent.
const LoginPath = access.PathLogin

// Evaluate applies the guard rule: the user must be present, and the route
// either accepts any authenticated user or lists the user's role.
func Evaluate(user *model.User, route access.Route) State {
	if route.Public {
		return Authorized
	}
	if user == nil {
		return Denied
	}
	allowed := route.AllowedRoles()
	if len(allowed) == 0 || slices.Contains(allowed, user.Role) {
		return Authorized
	}
	return Denied
}

// Decision is what a navigation resolved to.
type Decision struct {
	Path       string
	State      State
	RedirectTo string
	// Stale is set when a newer navigation started before this one
	// resolved. A stale decision must not be acted on.
	Stale bool
}

// IdentityResolver yields the current user, resolving it if needed.
// *session.Store satisfies it.
type IdentityResolver interface {
	Resolve(ctx context.Context) *model.User
}

// Navigator tracks the current navigation and discards superseded ones.
type Navigator struct {
	resolver IdentityResolver

	mu      sync.Mutex
	seq     uint64
	current Decision
}

func NewNavigator(resolver IdentityResolver) *Navigator {
	return &Navigator{resolver: resolver}
}

// Navigate evaluates path for the current identity. Unknown paths are
// denied. If ctx is cancelled while resolving, the decision is stale.
func (n *Navigator) Navigate(ctx context.Context, path string) Decision {
	n.mu.Lock()
	n.seq++
	seq := n.seq
	n.current = Decision{Path: path, State: Pending}
	n.mu.Unlock()

	route, ok := access.Lookup(path)
	var state State
	switch {
	case !ok:
		state = Denied
	case route.Public:
		state = Authorized
	default:
		state = Evaluate(n.resolver.Resolve(ctx), route)
	}

	d := Decision{Path: path, State: state}
	if state == Denied {
		d.RedirectTo = LoginPath
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if seq != n.seq || ctx.Err() != nil {
		return Decision{Path: path, State: Pending, Stale: true}
	}
	n.current = d
	return d
}

// Current returns the latest committed or pending decision.
func (n *Navigator) Current() Decision {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}
