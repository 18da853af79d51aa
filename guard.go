package session

import "strings"

// DecisionKind tags a RouteDecision.
type DecisionKind int

const (
	// DecisionWait means the initial identity check is still outstanding;
	// the caller renders a loading indicator and re-evaluates, it must not
	// redirect.
	DecisionWait DecisionKind = iota
	DecisionAllow
	DecisionRedirect
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionWait:
		return "wait"
	case DecisionAllow:
		return "allow"
	default:
		return "redirect"
	}
}

// RouteDecision is the guard's verdict for a navigation target. For login
// redirects, From carries the originally requested path so login can return
// the user afterward.
type RouteDecision struct {
	Kind   DecisionKind
	Target string
	From   string
}

func Wait() RouteDecision {
	return RouteDecision{Kind: DecisionWait}
}

func Allow() RouteDecision {
	return RouteDecision{Kind: DecisionAllow}
}

func RedirectTo(target string) RouteDecision {
	return RouteDecision{Kind: DecisionRedirect, Target: target}
}

func (d RouteDecision) withFrom(from string) RouteDecision {
	d.From = from
	return d
}

// RouteGuard decides whether a navigation target may render. Decide is pure:
// same state, route, and required role always yield the same decision.
type RouteGuard struct {
	config Config
}

func NewRouteGuard(cfg Config) *RouteGuard {
	return &RouteGuard{config: cfg}
}

// Decide evaluates the guard checks in precedence order. The order is
// load-bearing: loading wins over every redirect, an unauthenticated user is
// sent to login before any role check, and a role mismatch wins over the
// email-verification check. requiredRole == "" means any authenticated user.
func (g *RouteGuard) Decide(state AuthState, route string, requiredRole UserRole) RouteDecision {
	if state.Loading {
		return Wait()
	}

	if state.User == nil {
		return RedirectTo(g.config.GetLoginRoute()).withFrom(route)
	}

	if requiredRole != "" && state.User.Role != requiredRole {
		return RedirectTo(g.config.GetUnauthorizedRoute())
	}

	if strings.HasPrefix(route, g.config.GetDashboardPrefix()) && !state.User.EmailVerified {
		return RedirectTo(g.config.GetVerifyEmailRoute())
	}

	return Allow()
}
