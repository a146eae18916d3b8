package client

// DecisionKind is the outcome of a route guard check.
type DecisionKind string

const (
	// DecisionLoading means the session is still bootstrapping; render a
	// loading state and check again after the session settles.
	DecisionLoading DecisionKind = "loading"
	// DecisionAllow admits the user to the route.
	DecisionAllow DecisionKind = "allow"
	// DecisionRedirect denies access and names where to send the user.
	DecisionRedirect DecisionKind = "redirect"
)

// Decision is a guard verdict. Target is set only for DecisionRedirect.
type Decision struct {
	Kind   DecisionKind
	Target Route
}

// Guard gates routes on session state and role. One guard serves every
// protected route; the required role is a parameter of the check, not a
// property of the guard.
type Guard struct {
	session *Session
}

// NewGuard builds a guard over session.
func NewGuard(session *Session) *Guard {
	return &Guard{session: session}
}

// Check decides access to a route requiring the given role. The zero role
// requires authentication only. While the session bootstraps the verdict is
// DecisionLoading, never a redirect: a slow startup must not bounce a valid
// user to the login page. An authenticated user with the wrong role is
// redirected to their own home route rather than login.
func (g *Guard) Check(required Role) Decision {
	snap := g.session.Snapshot()

	switch snap.State {
	case StateBootstrapping:
		return Decision{Kind: DecisionLoading}
	case StateAnonymous:
		return Decision{Kind: DecisionRedirect, Target: RouteLogin}
	}

	if required == "" || snap.User.Role == required || snap.User.Role == RoleAdmin {
		return Decision{Kind: DecisionAllow}
	}
	return Decision{Kind: DecisionRedirect, Target: HomeRoute(snap.User.Role)}
}
