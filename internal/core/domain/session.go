package domain

// Phase names the node of the session state machine.
type Phase string

const (
	PhaseInit          Phase = "init"
	PhaseAnonymous     Phase = "anonymous"
	PhaseAuthenticated Phase = "authenticated"
)

// RouteDecision is what the route guard does for a given SessionState.
type RouteDecision int

const (
	// RouteWait renders a waiting indicator and makes no routing decision.
	RouteWait RouteDecision = iota
	// RoutePublic renders only the public entry surface.
	RoutePublic
	// RouteProtected renders the protected route tree.
	RouteProtected
)

func (d RouteDecision) String() string {
	switch d {
	case RouteWait:
		return "wait"
	case RoutePublic:
		return "public"
	case RouteProtected:
		return "protected"
	default:
		return "unknown"
	}
}

// SessionState is a snapshot of the process-wide session. While Loading is
// true, Identity is not authoritative.
type SessionState struct {
	Identity *Identity
	Loading  bool
	// Restored is false only before the startup restore has completed.
	Restored bool
}

// Authenticated reports whether an identity is present and authoritative.
func (s SessionState) Authenticated() bool {
	return !s.Loading && s.Identity != nil
}

// Route returns the guard decision. Loading wins over everything else.
func (s SessionState) Route() RouteDecision {
	switch {
	case s.Loading:
		return RouteWait
	case s.Identity == nil:
		return RoutePublic
	default:
		return RouteProtected
	}
}

// Phase maps the snapshot onto the state machine. An in-flight sign-in keeps
// the previous phase.
func (s SessionState) Phase() Phase {
	switch {
	case !s.Restored:
		return PhaseInit
	case s.Identity == nil:
		return PhaseAnonymous
	default:
		return PhaseAuthenticated
	}
}

// Clone returns a copy that shares nothing with s.
func (s SessionState) Clone() SessionState {
	if s.Identity != nil {
		id := *s.Identity
		s.Identity = &id
	}
	return s
}
