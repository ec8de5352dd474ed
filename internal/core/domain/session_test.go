package domain

import (
	"errors"
	"testing"
)

func TestSessionState_Route(t *testing.T) {
	id := &Identity{ID: "1", DisplayName: "trader", Email: "trader@x.com"}

	cases := []struct {
		name  string
		state SessionState
		want  RouteDecision
	}{
		{"init", SessionState{Loading: true}, RouteWait},
		{"loading with identity", SessionState{Loading: true, Restored: true, Identity: id}, RouteWait},
		{"anonymous", SessionState{Restored: true}, RoutePublic},
		{"authenticated", SessionState{Restored: true, Identity: id}, RouteProtected},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.state.Route(); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
			if public := tc.state.Route() == RoutePublic; public != (!tc.state.Loading && tc.state.Identity == nil) {
				t.Fatalf("public surface must show iff not loading and anonymous")
			}
		})
	}
}

func TestSessionState_Phase(t *testing.T) {
	id := &Identity{ID: "1", DisplayName: "a", Email: "a@b"}
	if p := (SessionState{Loading: true}).Phase(); p != PhaseInit {
		t.Fatalf("expected init, got %s", p)
	}
	if p := (SessionState{Restored: true}).Phase(); p != PhaseAnonymous {
		t.Fatalf("expected anonymous, got %s", p)
	}
	if p := (SessionState{Restored: true, Loading: true, Identity: id}).Phase(); p != PhaseAuthenticated {
		t.Fatalf("expected authenticated during re-auth, got %s", p)
	}
}

func TestSessionState_CloneDoesNotShareIdentity(t *testing.T) {
	s := SessionState{Restored: true, Identity: &Identity{ID: "1", DisplayName: "a", Email: "a@b"}}
	c := s.Clone()
	c.Identity.DisplayName = "changed"
	if s.Identity.DisplayName != "a" {
		t.Fatalf("clone mutated original")
	}
}

func TestDisplayNameFromEmail(t *testing.T) {
	cases := map[string]string{
		"trader@x.com": "trader",
		"noatsign":     "noatsign",
		"a@b@c":        "a",
		"@x.com":       "",
	}
	for in, want := range cases {
		if got := DisplayNameFromEmail(in); got != want {
			t.Errorf("DisplayNameFromEmail(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIdentity_Validate(t *testing.T) {
	if err := (Identity{ID: "1", DisplayName: "a", Email: "a@b"}).Validate(); err != nil {
		t.Fatalf("expected valid identity, got %v", err)
	}
	for _, id := range []Identity{
		{DisplayName: "a", Email: "a@b"},
		{ID: "1", DisplayName: "  ", Email: "a@b"},
		{ID: "1", DisplayName: "a"},
	} {
		if err := id.Validate(); !errors.Is(err, ErrIncompleteIdentity) {
			t.Fatalf("expected ErrIncompleteIdentity for %+v, got %v", id, err)
		}
	}
}
