package authclient

import (
	"context"
	"errors"
	"log"
	"strings"
)

// State is the session lifecycle as an explicit tagged value, not a set
// of booleans.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateUnauthenticated
	StateAuthenticated
	StateBackendUnavailable
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	case StateBackendUnavailable:
		return "backend_unavailable"
	}
	return "unknown"
}

// ErrBackendUnavailable is returned by Login while the session sits in
// BackendUnavailable; no auth attempt is permitted until Retry succeeds.
var ErrBackendUnavailable = errors.New("backend unavailable")

// rolePrecedence is the fixed tie-break order for picking a landing
// route.  First held role wins; users with none of these land on "/".
var rolePrecedence = []struct {
	role  string
	route string
}{
	{"sales", "/sales"},
	{"course_manager", "/course-manager"},
	{"trainer", "/trainer"},
	{"student", "/student"},
	{"admin", "/admin"},
}

// RouteForRoles resolves the landing route for a role list using the
// fixed precedence.  Comparison is case-insensitive.  A user holding
// [student, sales] lands on /sales because sales precedes student.
func RouteForRoles(roles []string) string {
	held := make(map[string]bool, len(roles))
	for _, r := range roles {
		held[strings.ToLower(strings.TrimSpace(r))] = true
	}
	for _, p := range rolePrecedence {
		if held[p.role] {
			return p.route
		}
	}
	return "/"
}

// Session is the process-wide auth state machine the portals render
// from.  It never lets an error escape: every failure path lands in a
// defined state.  Auth operations are not safe to overlap; the embedding
// UI disables its controls while IsLoading reports true.
type Session struct {
	client *Client
	health *HealthChecker

	state   State
	user    *User
	loading bool

	subs []func(State)

	// Notify receives one user-facing message per surfaced failure.
	// Optional; nil drops notifications.
	Notify func(message string)
}

// NewSession wires the state machine over an API client and a health
// checker sharing the same backend.
func NewSession(client *Client, health *HealthChecker) *Session {
	return &Session{client: client, health: health, state: StateUninitialized}
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// User returns the fetched profile while Authenticated.
func (s *Session) User() (User, bool) {
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// IsLoading reports whether an auth operation is in flight.
func (s *Session) IsLoading() bool { return s.loading }

// Subscribe registers a callback invoked after every state transition.
// Used by the UI layer to re-render routes.
func (s *Session) Subscribe(fn func(State)) {
	s.subs = append(s.subs, fn)
}

// HasRole applies the capability rule against the current user; false
// whenever no user is authenticated.
func (s *Session) HasRole(role string) bool {
	if s.user == nil {
		return false
	}
	return s.user.HasRole(role)
}

// RedirectPath resolves the landing route for the authenticated user,
// or the login route when nobody is signed in.
func (s *Session) RedirectPath() string {
	if s.user == nil {
		return "/login"
	}
	return RouteForRoles(s.user.Roles)
}

// Initialize runs the cold-start sequence once per process lifetime:
//
//  1. probe backend health; unreachable ends in BackendUnavailable;
//  2. no stored tokens means Unauthenticated;
//  3. stale access token: attempt a refresh; failure clears tokens;
//  4. fetch the profile: 401 clears tokens, transient errors keep them.
//
// Calling it again after the first run returns the current state
// unchanged, except from BackendUnavailable where Retry is the way back.
func (s *Session) Initialize(ctx context.Context) State {
	if s.state != StateUninitialized {
		return s.state
	}
	return s.initialize(ctx)
}

// Retry re-runs initialization after a BackendUnavailable verdict.  This
// is the manual "try again" on the retry screen.
func (s *Session) Retry(ctx context.Context) State {
	if s.state != StateBackendUnavailable {
		return s.state
	}
	return s.initialize(ctx)
}

func (s *Session) initialize(ctx context.Context) State {
	s.setState(StateInitializing)
	s.loading = true
	defer func() { s.loading = false }()

	if !s.health.ValidateConnectivity(ctx) {
		s.setState(StateBackendUnavailable)
		return s.state
	}

	if !HasTokens(s.client.Store) {
		s.setState(StateUnauthenticated)
		return s.state
	}

	v := Validator{Store: s.client.Store}
	if check := v.ValidateAccessToken(); !check.Valid {
		if _, err := s.client.RefreshTokens(ctx); err != nil {
			// RefreshTokens already cleared the store on auth
			// rejection; clear again for transport failures so no
			// stale pair survives a failed recovery.
			_ = s.client.Store.Clear()
			s.setState(StateUnauthenticated)
			return s.state
		}
	}

	user, err := s.client.Profile(ctx)
	if err != nil {
		var authErr *AuthError
		if errors.As(err, &authErr) {
			_ = s.client.Store.Clear()
		} else {
			// Possibly transient; keep the tokens and try again on
			// the next cold start.
			log.Printf("session: profile fetch failed: %v", err)
		}
		s.setState(StateUnauthenticated)
		return s.state
	}

	s.user = &user
	s.setState(StateAuthenticated)
	return s.state
}

// Login authenticates and transitions to Authenticated.  The error is
// re-thrown to the caller so the submitting form can reset itself, after
// a notification has been surfaced.  Login is refused without a network
// attempt while the backend is known to be unreachable.
func (s *Session) Login(ctx context.Context, email, password string) error {
	if s.state == StateBackendUnavailable {
		return ErrBackendUnavailable
	}
	s.loading = true
	defer func() { s.loading = false }()

	user, err := s.client.Login(ctx, email, password)
	if err != nil {
		s.notify(loginFailureMessage(err))
		return err
	}
	s.user = &user
	s.setState(StateAuthenticated)
	return nil
}

// Logout ends the session.  It always lands in Unauthenticated with the
// store cleared, regardless of whether the server call succeeded.
func (s *Session) Logout(ctx context.Context) {
	s.loading = true
	defer func() { s.loading = false }()

	if err := s.client.Logout(ctx); err != nil {
		log.Printf("session: token store clear failed: %v", err)
	}
	s.user = nil
	s.setState(StateUnauthenticated)
}

// ForceUnauthenticated handles an irrecoverable 401 observed outside the
// session's own calls (e.g. an API wrapper saw its refresh rejected).
func (s *Session) ForceUnauthenticated() {
	_ = s.client.Store.Clear()
	s.user = nil
	s.setState(StateUnauthenticated)
}

func (s *Session) setState(st State) {
	s.state = st
	for _, fn := range s.subs {
		fn(st)
	}
}

func (s *Session) notify(msg string) {
	if s.Notify != nil {
		s.Notify(msg)
	}
}

func loginFailureMessage(err error) string {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return "Invalid email or password."
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return "Could not reach the server. Please try again."
	}
	return "Login failed: " + err.Error()
}
