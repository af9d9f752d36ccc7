// Package services contains application services for the qrtag client.
// This file defines the authentication service: the observable "who is logged
// in" value that the CLI reads, kept in step with the Session Store.
package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/qrtag/internal/client/client"
	"github.com/dmitrijs2005/qrtag/internal/logging"
)

// State is the phase of the authentication state machine.
type State int

const (
	// StateLoading is the initial state, before CheckAuth has settled.
	StateLoading State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Snapshot is the current authentication value. User is non-nil only when
// State is StateAuthenticated.
type Snapshot struct {
	State State
	User  *client.User
}

// LoginResult is what Login reports back to the caller. Message carries the
// server- or transport-supplied text on failure.
type LoginResult struct {
	Success bool
	Message string
	User    *client.User
}

// TokenStore is the part of the Session Store the auth service drives.
type TokenStore interface {
	Token(ctx context.Context) string
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - CheckAuth: resolve the persisted token into a user, or demote to
//     unauthenticated. Failures are logged, never returned.
//   - Login: exchange credentials for a token and store it.
//   - Logout: forget the token locally; the server is not contacted.
//   - ForgotPassword: ask the server to send a reset link.
//   - Current/Subscribe: read and observe the state.
type AuthService interface {
	CheckAuth(ctx context.Context) Snapshot
	Login(ctx context.Context, email, password string) LoginResult
	Logout(ctx context.Context)
	ForgotPassword(ctx context.Context, email string) (string, error)
	Current() Snapshot
	Subscribe(fn func(Snapshot)) (cancel func())
}

// errNoToken marks a successful login response that carried no token.
var errNoToken = errors.New("invalid login response")

type authService struct {
	client client.Client
	tokens TokenStore
	logger logging.Logger

	// tokenMu pairs a generation check with the token write that follows it.
	tokenMu sync.Mutex

	mu      sync.Mutex
	current Snapshot
	// gen is bumped by every transition request; a CheckAuth only applies its
	// result if nothing else happened while its request was in flight.
	gen    uint64
	subs   map[int]func(Snapshot)
	nextID int
}

// NewAuthService constructs an AuthService in StateLoading.
func NewAuthService(c client.Client, tokens TokenStore, logger logging.Logger) AuthService {
	return &authService{
		client:  c,
		tokens:  tokens,
		logger:  logger,
		current: Snapshot{State: StateLoading},
		subs:    make(map[int]func(Snapshot)),
	}
}

func (a *authService) CheckAuth(ctx context.Context) Snapshot {
	gen := a.begin()

	if a.tokens.Token(ctx) == "" {
		a.apply(gen, Snapshot{State: StateUnauthenticated})
		return a.Current()
	}

	user, err := a.client.GetCurrentUser(ctx)
	if err != nil {
		a.logger.Warn(ctx, "session check failed", "error", err)
		a.tokenMu.Lock()
		if a.stale(gen) {
			a.tokenMu.Unlock()
			return a.Current()
		}
		if err := a.tokens.ClearToken(ctx); err != nil {
			a.logger.Error(ctx, "failed to clear token", "error", err)
		}
		a.tokenMu.Unlock()
		a.apply(gen, Snapshot{State: StateUnauthenticated})
		return a.Current()
	}

	a.apply(gen, Snapshot{State: StateAuthenticated, User: user})
	return a.Current()
}

// Login only takes a new generation once the token is stored, so a failed
// attempt never invalidates a session check still in flight.
func (a *authService) Login(ctx context.Context, email, password string) LoginResult {
	data, err := a.client.Login(ctx, email, password)
	if err == nil && (data == nil || data.Token == "") {
		err = errNoToken
	}
	if err != nil {
		a.logger.Info(ctx, "login failed", "email", email, "error", err)
		// a 401 on login clears whatever token was there
		if a.tokens.Token(ctx) == "" {
			a.apply(a.begin(), Snapshot{State: StateUnauthenticated})
		}
		return LoginResult{Message: client.FailureMessage(err)}
	}

	a.tokenMu.Lock()
	if err := a.tokens.SetToken(ctx, data.Token); err != nil {
		a.tokenMu.Unlock()
		a.logger.Error(ctx, "failed to store token", "error", err)
		return LoginResult{Message: "failed to save session"}
	}
	gen := a.begin()
	a.tokenMu.Unlock()

	user := data.User
	a.apply(gen, Snapshot{State: StateAuthenticated, User: &user})
	a.logger.Info(ctx, "logged in", "user_id", user.ID)
	return LoginResult{Success: true, User: &user}
}

func (a *authService) Logout(ctx context.Context) {
	a.tokenMu.Lock()
	gen := a.begin()
	if err := a.tokens.ClearToken(ctx); err != nil {
		a.logger.Error(ctx, "failed to clear token", "error", err)
	}
	a.tokenMu.Unlock()
	a.apply(gen, Snapshot{State: StateUnauthenticated})
}

func (a *authService) ForgotPassword(ctx context.Context, email string) (string, error) {
	return a.client.ForgotPassword(ctx, email)
}

func (a *authService) Current() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return copySnapshot(a.current)
}

// Subscribe registers fn to be called after every state transition. fn runs
// on the goroutine that caused the transition, outside any lock.
func (a *authService) Subscribe(fn func(Snapshot)) (cancel func()) {
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.subs[id] = fn
	a.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			a.mu.Lock()
			delete(a.subs, id)
			a.mu.Unlock()
		})
	}
}

func (a *authService) begin() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.gen++
	return a.gen
}

func (a *authService) stale(gen uint64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return gen != a.gen
}

// apply installs next unless a newer transition has started since gen.
func (a *authService) apply(gen uint64, next Snapshot) {
	a.mu.Lock()
	if gen != a.gen {
		a.mu.Unlock()
		return
	}
	a.current = next
	subs := make([]func(Snapshot), 0, len(a.subs))
	for _, fn := range a.subs {
		subs = append(subs, fn)
	}
	a.mu.Unlock()

	for _, fn := range subs {
		fn(copySnapshot(next))
	}
}

func copySnapshot(s Snapshot) Snapshot {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
