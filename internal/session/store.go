// Package session owns the authentication state of the client.
//
// The Store is the single writer of session state; everything else,
// the access guard and the CLI commands included, reads snapshots or
// subscribes to changes. State transitions happen only through Init,
// Login, Logout, and each is one atomic update with no partial state
// observable.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/me/hrpulse/internal/api"
	"github.com/me/hrpulse/pkg/model"
)

// State is an immutable snapshot of the session.
//
// Invariant: Authenticated == false implies User == nil. Loading is true
// only between construction and the first Init; the guard blocks all
// decisions until it clears.
type State struct {
	Authenticated bool
	Approved      bool
	Loading       bool
	User          *model.User
}

// Store holds session state and the persisted credential record.
type Store struct {
	client *api.Client
	logger *slog.Logger

	mu       sync.Mutex
	state    State
	token    string
	credPath string

	subMu   sync.Mutex
	subs    map[int]func(State)
	nextSub int
}

// NewStore creates a Store in the loading state. Init must run before the
// first guard decision.
func NewStore(client *api.Client, logger *slog.Logger) *Store {
	s := &Store{
		client: client,
		logger: logger.With("component", "session"),
		state:  State{Loading: true},
		subs:   map[int]func(State){},
	}
	s.credPath, _ = credentialsPath()
	return s
}

// WithCredentialsPath overrides the credential file location. Used by
// tests; production callers keep the default under ~/.hrpulse.
func (s *Store) WithCredentialsPath(path string) *Store {
	s.mu.Lock()
	s.credPath = path
	s.mu.Unlock()
	return s
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Token returns the current access token, empty when unauthenticated.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Subscribe registers an observer called with a snapshot after every
// state change. The returned function cancels the subscription.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// set replaces the state under lock and notifies subscribers outside it.
func (s *Store) set(state State, token string) {
	s.mu.Lock()
	s.state = state
	s.token = token
	s.mu.Unlock()

	s.client.SetToken(token)

	s.subMu.Lock()
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
}

// Init restores the session from the persisted credential record. A
// well-formed record authenticates immediately with the stored approval
// flag; anything else (absent file, malformed JSON, partial record)
// degrades silently to an unauthenticated, non-loading state. Init never
// returns an error to its caller.
func (s *Store) Init() {
	creds := loadCredentials(s.credPath)
	if creds == nil {
		s.logger.Debug("no restorable credentials, starting unauthenticated")
		s.set(State{}, "")
		return
	}

	s.logger.Debug("session restored", "email", creds.User.Email, "approved", creds.User.IsApproved)
	s.set(State{
		Authenticated: true,
		Approved:      creds.User.IsApproved,
		User:          creds.User,
	}, creds.Token)
}

// Login authenticates against the backend. On success the credential
// record is persisted and the session flips to authenticated in one
// update. On any failure, including a response lacking an access token,
// the session is left exactly as it was.
func (s *Store) Login(ctx context.Context, email, password string) error {
	result, err := s.client.Login(ctx, email, password)
	if err != nil {
		return err
	}

	user := result.User
	if user == nil {
		// Older backend versions return only the token; fetch the
		// profile with it.
		s.client.SetToken(result.AccessToken)
		user, err = s.client.Me(ctx)
		if err != nil {
			s.client.SetToken(s.Token())
			return fmt.Errorf("login succeeded but profile fetch failed: %w", err)
		}
	}

	creds := &model.Credentials{Token: result.AccessToken, User: user}
	if err := saveCredentials(s.credPath, creds); err != nil {
		s.logger.Warn("could not persist credentials", "error", err)
	}

	s.set(State{
		Authenticated: true,
		Approved:      user.IsApproved,
		User:          user,
	}, result.AccessToken)
	return nil
}

// Register creates an account. It never mutates session state: a freshly
// registered user still has to log in, and usually to wait for approval
// first.
func (s *Store) Register(ctx context.Context, email, name, password string) error {
	return s.client.Register(ctx, email, name, password)
}

// Logout clears the persisted record and resets the session.
func (s *Store) Logout() error {
	err := clearCredentials(s.credPath)
	s.set(State{}, "")
	return err
}
