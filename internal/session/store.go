// Package session owns the bearer token and the identity it resolves to.
// A Store is the only writer of that state; everyone else reads it or
// subscribes to changes.
package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/stemsi/campus-portal/internal/apiclient"
	"github.com/stemsi/campus-portal/internal/model"
)

// Gateway is the part of the API the store needs.
type Gateway interface {
	Login(ctx context.Context, creds model.Credentials) (string, error)
	Me(ctx context.Context, token string) (*model.User, error)
}

// Store holds one session. Reads are lock-free; writes are serialized.
type Store struct {
	gateway Gateway
	storage TokenStorage
	cache   IdentityCache
	log     zerolog.Logger

	state atomic.Pointer[model.Session]

	mu      sync.Mutex
	subs    map[int]func(model.Session)
	nextSub int
}

// Option configures a Store.
type Option func(*Store)

// WithIdentityCache consults cache before asking the API who a token belongs to.
func WithIdentityCache(cache IdentityCache) Option {
	return func(s *Store) { s.cache = cache }
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// New creates an empty store. Call Restore to pick up a persisted token.
func New(gateway Gateway, storage TokenStorage, opts ...Option) *Store {
	s := &Store{
		gateway: gateway,
		storage: storage,
		log:     zerolog.Nop(),
		subs:    make(map[int]func(model.Session)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state.Store(&model.Session{})
	return s
}

// Session returns a snapshot of the current state.
func (s *Store) Session() model.Session {
	return *s.state.Load()
}

// CurrentUser returns the resolved identity, or nil when logged out.
func (s *Store) CurrentUser() *model.User {
	return s.state.Load().User
}

// Token returns the bearer token, or "".
func (s *Store) Token() string {
	return s.state.Load().Token
}

// Login exchanges credentials for a token, persists it and resolves the
// identity behind it. Any failure leaves the store logged out.
func (s *Store) Login(ctx context.Context, creds model.Credentials) (model.Session, error) {
	token, err := s.gateway.Login(ctx, creds)
	if err != nil {
		return model.Session{}, &AuthenticationError{Reason: loginReason(err), Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Save(ctx, token); err != nil {
		return model.Session{}, &AuthenticationError{Reason: DefaultLoginFailure, Err: err}
	}

	user, err := s.resolve(ctx, token)
	if err != nil {
		s.clearLocked(ctx, token)
		return model.Session{}, &AuthenticationError{Reason: DefaultLoginFailure, Err: err}
	}

	sess := model.Session{Token: token, User: user}
	s.setLocked(sess)
	s.log.Info().Int("user_id", user.ID).Str("role", string(user.Role)).Msg("Logged in")
	return sess, nil
}

// Logout forgets the session. It is safe to call when already logged out.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked(ctx, s.Token())
	s.log.Info().Msg("Logged out")
}

// Invalidate drops a session the API has rejected. rejected is the token
// the failing request carried; if the session has moved on to another token
// since then, nothing is cleared.
func (s *Store) Invalidate(ctx context.Context, rejected string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.Token()
	if rejected != current {
		s.log.Debug().Msg("Ignoring rejection of a replaced token")
		return
	}
	if current == "" {
		// Storage may still hold a token we never resolved.
		s.clearLocked(ctx, "")
		return
	}
	s.clearLocked(ctx, current)
	s.log.Info().Msg("Session invalidated")
}

// Restore loads a persisted token and re-resolves its identity. A token the
// API no longer accepts is cleared. A cancelled ctx leaves storage alone.
func (s *Store) Restore(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, err := s.storage.Load(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to load stored token")
		s.setLocked(model.Session{})
		return
	}
	if token == "" {
		s.setLocked(model.Session{})
		return
	}

	user, err := s.resolve(ctx, token)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.log.Info().Err(err).Msg("Stored token rejected")
		s.clearLocked(ctx, token)
		return
	}
	s.setLocked(model.Session{Token: token, User: user})
}

// Resolve returns the current user, restoring from storage when the store
// has no identity yet.
func (s *Store) Resolve(ctx context.Context) *model.User {
	if u := s.CurrentUser(); u != nil {
		return u
	}
	s.Restore(ctx)
	return s.CurrentUser()
}

// Subscribe registers fn for every state change. fn runs on the writer's
// goroutine and must not call back into the store's mutators.
func (s *Store) Subscribe(fn func(model.Session)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) resolve(ctx context.Context, token string) (*model.User, error) {
	if s.cache != nil {
		u, err := s.cache.Get(ctx, token)
		if err != nil {
			s.log.Warn().Err(err).Msg("Identity cache read failed")
		} else if u != nil {
			return u, nil
		}
	}

	u, err := s.gateway.Me(ctx, token)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, token, u); err != nil {
			s.log.Warn().Err(err).Msg("Identity cache write failed")
		}
	}
	return u, nil
}

// clearLocked empties storage, cache and state. Caller holds mu.
func (s *Store) clearLocked(ctx context.Context, token string) {
	// Clearing must finish even if the request that triggered it is gone.
	ctx = context.WithoutCancel(ctx)
	if err := s.storage.Clear(ctx); err != nil {
		s.log.Warn().Err(err).Msg("Failed to clear stored token")
	}
	if s.cache != nil && token != "" {
		if err := s.cache.Delete(ctx, token); err != nil {
			s.log.Warn().Err(err).Msg("Identity cache delete failed")
		}
	}
	s.setLocked(model.Session{})
}

// setLocked publishes sess. Caller holds mu.
func (s *Store) setLocked(sess model.Session) {
	prev := s.state.Swap(&sess)
	if prev.Token == sess.Token && prev.User == sess.User {
		return
	}
	for _, fn := range s.subs {
		fn(sess)
	}
}

func loginReason(err error) string {
	var reqErr *apiclient.RequestError
	if errors.As(err, &reqErr) && reqErr.Detail != "" {
		return reqErr.Detail
	}
	return DefaultLoginFailure
}
