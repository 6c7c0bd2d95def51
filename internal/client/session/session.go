// Package session holds the client's in-memory belief about which user,
// if any, is currently authenticated. It is the single source of truth
// for "am I logged in": a last-value multicast channel plus an
// initialized flag, backed by the local storage cache and the remote
// /rest-auth/user/ endpoint.
package session

import (
	"context"
	"sync"

	"github.com/atinyakov/reddish/internal/models"
	"go.uber.org/zap"
)

// Storage is the persistence surface the session needs. *storage.LocalStorage
// satisfies it.
type Storage interface {
	// StoreUser caches the user record.
	StoreUser(*models.User) error
	// CachedUser returns the cached record, or nil.
	CachedUser() *models.User
	// RemoveUser deletes the cached record.
	RemoveUser() error
}

// AuthFetcher fetches the authenticated user from the backend.
type AuthFetcher interface {
	// AuthUser performs the remote "who am I" request.
	AuthUser(ctx context.Context) (*models.User, error)
}

// Session is the reactive holder of the current user. A nil user means
// "not logged in"; Initialized reports whether at least one resolution
// attempt has completed, so a nil user before that must not be read as
// "logged out".
type Session struct {
	mu          sync.Mutex
	current     *models.User
	initialized bool
	subs        map[int]*subscriber
	nextID      int

	storage Storage
	api     AuthFetcher
	log     *zap.Logger
}

// New constructs a Session. log may be nil.
func New(storage Storage, api AuthFetcher, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		subs:    make(map[int]*subscriber),
		storage: storage,
		api:     api,
		log:     log,
	}
}

// Current returns the latest known user, or nil. Non-blocking.
func (s *Session) Current() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Initialized reports whether the session has attempted to resolve the
// current user at least once.
func (s *Session) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// Observe returns a replay-one subscription: the channel immediately
// yields the most recent value (possibly nil), then every subsequent Set.
// The publisher never blocks; each subscriber buffers without bound.
// The returned func cancels the subscription and closes the channel.
func (s *Session) Observe() (<-chan *models.User, func()) {
	s.mu.Lock()
	sub := newSubscriber()
	sub.push(s.current)
	id := s.nextID
	s.nextID++
	s.subs[id] = sub
	s.mu.Unlock()

	unsubscribe := func() {
		s.mu.Lock()
		if sb, ok := s.subs[id]; ok {
			delete(s.subs, id)
			sb.stop()
		}
		s.mu.Unlock()
	}
	return sub.out, unsubscribe
}

// Set publishes a new value to all observers and marks the session
// initialized. A non-nil user is persisted to the storage cache, a nil
// user removes the cached entry.
func (s *Session) Set(user *models.User) {
	s.mu.Lock()
	s.current = user
	s.initialized = true
	for _, sub := range s.subs {
		sub.push(user)
	}
	s.mu.Unlock()

	if user != nil {
		if err := s.storage.StoreUser(user); err != nil {
			s.log.Warn("failed to cache user record", zap.Error(err))
		}
		return
	}
	if err := s.storage.RemoveUser(); err != nil {
		s.log.Warn("failed to remove cached user record", zap.Error(err))
	}
}

// Clear drops the current user. Equivalent to Set(nil).
func (s *Session) Clear() {
	s.Set(nil)
}

// Resolve determines the current user and reports it through cb, which is
// always invoked with a user or nil and never with an error: resolution
// failures degrade to an unauthenticated state.
//
// If a value already exists in memory, cb is invoked synchronously with
// it. The storage cache is then consulted regardless, and a cached copy
// is adopted via Set and reported again, so cb can fire twice when a
// value is already held. The cached copy wins over the in-memory one
// (last write wins, no freshness check). On a cache miss the remote
// endpoint is queried.
func (s *Session) Resolve(ctx context.Context, cb func(*models.User)) {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()

	if current != nil {
		cb(current)
	}

	if cached := s.storage.CachedUser(); cached != nil {
		s.Set(cached)
		cb(cached)
		return
	}

	user, err := s.api.AuthUser(ctx)
	if err != nil {
		s.log.Debug("could not resolve authenticated user", zap.Error(err))
		s.Set(nil)
		cb(nil)
		return
	}
	s.Set(user)
	cb(user)
}
