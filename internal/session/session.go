// Package session holds the process-wide authenticated session state.
// The store is written only by auth events (bootstrap, sign-in, sign-out)
// and read by everything else, so a single RWMutex is all the
// coordination it needs.
package session

import (
	"errors"
	"log"
	"sync"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// Identity is the raw auth identity, distinct from the application-level
// user row resolved from it.
type Identity struct {
	ID    string
	Email string
}

// Change is delivered to subscribers after an auth event fully resolves.
type Change struct {
	Identity *Identity
	User     *models.User
}

// Fetcher retrieves any existing session at bootstrap time.
type Fetcher func() (*Identity, error)

// Store resolves auth identities into user rows and notifies subscribers
// on change. Create one at process start and inject it everywhere; there
// is no package-level instance.
type Store struct {
	users repositories.UserRepository

	mu        sync.RWMutex
	identity  *Identity
	user      *models.User
	resolving bool
	subs      []chan Change
}

// NewStore creates a session store in the resolving state; call Bootstrap
// to finish initialization.
func NewStore(users repositories.UserRepository) *Store {
	return &Store{
		users:     users,
		resolving: true,
	}
}

// Bootstrap retrieves any existing session and resolves its user row.
// Any fetch error clears both session and user; there is no retry. The
// resolving flag is true only until this returns, never again.
func (s *Store) Bootstrap(fetch Fetcher) {
	identity, err := fetch()
	if err != nil {
		log.Printf("Session fetch failed: %v", err)
		s.set(nil, nil)
		s.endResolving()
		return
	}
	s.applyIdentity(identity)
	s.endResolving()
}

// HandleAuthChange applies a new identity (nil on sign-out) and repeats
// the same user resolution the bootstrap performs.
func (s *Store) HandleAuthChange(identity *Identity) {
	s.applyIdentity(identity)
}

// Identity returns the current auth identity, or false if signed out.
func (s *Store) Identity() (*Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil, false
	}
	identity := *s.identity
	return &identity, true
}

// User returns the resolved application-level user row, or nil.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

// Resolving reports whether the initial bootstrap is still in flight.
func (s *Store) Resolving() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolving
}

// Subscribe returns a channel that receives a Change after every auth
// event fully resolves. Slow subscribers miss intermediate states rather
// than block the writer.
func (s *Store) Subscribe() <-chan Change {
	ch := make(chan Change, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

func (s *Store) applyIdentity(identity *Identity) {
	var user *models.User
	if identity != nil && identity.Email != "" {
		user = s.resolveUser(identity)
	}
	s.set(identity, user)
	s.notify(Change{Identity: identity, User: user})
}

// resolveUser is the idempotent lookup-or-create: fetch by id, insert a
// default row only on the not-found error specifically, treat anything
// else as unavailable.
func (s *Store) resolveUser(identity *Identity) *models.User {
	user, err := s.users.GetByID(identity.ID)
	if err == nil {
		return user
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		log.Printf("Error fetching user %s: %v", identity.ID, err)
		return nil
	}

	newUser := &models.User{
		ID:        identity.ID,
		Email:     identity.Email,
		AvatarURL: "",
		Type:      "customer",
		CreatedAt: time.Now(),
	}
	if err := s.users.Create(newUser); err != nil {
		log.Printf("Error creating user %s: %v", identity.ID, err)
		return nil
	}
	return newUser
}

func (s *Store) set(identity *Identity, user *models.User) {
	s.mu.Lock()
	s.identity = identity
	s.user = user
	s.mu.Unlock()
}

func (s *Store) endResolving() {
	s.mu.Lock()
	s.resolving = false
	s.mu.Unlock()
}

func (s *Store) notify(change Change) {
	s.mu.RLock()
	subs := s.subs
	s.mu.RUnlock()
	for _, ch := range subs {
		// Replace any undelivered notification with the latest state so
		// a subscriber never observes a stale identity after this event.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- change:
		default:
		}
	}
}
