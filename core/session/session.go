// Package session holds the identity of the logged-in user.
package session

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/coursesphere/core/course"
)

// Backend persists the session between processes or requests.
type Backend interface {
	// Load returns the stored user, or ok=false when nobody is logged in.
	Load() (user course.User, ok bool, err error)
	Save(user course.User) error
	Clear() error
}

// Store is the session of one client. Reads never touch the backend.
type Store struct {
	backend Backend

	mu   sync.RWMutex
	user *course.User
}

// Open initializes a Store from what the backend holds.
func Open(backend Backend) (*Store, error) {
	s := &Store{backend: backend}
	user, ok, err := backend.Load()
	if err != nil {
		return nil, errors.Wrap(err, "loading session")
	}
	if ok && !user.ID.IsZero() {
		s.user = &user
	}
	return s, nil
}

// Get returns the logged-in user.
func (s *Store) Get() (course.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return course.User{}, false
	}
	return *s.user, true
}

func (s *Store) LoggedIn() bool {
	_, ok := s.Get()
	return ok
}

// Set logs user in.
func (s *Store) Set(user course.User) error {
	if user.ID.IsZero() {
		return errors.New("session user has no id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Save(user); err != nil {
		return errors.Wrap(err, "saving session")
	}
	s.user = &user
	return nil
}

// Clear logs the user out.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Clear(); err != nil {
		return errors.Wrap(err, "clearing session")
	}
	s.user = nil
	return nil
}

// MemoryBackend keeps the session in memory only.
type MemoryBackend struct {
	mu   sync.Mutex
	user *course.User
}

func (b *MemoryBackend) Load() (course.User, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.user == nil {
		return course.User{}, false, nil
	}
	return *b.user, true, nil
}

func (b *MemoryBackend) Save(user course.User) error {
	b.mu.Lock()
	b.user = &user
	b.mu.Unlock()
	return nil
}

func (b *MemoryBackend) Clear() error {
	b.mu.Lock()
	b.user = nil
	b.mu.Unlock()
	return nil
}
