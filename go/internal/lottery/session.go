package lottery

import (
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Session is the shared state of one lottery run. The registry, the deadline and the
// extension flag are guarded by a single mutex.
type Session struct {
	clock  clockwork.Clock
	policy ExtensionPolicy

	mu       sync.Mutex
	registry *Registry
	started  time.Time
	original time.Time
	deadline time.Time
	extended bool
}

// NewSession opens a registration window of the given length starting now
func NewSession(clock clockwork.Clock, window time.Duration, policy ExtensionPolicy) *Session {
	now := clock.Now()
	return &Session{
		clock:    clock,
		policy:   policy,
		registry: NewRegistry(),
		started:  now,
		original: now.Add(window),
		deadline: now.Add(window),
	}
}

// Restore adds previously saved usernames and returns the resulting count
func (s *Session) Restore(usernames []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range usernames {
		s.registry.Add(u)
	}
	return s.registry.Len()
}

// Register validates and inserts a username. The returned count always matches the registry
// size at the moment of insertion.
func (s *Session) Register(raw string) (Registration, error) {
	username, err := NormalizeUsername(raw)
	if err != nil {
		return Registration{}, fmt.Errorf("%w: %q", err, raw)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.registry.Add(username) {
		return Registration{}, fmt.Errorf("%w: %q", ErrDuplicateUsername, username)
	}

	reg := Registration{
		Username: username,
		Count:    s.registry.Len(),
	}
	if ext, ok := s.extendLocked(s.clock.Now()); ok {
		reg.Extension = &ext
	}
	reg.Deadline = s.deadline
	return reg, nil
}

// ExtendIfDue applies the extension policy at a checkpoint. It fires at most once per session
// and only after the original deadline has been reached with too few participants.
func (s *Session) ExtendIfDue() (Extension, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.extendLocked(s.clock.Now())
}

func (s *Session) extendLocked(now time.Time) (Extension, bool) {
	if s.extended || s.registry.Len() >= s.policy.Threshold || now.Before(s.original) {
		return Extension{}, false
	}
	s.deadline = s.deadline.Add(s.policy.Increment)
	s.extended = true
	return Extension{
		Count:     s.registry.Len(),
		Threshold: s.policy.Threshold,
		By:        s.policy.Increment,
		Deadline:  s.deadline,
	}, true
}

// Members returns a sorted copy of the registered usernames
func (s *Session) Members() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Members()
}

// Count returns the number of registered usernames
func (s *Session) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Len()
}

// Deadline returns the current registration deadline
func (s *Session) Deadline() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deadline
}

// Remaining returns the time left until the deadline, or zero once it has passed
func (s *Session) Remaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	left := s.deadline.Sub(s.clock.Now())
	if left < 0 {
		return 0
	}
	return left
}

// Open reports whether registration is still accepting input
func (s *Session) Open() bool {
	return s.Remaining() > 0
}

// Extended reports whether the one-time extension has fired
func (s *Session) Extended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.extended
}

// StartedAt returns when the session opened
func (s *Session) StartedAt() time.Time {
	return s.started
}

// Window returns the length of the original registration window
func (s *Session) Window() time.Duration {
	return s.original.Sub(s.started)
}

// WithLock runs fn with exclusive access to the registry. Snapshot writes and draws go
// through here so they never observe a half-applied registration.
func (s *Session) WithLock(fn func(r *Registry) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.registry)
}
