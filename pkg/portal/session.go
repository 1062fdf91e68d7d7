package portal

import (
	"sync"
	"time"
)

// DefaultIdleTimeout logs the user out after 30 minutes without activity.
const DefaultIdleTimeout = 30 * time.Minute

// Timer is the part of *time.Timer the session uses.
type Timer interface {
	Stop() bool
}

// Clock lets tests drive the idle timeout.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Session tracks the logged-in user and expires it after a period of inactivity.
// Server tokens outlive the idle timeout; the session is what logs the user out.
type Session struct {
	mu       sync.Mutex
	clock    Clock
	timeout  time.Duration
	onExpire func(User)

	persist   SessionStore
	onPersist func(error)

	user     *User
	token    string
	lastSeen time.Time
	timer    Timer
	gen      uint64
}

type SessionOption func(*Session)

func WithClock(c Clock) SessionOption {
	return func(s *Session) { s.clock = c }
}

func WithIdleTimeout(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// OnExpire is called once, outside the session lock, when the idle timeout fires.
func OnExpire(fn func(User)) SessionOption {
	return func(s *Session) { s.onExpire = fn }
}

// WithPersistence saves the session on Start and Touch and clears it on End
// or expiry, so Restore can pick it up after a restart.
func WithPersistence(store SessionStore) SessionOption {
	return func(s *Session) { s.persist = store }
}

// OnPersistError receives Save and Clear failures. Without it they are dropped.
func OnPersistError(fn func(error)) SessionOption {
	return func(s *Session) { s.onPersist = fn }
}

func NewSession(opts ...SessionOption) *Session {
	s := &Session{clock: realClock{}, timeout: DefaultIdleTimeout}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Start begins a session for a successful login and arms the idle timer.
func (s *Session) Start(res *LoginResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := res.User
	s.user = &u
	s.token = res.Session.AccessToken
	s.touchLocked()
}

// Restore resumes a persisted session. It reports false when nothing was saved
// or the saved session has been idle for longer than the timeout; an expired
// session is cleared from the store.
func (s *Session) Restore() (bool, error) {
	if s.persist == nil {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.persist.Load()
	if err != nil {
		return false, err
	}
	if saved == nil || saved.Token == "" {
		return false, nil
	}

	idle := s.clock.Now().Sub(saved.LastSeen)
	if idle >= s.timeout {
		s.clearLocked()
		return false, nil
	}

	u := saved.User
	s.user = &u
	s.token = saved.Token
	s.lastSeen = saved.LastSeen
	s.armLocked(s.timeout - idle)
	return true, nil
}

// Touch records user activity (click, keypress) and restarts the idle timer.
// It reports false when there is no active session.
func (s *Session) Touch() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return false
	}
	s.touchLocked()
	return true
}

// End logs out without firing the expiry callback.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

// User returns the current user, if any.
func (s *Session) User() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// IdleFor reports how long the session has been inactive.
func (s *Session) IdleFor() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return 0
	}
	return s.clock.Now().Sub(s.lastSeen)
}

func (s *Session) touchLocked() {
	s.lastSeen = s.clock.Now()
	s.armLocked(s.timeout)
	if s.persist != nil {
		s.persistErr(s.persist.Save(SavedSession{User: *s.user, Token: s.token, LastSeen: s.lastSeen}))
	}
}

func (s *Session) armLocked(after time.Duration) {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.timer = s.clock.AfterFunc(after, func() { s.expire(gen) })
}

func (s *Session) persistErr(err error) {
	if err != nil && s.onPersist != nil {
		s.onPersist(err)
	}
}

func (s *Session) expire(gen uint64) {
	s.mu.Lock()
	// A Touch or End after this timer was armed wins.
	if gen != s.gen || s.user == nil {
		s.mu.Unlock()
		return
	}
	u := *s.user
	s.clearLocked()
	fn := s.onExpire
	s.mu.Unlock()

	if fn != nil {
		fn(u)
	}
}

func (s *Session) clearLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	s.user = nil
	s.token = ""
	s.lastSeen = time.Time{}
	if s.persist != nil {
		s.persistErr(s.persist.Clear())
	}
}
