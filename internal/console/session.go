package console

import (
	"sync"
	"time"

	"github.com/spec-kit/fras-portal/internal/domain"
)

// User identifies who the held token belongs to.
type User struct {
	ID        int64              `yaml:"id"`
	Type      domain.SubjectType `yaml:"type"`
	Company   string             `yaml:"company"`
	ExpiresAt time.Time          `yaml:"expires_at,omitempty"`
}

func (u User) same(other User) bool {
	return u.ID == other.ID && u.Type == other.Type && u.Company == other.Company
}

// Credentials is the token and user pair kept between runs.
type Credentials struct {
	Token string `yaml:"token"`
	User  User   `yaml:"user"`
}

// Session holds the current credentials and is shared by the client and views.
// Clearing it runs the registered hooks so views drop their state.
type Session struct {
	mu      sync.RWMutex
	store   SessionStore
	creds   *Credentials
	onClear []func()
	now     func() time.Time
	// generation changes whenever the credentials stop belonging to the
	// same user.
	generation uint64
}

// NewSession builds an empty session. A nil store keeps credentials in memory.
func NewSession(store SessionStore) *Session {
	if store == nil {
		store = &MemoryStore{}
	}
	return &Session{store: store, now: time.Now}
}

// Hydrate loads persisted credentials. Expired credentials are discarded.
func (s *Session) Hydrate() error {
	creds, err := s.store.Load()
	if err != nil {
		return err
	}
	if creds != nil && !creds.User.ExpiresAt.IsZero() && !s.now().Before(creds.User.ExpiresAt) {
		return s.Clear()
	}
	s.mu.Lock()
	s.creds = creds
	s.mu.Unlock()
	return nil
}

// Login replaces the held credentials and persists them. Views bound to a
// previous user are reset first.
func (s *Session) Login(creds Credentials) error {
	s.mu.Lock()
	switched := s.creds != nil && !s.creds.User.same(creds.User)
	if switched {
		s.generation++
	}
	s.mu.Unlock()
	if switched {
		s.runHooks()
	}

	if err := s.store.Save(&creds); err != nil {
		return err
	}
	s.mu.Lock()
	s.creds = &creds
	s.mu.Unlock()
	return nil
}

// Clear forgets the credentials and resets every registered view.
func (s *Session) Clear() error {
	s.mu.Lock()
	s.creds = nil
	s.generation++
	s.mu.Unlock()
	s.runHooks()
	return s.store.Delete()
}

// OnClear registers fn to run whenever the session is cleared or switches user.
func (s *Session) OnClear(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onClear = append(s.onClear, fn)
}

// Token returns the bearer token, or "" when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil {
		return ""
	}
	return s.creds.Token
}

// User returns the current user.
func (s *Session) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil {
		return User{}, false
	}
	return s.creds.User, true
}

// Generation identifies the current login. Responses to requests started
// under an older generation must not be applied.
func (s *Session) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// LoggedIn reports whether credentials are held.
func (s *Session) LoggedIn() bool {
	return s.Token() != ""
}

func (s *Session) runHooks() {
	s.mu.RLock()
	hooks := append([]func(){}, s.onClear...)
	s.mu.RUnlock()
	for _, fn := range hooks {
		fn()
	}
}
