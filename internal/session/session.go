// Package session manages authenticated browser sessions: creation,
// periodic ID rotation, and teardown. Sessions are single-process and held
// in memory; there is deliberately no distributed store.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"schoolportal/internal/auth"
	"schoolportal/internal/models"
)

const (
	// CookieName is the session cookie issued to browsers
	CookieName = "portal_session"

	// Lifetime is fixed from issuance; there is no sliding renewal
	Lifetime = time.Hour

	// RotationInterval is how often an authenticated session's ID is
	// regenerated to shrink the fixation/hijack window
	RotationInterval = 5 * time.Minute

	idLength = 32
)

// contextKey is where the loaded session is stashed in the gin context
const contextKey = "session"

// Session holds the state attached to one browser context. A session with
// no UserID is anonymous: it still carries a CSRF token and can be used for
// pre-login throttling.
type Session struct {
	ID            string
	UserID        *uuid.UUID
	Email         string
	FirstName     string
	LastName      string
	Role          models.UserRole
	CSRFToken     string
	IssuedAt      time.Time
	LastRotatedAt time.Time
	LoginAt       *time.Time
}

// Authenticated reports whether a user is attached to the session
func (s *Session) Authenticated() bool {
	return s.UserID != nil
}

// IsAdmin reports whether the session belongs to an admin user
func (s *Session) IsAdmin() bool {
	return s.Authenticated() && s.Role == models.RoleAdmin
}

// Manager owns the in-memory session store
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	secure   bool
	now      func() time.Time
}

// NewManager creates an empty session store. secure controls the cookie's
// Secure attribute and should only be disabled for local development.
func NewManager(secure bool) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		secure:   secure,
		now:      time.Now,
	}
}

func newSessionID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Create starts a new anonymous session with a fresh CSRF token
func (m *Manager) Create() (*Session, error) {
	id, err := newSessionID()
	if err != nil {
		return nil, err
	}
	token, err := auth.NewCSRFToken()
	if err != nil {
		return nil, err
	}

	now := m.now()
	s := &Session{
		ID:            id,
		CSRFToken:     token,
		IssuedAt:      now,
		LastRotatedAt: now,
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	return s, nil
}

// Get returns the live session for id, or nil if the id is unknown or the
// session has exceeded its fixed lifetime. Expired sessions are destroyed
// on lookup.
func (m *Manager) Get(id string) *Session {
	if id == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil
	}
	if m.now().Sub(s.IssuedAt) > Lifetime {
		delete(m.sessions, id)
		return nil
	}
	return s
}

// RotateIfDue regenerates the session ID once RotationInterval has elapsed
// since the last rotation, carrying all attached state over. It returns
// true when the ID changed so callers can re-issue the cookie.
func (m *Manager) RotateIfDue(s *Session) (bool, error) {
	now := m.now()
	if now.Sub(s.LastRotatedAt) < RotationInterval {
		return false, nil
	}

	id, err := newSessionID()
	if err != nil {
		return false, err
	}

	m.mu.Lock()
	delete(m.sessions, s.ID)
	s.ID = id
	s.LastRotatedAt = now
	m.sessions[id] = s
	m.mu.Unlock()

	return true, nil
}

// Authenticate transitions an anonymous session to authenticated, attaching
// the user's identity and login timestamp. The existing CSRF token is kept;
// issuing is idempotent.
func (m *Manager) Authenticate(s *Session, user *models.User) {
	now := m.now()

	m.mu.Lock()
	id := user.ID
	s.UserID = &id
	s.Email = user.Email
	s.FirstName = user.FirstName
	s.LastName = user.LastName
	s.Role = user.Role
	s.LoginAt = &now
	m.mu.Unlock()
}

// IssueCSRF returns the session's CSRF token, generating one only if the
// session has none.
func (m *Manager) IssueCSRF(s *Session) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.CSRFToken != "" {
		return s.CSRFToken, nil
	}
	token, err := auth.NewCSRFToken()
	if err != nil {
		return "", err
	}
	s.CSRFToken = token
	return token, nil
}

// Destroy removes all state for the session
func (m *Manager) Destroy(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Sweep removes sessions past their fixed lifetime
func (m *Manager) Sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for id, s := range m.sessions {
		if now.Sub(s.IssuedAt) > Lifetime {
			delete(m.sessions, id)
		}
	}
}

// SetCookie writes the session cookie with the hardened attribute set:
// HTTP-only, secure transport, strict same-site, fixed lifetime.
func (m *Manager) SetCookie(c *gin.Context, id string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(Lifetime.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearCookie expires the session cookie immediately, matching the
// attributes it was issued with.
func (m *Manager) ClearCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// IntoContext stashes the session in the gin context for handlers
func IntoContext(c *gin.Context, s *Session) {
	c.Set(contextKey, s)
}

// FromContext retrieves the session loaded by the session middleware.
// Handlers receive the active session this way; there is no ambient global.
func FromContext(c *gin.Context) *Session {
	v, exists := c.Get(contextKey)
	if !exists {
		return nil
	}
	if s, ok := v.(*Session); ok {
		return s
	}
	return nil
}
