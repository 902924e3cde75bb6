package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"schoolportal/internal/models"
	"schoolportal/internal/security"
	"schoolportal/internal/session"
)

// SessionMiddleware loads, rotates, and gates sessions
type SessionMiddleware struct {
	sessions *session.Manager
	events   *security.EventLogger
}

func NewSessionMiddleware(sessions *session.Manager, events *security.EventLogger) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions, events: events}
}

// Load attaches the request's session to the context, creating an anonymous
// one when the cookie is missing or expired, and rotates the session ID
// once the rotation interval has elapsed.
func (m *SessionMiddleware) Load() gin.HandlerFunc {
	return func(c *gin.Context) {
		var id string
		if cookie, err := c.Request.Cookie(session.CookieName); err == nil {
			id = cookie.Value
		}

		s := m.sessions.Get(id)
		if s == nil {
			created, err := m.sessions.Create()
			if err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					models.ErrorResponse{Error: "A system error occurred. Please try again later."})
				return
			}
			s = created
			m.sessions.SetCookie(c, s.ID)
		} else {
			rotated, err := m.sessions.RotateIfDue(s)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					models.ErrorResponse{Error: "A system error occurred. Please try again later."})
				return
			}
			if rotated {
				m.sessions.SetCookie(c, s.ID)
			}
		}

		session.IntoContext(c, s)
		c.Next()
	}
}

// LoginRequired redirects unauthenticated requests to the login flow
func (m *SessionMiddleware) LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := session.FromContext(c)
		if s == nil || !s.Authenticated() {
			m.events.LogRequest(c, models.EventUnauthorizedAccess,
				fmt.Sprintf("unauthenticated access to %s", c.Request.URL.Path), models.SeverityWarning)
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminRequired redirects non-admin users to the generic error page.
// Unauthenticated requests go to the login flow instead.
func (m *SessionMiddleware) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := session.FromContext(c)
		if s == nil || !s.Authenticated() {
			m.events.LogRequest(c, models.EventUnauthorizedAccess,
				fmt.Sprintf("unauthenticated access to %s", c.Request.URL.Path), models.SeverityWarning)
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		if !s.IsAdmin() {
			m.events.LogRequest(c, models.EventUnauthorizedAccess,
				fmt.Sprintf("non-admin access to %s", c.Request.URL.Path), models.SeverityWarning)
			c.Redirect(http.StatusSeeOther, "/error")
			c.Abort()
			return
		}
		c.Next()
	}
}
