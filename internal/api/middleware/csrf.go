package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schoolportal/internal/auth"
	"schoolportal/internal/models"
	"schoolportal/internal/security"
	"schoolportal/internal/session"
)

// CSRFHeader is accepted as an alternative to the form field for
// non-browser clients
const CSRFHeader = "X-CSRF-Token"

// csrfField is the hidden form field carrying the anti-forgery token
const csrfField = "csrf_token"

// CSRF verifies the session's anti-forgery token on state-changing
// requests. Mismatch or absence gets a generic invalid-request error; the
// violation is logged with the request's actor context.
func CSRF(events *security.EventLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := session.FromContext(c)
		if s == nil {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				models.ErrorResponse{Error: "Invalid request. Please try again."})
			return
		}

		candidate := c.PostForm(csrfField)
		if candidate == "" {
			candidate = c.GetHeader(CSRFHeader)
		}

		if !auth.VerifyCSRFToken(s.CSRFToken, candidate) {
			events.LogRequest(c, models.EventCSRFViolation,
				"CSRF token missing or mismatched on "+c.Request.URL.Path, models.SeverityWarning)
			c.AbortWithStatusJSON(http.StatusBadRequest,
				models.ErrorResponse{Error: "Invalid request. Please try again."})
			return
		}

		c.Next()
	}
}
