package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"schoolportal/internal/models"
	"schoolportal/internal/security"
)

// SuspiciousInput rejects requests whose parameters match injection
// patterns before any handler logic runs. It inspects query and form
// values; the actor is unattributed because this runs ahead of session
// loading.
func SuspiciousInput(events *security.EventLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		params := url.Values{}
		for key, values := range c.Request.URL.Query() {
			params[key] = values
		}
		if c.Request.Method != http.MethodGet {
			// ParseForm is idempotent, so later form binding still works
			if err := c.Request.ParseForm(); err == nil {
				for key, values := range c.Request.PostForm {
					params[key] = append(params[key], values...)
				}
			}
		}

		reasons := security.SuspiciousReasons(params)
		if len(reasons) == 0 {
			c.Next()
			return
		}

		events.LogRequest(c, models.EventSuspiciousActivity, strings.Join(reasons, ", "), models.SeverityWarning)
		c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{Error: "Access denied."})
	}
}
