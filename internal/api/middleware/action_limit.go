package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"schoolportal/internal/models"
	"schoolportal/internal/ratelimit"
	"schoolportal/internal/security"
)

// ActionRateLimit throttles one named action (login, register,
// password_reset) per client IP with fixed-window counting. A denied
// attempt is logged and answered with a throttling message before any
// handler logic runs.
func ActionRateLimit(store *ratelimit.Store, events *security.EventLogger, action string, policy ratelimit.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := c.ClientIP()
		if store.CheckAndConsume(action, clientID, policy) {
			c.Next()
			return
		}

		events.LogRequest(c, models.EventRateLimitExceeded,
			fmt.Sprintf("%s rate limit exceeded", action), models.SeverityWarning)
		c.AbortWithStatusJSON(http.StatusTooManyRequests,
			models.ErrorResponse{Error: fmt.Sprintf("Too many %s attempts. Please try again later.", strings.ReplaceAll(action, "_", " "))})
	}
}
