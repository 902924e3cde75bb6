package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolportal/internal/models"
	"schoolportal/internal/ratelimit"
)

func TestActionRateLimit(t *testing.T) {
	store := ratelimit.NewStore()
	events, repo := newTestEvents()
	policy := ratelimit.Policy{Limit: 3, Window: time.Hour}

	router := gin.New()
	router.POST("/auth/register", ActionRateLimit(store, events, "register", policy), okHandler)

	post := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/register", nil)
		router.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, post().Code, "attempt %d within the limit", i+1)
	}

	w := post()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too many register attempts. Please try again later.")

	require.Len(t, repo.events, 1)
	assert.Equal(t, models.EventRateLimitExceeded, repo.events[0].EventType)
	assert.Equal(t, models.SeverityWarning, repo.events[0].Severity)
}

func TestActionRateLimitMessageSpacing(t *testing.T) {
	store := ratelimit.NewStore()
	events, _ := newTestEvents()
	policy := ratelimit.Policy{Limit: 0, Window: time.Hour}

	router := gin.New()
	router.POST("/auth/forgot-password", ActionRateLimit(store, events, "password_reset", policy), okHandler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/forgot-password", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too many password reset attempts. Please try again later.")
}
