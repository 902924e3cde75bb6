package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolportal/internal/models"
	"schoolportal/internal/session"
)

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

func TestLoadCreatesAnonymousSession(t *testing.T) {
	sessions := session.NewManager(true)
	events, _ := newTestEvents()
	mw := NewSessionMiddleware(sessions, events)

	var loaded *session.Session
	router := gin.New()
	router.Use(mw.Load())
	router.GET("/auth/csrf", func(c *gin.Context) {
		loaded = session.FromContext(c)
		okHandler(c)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/csrf", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, loaded)
	assert.False(t, loaded.Authenticated())

	cookie := sessionCookie(t, w)
	require.NotNil(t, cookie, "a fresh session cookie is issued")
	assert.Equal(t, loaded.ID, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, int(session.Lifetime.Seconds()), cookie.MaxAge)
}

func TestLoadReusesExistingSession(t *testing.T) {
	sessions := session.NewManager(true)
	events, _ := newTestEvents()
	mw := NewSessionMiddleware(sessions, events)

	existing, err := sessions.Create()
	require.NoError(t, err)

	var loaded *session.Session
	router := gin.New()
	router.Use(mw.Load())
	router.GET("/dashboard", func(c *gin.Context) {
		loaded = session.FromContext(c)
		okHandler(c)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: existing.ID})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Same(t, existing, loaded)
	assert.Nil(t, sessionCookie(t, w), "no re-issue before rotation is due")
}

func TestLoadReplacesUnknownCookie(t *testing.T) {
	sessions := session.NewManager(true)
	events, _ := newTestEvents()
	mw := NewSessionMiddleware(sessions, events)

	router := gin.New()
	router.Use(mw.Load())
	router.GET("/dashboard", okHandler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "stale-or-forged"})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)
	require.NotNil(t, cookie)
	assert.NotEqual(t, "stale-or-forged", cookie.Value)
}

func TestLoginRequired(t *testing.T) {
	sessions := session.NewManager(true)
	events, repo := newTestEvents()
	mw := NewSessionMiddleware(sessions, events)

	router := gin.New()
	router.Use(mw.Load())
	router.GET("/dashboard", mw.LoginRequired(), okHandler)

	t.Run("anonymous session is redirected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))

		require.Len(t, repo.events, 1)
		assert.Equal(t, models.EventUnauthorizedAccess, repo.events[0].EventType)
		assert.Contains(t, repo.events[0].Details, "/dashboard")
	})

	t.Run("authenticated session passes", func(t *testing.T) {
		s, err := sessions.Create()
		require.NoError(t, err)
		sessions.Authenticate(s, &models.User{ID: uuid.New(), Email: "jane@school.example", Role: models.RoleStudent})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: s.ID})
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAdminRequired(t *testing.T) {
	sessions := session.NewManager(true)
	events, repo := newTestEvents()
	mw := NewSessionMiddleware(sessions, events)

	router := gin.New()
	router.Use(mw.Load())
	router.GET("/admin/security", mw.AdminRequired(), okHandler)

	get := func(s *session.Session) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/security", nil)
		if s != nil {
			req.AddCookie(&http.Cookie{Name: session.CookieName, Value: s.ID})
		}
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("anonymous goes to login", func(t *testing.T) {
		w := get(nil)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
	})

	t.Run("student goes to error page", func(t *testing.T) {
		s, err := sessions.Create()
		require.NoError(t, err)
		sessions.Authenticate(s, &models.User{ID: uuid.New(), Role: models.RoleStudent})

		w := get(s)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/error", w.Header().Get("Location"))

		last := repo.events[len(repo.events)-1]
		assert.Equal(t, models.EventUnauthorizedAccess, last.EventType)
		assert.Contains(t, last.Details, "non-admin")
	})

	t.Run("admin passes", func(t *testing.T) {
		s, err := sessions.Create()
		require.NoError(t, err)
		sessions.Authenticate(s, &models.User{ID: uuid.New(), Role: models.RoleAdmin})

		w := get(s)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
