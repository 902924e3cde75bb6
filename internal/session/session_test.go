package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolportal/internal/models"
)

func newTestManager(start time.Time) (*Manager, *time.Time) {
	now := start
	m := NewManager(true)
	m.now = func() time.Time { return now }
	return m, &now
}

func testUser() *models.User {
	return &models.User{
		ID:        uuid.New(),
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane.doe@school.example",
		Role:      models.RoleStudent,
		IsActive:  true,
	}
}

func TestCreateAnonymousSession(t *testing.T) {
	m, _ := newTestManager(time.Now())

	s, err := m.Create()
	require.NoError(t, err)

	assert.Len(t, s.ID, 64, "256-bit session ID hex encoded")
	assert.NotEmpty(t, s.CSRFToken, "anonymous sessions carry a CSRF token")
	assert.False(t, s.Authenticated())
	assert.False(t, s.IsAdmin())

	assert.Same(t, s, m.Get(s.ID))
}

func TestAuthenticate(t *testing.T) {
	m, _ := newTestManager(time.Now())
	s, err := m.Create()
	require.NoError(t, err)

	token := s.CSRFToken
	user := testUser()
	m.Authenticate(s, user)

	assert.True(t, s.Authenticated())
	assert.Equal(t, user.ID, *s.UserID)
	assert.Equal(t, user.Email, s.Email)
	assert.Equal(t, user.FirstName, s.FirstName)
	assert.Equal(t, user.LastName, s.LastName)
	assert.Equal(t, user.Role, s.Role)
	require.NotNil(t, s.LoginAt)
	assert.Equal(t, token, s.CSRFToken, "login keeps the issued CSRF token")
}

func TestIsAdmin(t *testing.T) {
	m, _ := newTestManager(time.Now())
	s, err := m.Create()
	require.NoError(t, err)

	user := testUser()
	user.Role = models.RoleAdmin
	m.Authenticate(s, user)

	assert.True(t, s.IsAdmin())
}

func TestRotateIfDue(t *testing.T) {
	m, now := newTestManager(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s, err := m.Create()
	require.NoError(t, err)
	m.Authenticate(s, testUser())

	oldID := s.ID

	// Not due yet
	rotated, err := m.RotateIfDue(s)
	require.NoError(t, err)
	assert.False(t, rotated)
	assert.Equal(t, oldID, s.ID)

	*now = now.Add(RotationInterval)
	rotated, err = m.RotateIfDue(s)
	require.NoError(t, err)
	assert.True(t, rotated)
	assert.NotEqual(t, oldID, s.ID)

	// Old ID no longer resolves, new ID carries the same state
	assert.Nil(t, m.Get(oldID))
	got := m.Get(s.ID)
	require.NotNil(t, got)
	assert.True(t, got.Authenticated())
	assert.Equal(t, s.Email, got.Email)

	// Rotation does not reset the fixed lifetime clock
	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), got.IssuedAt)
}

func TestGetExpiredSession(t *testing.T) {
	m, now := newTestManager(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s, err := m.Create()
	require.NoError(t, err)

	*now = now.Add(Lifetime + time.Second)
	assert.Nil(t, m.Get(s.ID), "sessions past the fixed lifetime are gone")

	// Lookup destroyed it; it stays gone even if the clock moves back
	*now = now.Add(-time.Hour)
	assert.Nil(t, m.Get(s.ID))
}

func TestGetUnknownID(t *testing.T) {
	m, _ := newTestManager(time.Now())
	assert.Nil(t, m.Get(""))
	assert.Nil(t, m.Get("deadbeef"))
}

func TestDestroy(t *testing.T) {
	m, _ := newTestManager(time.Now())
	s, err := m.Create()
	require.NoError(t, err)

	m.Destroy(s.ID)
	assert.Nil(t, m.Get(s.ID))
}

func TestSweep(t *testing.T) {
	m, now := newTestManager(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	old, err := m.Create()
	require.NoError(t, err)

	*now = now.Add(Lifetime + time.Second)
	fresh, err := m.Create()
	require.NoError(t, err)

	m.Sweep()
	assert.Nil(t, m.Get(old.ID))
	assert.NotNil(t, m.Get(fresh.ID))
}

func TestIssueCSRFIdempotent(t *testing.T) {
	m, _ := newTestManager(time.Now())
	s, err := m.Create()
	require.NoError(t, err)

	first, err := m.IssueCSRF(s)
	require.NoError(t, err)
	second, err := m.IssueCSRF(s)
	require.NoError(t, err)

	assert.Equal(t, first, second, "repeat issues return the same token")
	assert.Equal(t, s.CSRFToken, first)
}
