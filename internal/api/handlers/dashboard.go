package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schoolportal/internal/session"
)

// DashboardHandler serves the identity payload the page layer renders
type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

// Show godoc
// @Summary Current user's dashboard data
// @Tags dashboard
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 303 "Redirect to login when unauthenticated"
// @Router /dashboard [get]
func (h *DashboardHandler) Show(c *gin.Context) {
	s := session.FromContext(c)

	c.JSON(http.StatusOK, gin.H{
		"user_id":    s.UserID,
		"first_name": s.FirstName,
		"last_name":  s.LastName,
		"email":      s.Email,
		"role":       s.Role,
		"login_at":   s.LoginAt,
	})
}
