package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"schoolportal/internal/models"
	"schoolportal/internal/repository"
)

// statsWindow is the reporting window for the security monitor
const statsWindow = 24 * time.Hour

// SecurityHandler serves the admin security monitor
type SecurityHandler struct {
	eventRepo repository.SecurityEventRepository
	log       *zap.Logger
}

func NewSecurityHandler(eventRepo repository.SecurityEventRepository, log *zap.Logger) *SecurityHandler {
	return &SecurityHandler{eventRepo: eventRepo, log: log}
}

// Stats godoc
// @Summary Security activity over the last 24 hours
// @Description Admin-only aggregate of security events, failed logins, and distinct source IPs
// @Tags admin
// @Produce json
// @Success 200 {object} models.SecurityStats
// @Failure 303 "Redirect for unauthenticated or non-admin callers"
// @Failure 500 {object} models.ErrorResponse
// @Router /admin/security [get]
func (h *SecurityHandler) Stats(c *gin.Context) {
	since := time.Now().Add(-statsWindow)
	ctx := c.Request.Context()

	counts, err := h.eventRepo.CountsByType(ctx, since)
	if err != nil {
		h.log.Error("security stats query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: systemError})
		return
	}

	failedLogins, err := h.eventRepo.CountByEventType(ctx, models.EventFailedLogin, since)
	if err != nil {
		h.log.Error("security stats query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: systemError})
		return
	}

	uniqueIPs, err := h.eventRepo.CountUniqueIPs(ctx, since)
	if err != nil {
		h.log.Error("security stats query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: systemError})
		return
	}

	c.JSON(http.StatusOK, models.SecurityStats{
		RecentEvents: counts,
		FailedLogins: failedLogins,
		UniqueIPs:    uniqueIPs,
	})
}
