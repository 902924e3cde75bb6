package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"schoolportal/internal/models"
	"schoolportal/internal/security"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type recordingEventRepo struct {
	events []*models.SecurityEvent
}

func (r *recordingEventRepo) Create(_ context.Context, event *models.SecurityEvent) error {
	r.events = append(r.events, event)
	return nil
}

func (r *recordingEventRepo) CountsByType(context.Context, time.Time) ([]models.EventTypeCount, error) {
	return nil, nil
}

func (r *recordingEventRepo) CountByEventType(context.Context, models.EventType, time.Time) (int, error) {
	return 0, nil
}

func (r *recordingEventRepo) CountUniqueIPs(context.Context, time.Time) (int, error) {
	return 0, nil
}

func (r *recordingEventRepo) CleanupOld(context.Context, time.Duration) error {
	return nil
}

func newTestEvents() (*security.EventLogger, *recordingEventRepo) {
	repo := &recordingEventRepo{}
	return security.NewEventLogger(zap.NewNop(), repo), repo
}

func okHandler(c *gin.Context) {
	c.JSON(200, models.SuccessResponse{Message: "ok"})
}
