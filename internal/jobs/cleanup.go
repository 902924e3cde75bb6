// Package jobs runs the background maintenance schedule
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"schoolportal/internal/ratelimit"
	"schoolportal/internal/repository"
	"schoolportal/internal/session"
)

// Cleanup owns the periodic maintenance: purging expired reset tokens,
// trimming old security events, and sweeping dead sessions and rate-limit
// counters.
type Cleanup struct {
	cron      *cron.Cron
	resetRepo repository.PasswordResetRepository
	eventRepo repository.SecurityEventRepository
	sessions  *session.Manager
	limiter   *ratelimit.Store
	retention time.Duration
	log       *zap.Logger
}

func NewCleanup(
	resetRepo repository.PasswordResetRepository,
	eventRepo repository.SecurityEventRepository,
	sessions *session.Manager,
	limiter *ratelimit.Store,
	retention time.Duration,
	log *zap.Logger,
) *Cleanup {
	return &Cleanup{
		cron:      cron.New(),
		resetRepo: resetRepo,
		eventRepo: eventRepo,
		sessions:  sessions,
		limiter:   limiter,
		retention: retention,
		log:       log,
	}
}

// Start registers and launches the schedule
func (c *Cleanup) Start() error {
	if _, err := c.cron.AddFunc("@hourly", c.purgeStore); err != nil {
		return err
	}
	if _, err := c.cron.AddFunc("@every 5m", c.sweepMemory); err != nil {
		return err
	}
	c.cron.Start()
	return nil
}

// Stop halts the schedule and waits for running jobs
func (c *Cleanup) Stop() {
	ctx := c.cron.Stop()
	<-ctx.Done()
}

func (c *Cleanup) purgeStore() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := c.resetRepo.DeleteExpired(ctx); err != nil {
		c.log.Warn("failed to purge expired reset tokens", zap.Error(err))
	}
	if err := c.eventRepo.CleanupOld(ctx, c.retention); err != nil {
		c.log.Warn("failed to trim old security events", zap.Error(err))
	}
}

func (c *Cleanup) sweepMemory() {
	c.sessions.Sweep()
	c.limiter.Purge()
}
