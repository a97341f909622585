package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// AuditRetention is how long ledger audit entries are kept
const AuditRetention = 180 * 24 * time.Hour

// CacheSweeper drops expired cache entries and reports how many were removed
type CacheSweeper interface {
	Sweep() int
}

// CronService manages scheduled background jobs
type CronService struct {
	cron   *cron.Cron
	cache  CacheSweeper
	audit  *AuditService
	logger *logrus.Logger
}

// NewCronService creates a new CronService
func NewCronService(cache CacheSweeper, audit *AuditService, logger *logrus.Logger) *CronService {
	return &CronService{
		cron:   cron.New(cron.WithSeconds()),
		cache:  cache,
		audit:  audit,
		logger: logger,
	}
}

// Start schedules the jobs and starts the scheduler.
// sweepSchedule accepts cron descriptors such as "@every 1m".
func (s *CronService) Start(sweepSchedule string) error {
	s.logger.Info("Starting cron service")

	if _, err := s.cron.AddFunc(sweepSchedule, s.sweepCacheJob); err != nil {
		return fmt.Errorf("failed to schedule cache sweep job: %w", err)
	}
	s.logger.WithField("schedule", sweepSchedule).Info("Scheduled: sweep expired table cache entries")

	if s.audit != nil && s.audit.Enabled() {
		// "0 30 3 * * *" = 03:30 every day
		if _, err := s.cron.AddFunc("0 30 3 * * *", s.cleanupAuditJob); err != nil {
			return fmt.Errorf("failed to schedule audit cleanup job: %w", err)
		}
		s.logger.Info("Scheduled: cleanup old audit entries (daily at 03:30)")
	}

	s.cron.Start()
	s.logger.Info("Cron service started")
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *CronService) Stop() {
	s.logger.Info("Stopping cron service")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron service stopped")
}

func (s *CronService) sweepCacheJob() {
	removed := s.cache.Sweep()
	if removed > 0 {
		s.logger.WithField("removed", removed).Debug("[CRON] Swept expired cache entries")
	}
}

func (s *CronService) cleanupAuditJob() {
	startTime := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	removed, err := s.audit.Cleanup(ctx, AuditRetention)
	if err != nil {
		s.logger.WithError(err).Error("[CRON] Failed to cleanup audit entries")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"removed":  removed,
		"duration": time.Since(startTime).String(),
	}).Info("[CRON] Cleaned up old audit entries")
}

// RunSweepNow runs the cache sweep immediately
func (s *CronService) RunSweepNow() int {
	return s.cache.Sweep()
}

// GetJobStatus returns the status of scheduled jobs
func (s *CronService) GetJobStatus() map[string]interface{} {
	entries := s.cron.Entries()

	jobs := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		jobs = append(jobs, map[string]interface{}{
			"id":       entry.ID,
			"next_run": entry.Next,
			"prev_run": entry.Prev,
		})
	}

	return map[string]interface{}{
		"running":   len(entries) > 0,
		"job_count": len(entries),
		"jobs":      jobs,
	}
}
