package services

import (
	"context"
	"fmt"
	"time"

	"github.com/blsh/salon-dashboard/internal/models"
	"github.com/blsh/salon-dashboard/internal/utils"
	"github.com/sirupsen/logrus"
)

// AuditRecorder stores ledger audit entries
type AuditRecorder interface {
	Log(ctx context.Context, audit *models.LedgerAudit) error
	Recent(ctx context.Context, limit int) ([]*models.LedgerAudit, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// AuditService records every ledger mutation.
// Without a recorder, events are only written to the log.
type AuditService struct {
	recorder AuditRecorder
	logger   *logrus.Logger
}

// NewAuditService creates a new audit service. recorder may be nil.
func NewAuditService(recorder AuditRecorder, logger *logrus.Logger) *AuditService {
	return &AuditService{
		recorder: recorder,
		logger:   logger,
	}
}

// MutationEvent describes one successful ledger write
type MutationEvent struct {
	Action     models.LedgerAction
	EntityType string // appointment, staff, leave
	EntityID   string
	IPAddress  string
	UserAgent  string
	RequestID  string
	Details    map[string]interface{}
}

// Enabled reports whether events are persisted
func (s *AuditService) Enabled() bool {
	return s.recorder != nil
}

// LogMutation records a ledger mutation together with the caller's device info
func (s *AuditService) LogMutation(ctx context.Context, event MutationEvent) error {
	audit := models.NewLedgerAudit(event.Action, event.EntityType, event.EntityID).
		SetMetadata(event.IPAddress, event.UserAgent, event.RequestID)
	for k, v := range event.Details {
		audit.SetDetail(k, v)
	}
	audit.SetDetail("device_info", utils.ParseUserAgent(event.UserAgent).Map())

	s.logger.WithFields(logrus.Fields{
		"audit_id":    audit.ID,
		"action":      audit.Action,
		"entity_type": audit.EntityType,
		"entity_id":   audit.EntityID,
		"ip_address":  event.IPAddress,
		"request_id":  event.RequestID,
	}).Info("Ledger mutation")

	if s.recorder == nil {
		return nil
	}
	if err := s.recorder.Log(ctx, audit); err != nil {
		return fmt.Errorf("failed to record ledger mutation: %w", err)
	}
	return nil
}

// Recent returns the newest audit entries; empty when events are not persisted
func (s *AuditService) Recent(ctx context.Context, limit int) ([]*models.LedgerAudit, error) {
	if s.recorder == nil {
		return []*models.LedgerAudit{}, nil
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return s.recorder.Recent(ctx, limit)
}

// Cleanup removes audit entries older than the retention period
func (s *AuditService) Cleanup(ctx context.Context, olderThan time.Duration) (int64, error) {
	if s.recorder == nil {
		return 0, nil
	}
	removed, err := s.recorder.DeleteOlderThan(ctx, time.Now().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old audit entries: %w", err)
	}
	return removed, nil
}
