package database

import (
	"context"
	"fmt"
	"time"

	"github.com/blsh/salon-dashboard/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// AuditRepository persists ledger audit entries
type AuditRepository struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *sqlx.DB, logger *logrus.Logger) *AuditRepository {
	return &AuditRepository{
		db:     db,
		logger: logger,
	}
}

// Log inserts one audit entry
func (r *AuditRepository) Log(ctx context.Context, audit *models.LedgerAudit) error {
	if audit == nil {
		return fmt.Errorf("audit entry cannot be nil")
	}

	if audit.ID == uuid.Nil {
		audit.ID = uuid.New()
	}
	if audit.CreatedAt.IsZero() {
		audit.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO ledger_audit_logs (
			id, action, entity_type, entity_id,
			ip_address, user_agent, request_id,
			details, created_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7,
			$8, $9
		)`

	_, err := r.db.ExecContext(ctx, query,
		audit.ID, audit.Action, audit.EntityType, audit.EntityID,
		audit.IPAddress, audit.UserAgent, audit.RequestID,
		audit.Details, audit.CreatedAt,
	)
	if err != nil {
		r.logger.WithError(err).WithFields(logrus.Fields{
			"action":    audit.Action,
			"entity_id": audit.EntityID,
		}).Error("Failed to write ledger audit entry")
		return fmt.Errorf("failed to log ledger audit: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"audit_id":  audit.ID,
		"action":    audit.Action,
		"entity_id": audit.EntityID,
	}).Debug("Ledger audit logged")

	return nil
}

// Recent returns the newest audit entries, newest first
func (r *AuditRepository) Recent(ctx context.Context, limit int) ([]*models.LedgerAudit, error) {
	audits := []*models.LedgerAudit{}
	query := `
		SELECT id, action, entity_type, entity_id, ip_address, user_agent, request_id, details, created_at
		FROM ledger_audit_logs
		ORDER BY created_at DESC
		LIMIT $1`

	if err := r.db.SelectContext(ctx, &audits, query, limit); err != nil {
		return nil, fmt.Errorf("failed to get recent audits: %w", err)
	}
	return audits, nil
}

// GetByEntity returns the history of one appointment, staff member or leave record, oldest first
func (r *AuditRepository) GetByEntity(ctx context.Context, entityType, entityID string) ([]*models.LedgerAudit, error) {
	audits := []*models.LedgerAudit{}
	query := `
		SELECT id, action, entity_type, entity_id, ip_address, user_agent, request_id, details, created_at
		FROM ledger_audit_logs
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at ASC`

	if err := r.db.SelectContext(ctx, &audits, query, entityType, entityID); err != nil {
		return nil, fmt.Errorf("failed to get audits by entity: %w", err)
	}
	return audits, nil
}

// DeleteOlderThan removes entries created before cutoff and returns how many were removed
func (r *AuditRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM ledger_audit_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old audits: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}
