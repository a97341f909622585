package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/blsh/salon-dashboard/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// NewConnection opens the audit database and verifies it is reachable
func NewConnection(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	// Connection poolers (pgbouncer, Supavisor) reject extended-protocol prepared statements
	connectionURL := cfg.URL
	if strings.HasPrefix(connectionURL, "postgres") && !strings.Contains(connectionURL, "binary_parameters") {
		separator := "?"
		if strings.Contains(connectionURL, "?") {
			separator = "&"
		}
		connectionURL = connectionURL + separator + "binary_parameters=yes"
	}

	db, err := sqlx.Connect("postgres", connectionURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConnections)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxLifetime / 2)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

const auditSchema = `
CREATE TABLE IF NOT EXISTS ledger_audit_logs (
	id          UUID PRIMARY KEY,
	action      VARCHAR(64) NOT NULL,
	entity_type VARCHAR(32) NOT NULL,
	entity_id   VARCHAR(32) NOT NULL,
	ip_address  VARCHAR(64),
	user_agent  TEXT,
	request_id  VARCHAR(64),
	details     JSONB,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_ledger_audit_logs_entity ON ledger_audit_logs (entity_type, entity_id);
CREATE INDEX IF NOT EXISTS idx_ledger_audit_logs_created_at ON ledger_audit_logs (created_at DESC);
`

// EnsureAuditSchema creates the audit table and its indexes if they are missing
func EnsureAuditSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, auditSchema); err != nil {
		return fmt.Errorf("failed to create audit schema: %w", err)
	}
	return nil
}
