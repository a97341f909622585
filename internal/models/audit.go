package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// LedgerAction identifies a mutation of the booking ledger
type LedgerAction string

const (
	ActionAppointmentCreated   LedgerAction = "appointment_created"
	ActionAppointmentUpdated   LedgerAction = "appointment_updated"
	ActionAppointmentCancelled LedgerAction = "appointment_cancelled"
	ActionAppointmentCompleted LedgerAction = "appointment_completed"
	ActionStaffCreated         LedgerAction = "staff_created"
	ActionStaffUpdated         LedgerAction = "staff_updated"
	ActionStaffResigned        LedgerAction = "staff_resigned"
	ActionLeaveCreated         LedgerAction = "leave_created"
)

// JSONB is a custom type for handling JSONB fields
type JSONB map[string]interface{}

// Value implements the driver.Valuer interface
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	bytes, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(bytes), nil
}

// Scan implements the sql.Scanner interface
func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// LedgerAudit is an immutable record of one ledger mutation
type LedgerAudit struct {
	ID         uuid.UUID    `json:"id" db:"id"`
	Action     LedgerAction `json:"action" db:"action"`
	EntityType string       `json:"entity_type" db:"entity_type"` // appointment, staff, leave
	EntityID   string       `json:"entity_id" db:"entity_id"`     // APT1000, STF001, LV1000

	// Request metadata
	IPAddress *string `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent *string `json:"user_agent,omitempty" db:"user_agent"`
	RequestID *string `json:"request_id,omitempty" db:"request_id"`

	Details   JSONB     `json:"details,omitempty" db:"details"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NewLedgerAudit creates an audit entry with a fresh id and timestamp
func NewLedgerAudit(action LedgerAction, entityType, entityID string) *LedgerAudit {
	return &LedgerAudit{
		ID:         uuid.New(),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    JSONB{},
		CreatedAt:  time.Now(),
	}
}

// SetMetadata records where the request came from
func (a *LedgerAudit) SetMetadata(ip, userAgent, requestID string) *LedgerAudit {
	if ip != "" {
		a.IPAddress = &ip
	}
	if userAgent != "" {
		a.UserAgent = &userAgent
	}
	if requestID != "" {
		a.RequestID = &requestID
	}
	return a
}

// SetDetail adds one key to the details payload
func (a *LedgerAudit) SetDetail(key string, value interface{}) *LedgerAudit {
	if a.Details == nil {
		a.Details = JSONB{}
	}
	a.Details[key] = value
	return a
}
