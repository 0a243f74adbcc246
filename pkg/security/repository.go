package security

import (
	"context"
	"encoding/json"
	"fmt"

	"portfolio-cms-backend/pkg/database"
)

const insertSecurityEvent = `INSERT INTO security_events (
	event_type, service, environment, level, subject_type, subject_value,
	ip_address, user_agent, request_id, details, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7::inet, $8, $9, $10::jsonb, $11)`

// SecurityEventRepository stores audit events in the security_events table.
type SecurityEventRepository struct {
	db database.DB
}

func NewSecurityEventRepository(db database.DB) *SecurityEventRepository {
	return &SecurityEventRepository{db: db}
}

// PersistEvent writes one audit event. It is installed on the SecurityLogger
// through SetPersistFunc.
func (r *SecurityEventRepository) PersistEvent(ctx context.Context, event SecurityEvent) error {
	details, err := eventDetails(event.Details)
	if err != nil {
		return fmt.Errorf("encode %s details: %w", event.Event, err)
	}

	_, err = r.db.Exec(ctx, insertSecurityEvent,
		string(event.Event),
		event.Service,
		event.Environment,
		event.Level,
		optional(event.SubjectType),
		optional(event.SubjectValue),
		optional(event.IP),
		optional(event.UserAgent),
		optional(event.RequestID),
		details,
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("persist %s event: %w", event.Event, err)
	}
	return nil
}

// eventDetails renders details as JSON text for the jsonb column; nil means
// SQL NULL. Text keeps the value valid under the simple query protocol.
func eventDetails(details map[string]interface{}) (*string, error) {
	if len(details) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return nil, err
	}
	text := string(raw)
	return &text, nil
}

// optional maps "" to NULL. The inet column rejects empty strings.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
