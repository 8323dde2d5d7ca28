package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"fundwatch/pkg/platform/sentinel"
)

// PostgresStore persists reports and their side tables.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, r *Report) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO reports (
			id, public_id, status, summary, detailed_description,
			estimated_amount_range, source_of_info, follow_up_allowed,
			contact_info, priority_level, created_at
		)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8, NULLIF($9, ''), $10, now())
		RETURNING created_at
	`, r.ID, r.PublicID, r.Status, r.Summary, r.DetailedDescription,
		r.EstimatedAmountRange, r.SourceOfInfo, r.FollowUpAllowed,
		r.ContactInfo, r.PriorityLevel).Scan(&r.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByPublicID(ctx context.Context, publicID string) (Report, error) {
	var (
		r                             Report
		description, amounts, contact sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, public_id, status, summary, detailed_description,
		       estimated_amount_range, source_of_info, follow_up_allowed,
		       contact_info, priority_level, created_at
		FROM reports
		WHERE public_id = $1
	`, publicID).Scan(&r.ID, &r.PublicID, &r.Status, &r.Summary, &description,
		&amounts, &r.SourceOfInfo, &r.FollowUpAllowed, &contact,
		&r.PriorityLevel, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Report{}, sentinel.ErrNotFound
		}
		return Report{}, fmt.Errorf("query report: %w", err)
	}
	r.DetailedDescription = description.String
	r.EstimatedAmountRange = amounts.String
	r.ContactInfo = contact.String
	return r, nil
}

func (s *PostgresStore) AddAttributes(ctx context.Context, reportID string, attrs map[string]string) error {
	for key, value := range attrs {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO report_attributes (id, report_id, attribute_key, attribute_value)
			VALUES ($1, $2, $3, $4)
		`, uuid.NewString(), reportID, key, value)
		if err != nil {
			return fmt.Errorf("insert report attribute: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) AddEvidence(ctx context.Context, reportID string, files []Evidence) error {
	for _, f := range files {
		filename := f.Filename
		if filename == "" {
			filename = "unnamed_file"
		}
		mimeType := f.MimeType
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO report_evidence (id, report_id, filename, storage_path, mime_type, file_size)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, uuid.NewString(), reportID, filename, f.StoragePath, mimeType, f.FileSize)
		if err != nil {
			return fmt.Errorf("insert evidence record: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) AddEntities(ctx context.Context, reportID string, entities []InvolvedEntity) error {
	for _, e := range entities {
		name := e.Name
		if name == "" {
			name = "Unknown"
		}
		entityType := e.Type
		if entityType == "" {
			entityType = "Unknown"
		}
		info, err := json.Marshal(e.AdditionalInfo)
		if err != nil {
			return fmt.Errorf("marshal entity info: %w", err)
		}
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO involved_entities (id, report_id, name, type, role, additional_info)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, uuid.NewString(), reportID, name, entityType, e.Role, info)
		if err != nil {
			return fmt.Errorf("insert involved entity: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) AddChatHistory(ctx context.Context, reportID string, messages []ChatMessage) error {
	for _, m := range messages {
		sender := m.Sender
		if sender == "" {
			sender = "unknown"
		}
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO chat_messages (id, report_id, message_type, content, sent_at)
			VALUES ($1, $2, $3, $4, $5)
		`, uuid.NewString(), reportID, sender, m.Content, m.Timestamp)
		if err != nil {
			return fmt.Errorf("insert chat message: %w", err)
		}
	}
	return nil
}
