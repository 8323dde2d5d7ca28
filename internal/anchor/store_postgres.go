package anchor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"fundwatch/pkg/platform/sentinel"
)

// PostgresStore persists anchors in the block_anchors table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Latest(ctx context.Context, recordType string) (Anchor, error) {
	var a Anchor
	err := s.db.QueryRowContext(ctx, `
		SELECT id, record_type, record_id, prev_hash, record_hash,
		       current_hash, block_number, created_at
		FROM block_anchors
		WHERE record_type = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, recordType).Scan(&a.ID, &a.RecordType, &a.RecordID, &a.PrevHash,
		&a.RecordHash, &a.CurrentHash, &a.BlockNumber, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Anchor{}, sentinel.ErrNotFound
		}
		return Anchor{}, fmt.Errorf("query latest anchor: %w", err)
	}
	return a, nil
}

// Append inserts conditionally on the chain tip so concurrent appends from
// other instances cannot fork the chain: the insert only lands when the
// current tip still matches the anchor's prev_hash.
func (s *PostgresStore) Append(ctx context.Context, a Anchor) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO block_anchors (
			id, record_type, record_id, prev_hash, record_hash,
			current_hash, block_number, created_at
		)
		SELECT $1, $2, $3, $4, $5, $6, $7, now()
		WHERE COALESCE(
			(SELECT current_hash FROM block_anchors
			 WHERE record_type = $2
			 ORDER BY created_at DESC
			 LIMIT 1),
			$8
		) = $4
	`, a.ID, a.RecordType, a.RecordID, a.PrevHash, a.RecordHash,
		a.CurrentHash, a.BlockNumber, GenesisHash)
	if err != nil {
		return fmt.Errorf("insert anchor: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert anchor: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *PostgresStore) ListByType(ctx context.Context, recordType string) ([]Anchor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, record_type, record_id, prev_hash, record_hash,
		       current_hash, block_number, created_at
		FROM block_anchors
		WHERE record_type = $1
		ORDER BY created_at ASC
	`, recordType)
	if err != nil {
		return nil, fmt.Errorf("query anchors: %w", err)
	}
	defer rows.Close()

	var out []Anchor
	for rows.Next() {
		var a Anchor
		if err := rows.Scan(&a.ID, &a.RecordType, &a.RecordID, &a.PrevHash,
			&a.RecordHash, &a.CurrentHash, &a.BlockNumber, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan anchor: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
