package anomaly

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"fundwatch/pkg/platform/sentinel"
)

// PostgresStore persists anomalies in the anomalies table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// SaveAll bulk-inserts candidates with unnest, one round trip per scan.
func (s *PostgresStore) SaveAll(ctx context.Context, candidates []Candidate) error {
	if len(candidates) == 0 {
		return nil
	}

	ids := make([]string, len(candidates))
	types := make([]string, len(candidates))
	budgetIDs := make([]sql.NullString, len(candidates))
	contractIDs := make([]sql.NullString, len(candidates))
	paymentIDs := make([]sql.NullString, len(candidates))
	descriptions := make([]string, len(candidates))
	severities := make([]string, len(candidates))
	ruleScores := make([]float64, len(candidates))
	mlScores := make([]float64, len(candidates))
	combinedScores := make([]float64, len(candidates))

	for i, c := range candidates {
		ids[i] = uuid.NewString()
		types[i] = string(c.Type)
		budgetIDs[i] = nullable(c.BudgetID)
		contractIDs[i] = nullable(c.ContractID)
		paymentIDs[i] = nullable(c.PaymentID)
		descriptions[i] = c.Description
		severities[i] = string(c.Severity)
		ruleScores[i] = c.RuleScore
		mlScores[i] = c.MLScore
		combinedScores[i] = c.CombinedScore
	}

	query := `
		INSERT INTO anomalies (
			id, anomaly_type, budget_id, contract_id, payment_id,
			description, severity, rule_score, ml_score, combined_score,
			investigated, created_at, updated_at
		)
		SELECT id, anomaly_type, budget_id, contract_id, payment_id,
		       description, severity, rule_score, ml_score, combined_score,
		       false, now(), now()
		FROM unnest(
			$1::uuid[], $2::text[], $3::text[], $4::text[], $5::text[],
			$6::text[], $7::text[], $8::numeric[], $9::numeric[], $10::numeric[]
		) AS t(id, anomaly_type, budget_id, contract_id, payment_id,
		       description, severity, rule_score, ml_score, combined_score)
	`
	_, err := s.db.ExecContext(ctx, query,
		pq.Array(ids), pq.Array(types),
		pq.Array(budgetIDs), pq.Array(contractIDs), pq.Array(paymentIDs),
		pq.Array(descriptions), pq.Array(severities),
		pq.Array(ruleScores), pq.Array(mlScores), pq.Array(combinedScores),
	)
	if err != nil {
		return fmt.Errorf("insert anomalies: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, filter ListFilter) ([]Record, error) {
	query := `
		SELECT id, anomaly_type, budget_id, contract_id, payment_id,
		       description, severity, rule_score, ml_score, combined_score,
		       investigated, created_at, updated_at
		FROM anomalies
	`
	args := []any{}
	if filter.Investigated != nil {
		query += ` WHERE investigated = $1`
		args = append(args, *filter.Investigated)
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query anomalies: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var budgetID, contractID, paymentID sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Type, &budgetID, &contractID, &paymentID,
			&rec.Description, &rec.Severity, &rec.RuleScore, &rec.MLScore,
			&rec.CombinedScore, &rec.Investigated, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan anomaly: %w", err)
		}
		rec.BudgetID = budgetID.String
		rec.ContractID = contractID.String
		rec.PaymentID = paymentID.String
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *PostgresStore) MarkInvestigated(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE anomalies SET investigated = true, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark investigated: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark investigated: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
