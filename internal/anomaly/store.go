package anomaly

import "context"

// ListFilter narrows List results. A nil Investigated means no filter.
type ListFilter struct {
	Investigated *bool
	Limit        int
}

// Store persists detected anomalies. Implementations are swappable so the
// engine can run against Postgres in deployment and memory in tests.
type Store interface {
	// SaveAll bulk-inserts one scan's candidates.
	SaveAll(ctx context.Context, candidates []Candidate) error
	// List returns anomalies, most recent first.
	List(ctx context.Context, filter ListFilter) ([]Record, error)
	// MarkInvestigated flips the investigated flag for one anomaly.
	// Returns sentinel.ErrNotFound when the ID is unknown.
	MarkInvestigated(ctx context.Context, id string) error
}
