package report

import "context"

// Store persists reports and their side tables. Side-table writes are
// independent of the main row; a failed attribute insert must not undo the
// report itself.
type Store interface {
	Create(ctx context.Context, r *Report) error
	// FindByPublicID returns sentinel.ErrNotFound for unknown references.
	FindByPublicID(ctx context.Context, publicID string) (Report, error)
	AddAttributes(ctx context.Context, reportID string, attrs map[string]string) error
	AddEvidence(ctx context.Context, reportID string, files []Evidence) error
	AddEntities(ctx context.Context, reportID string, entities []InvolvedEntity) error
	AddChatHistory(ctx context.Context, reportID string, messages []ChatMessage) error
}
