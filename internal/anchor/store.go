package anchor

import "context"

// Store persists anchors. Append must be conditional on the chain tip:
// an insert whose PrevHash no longer matches the latest CurrentHash for its
// record type returns sentinel.ErrConflict so the service can re-read and
// retry instead of forking the chain.
type Store interface {
	// Latest returns the most recently created anchor for a record type,
	// or sentinel.ErrNotFound for an empty chain.
	Latest(ctx context.Context, recordType string) (Anchor, error)
	// Append inserts a new anchor, guarding the single-linked-list property.
	Append(ctx context.Context, a Anchor) error
	// ListByType returns a record type's chain ordered oldest first.
	ListByType(ctx context.Context, recordType string) ([]Anchor, error)
}
