package anchor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"fundwatch/pkg/platform/sentinel"
)

// InMemoryStore keeps chains in memory, one slice per record type.
type InMemoryStore struct {
	mu     sync.RWMutex
	chains map[string][]Anchor
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{chains: make(map[string][]Anchor)}
}

func (s *InMemoryStore) Latest(_ context.Context, recordType string) (Anchor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chain := s.chains[recordType]
	if len(chain) == 0 {
		return Anchor{}, sentinel.ErrNotFound
	}
	return chain[len(chain)-1], nil
}

func (s *InMemoryStore) Append(_ context.Context, a Anchor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chain := s.chains[a.RecordType]
	tip := GenesisHash
	if len(chain) > 0 {
		tip = chain[len(chain)-1].CurrentHash
	}
	if a.PrevHash != tip {
		return sentinel.ErrConflict
	}

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	s.chains[a.RecordType] = append(chain, a)
	return nil
}

func (s *InMemoryStore) ListByType(_ context.Context, recordType string) ([]Anchor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Anchor{}, s.chains[recordType]...), nil
}

// Tamper overwrites a stored anchor in place. Only for verifier tests; the
// service never mutates past anchors.
func (s *InMemoryStore) Tamper(recordType string, index int, mutate func(*Anchor)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	chain := s.chains[recordType]
	if index >= 0 && index < len(chain) {
		mutate(&chain[index])
	}
}
