package anomaly

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"fundwatch/pkg/platform/sentinel"
)

// InMemoryStore keeps anomaly records in memory. Used in tests and when no
// DATABASE_URL is configured.
type InMemoryStore struct {
	mu      sync.RWMutex
	records []Record
	failing error
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// Fail makes all writes return err until called with nil. Supports the
// persistence-degradation tests.
func (s *InMemoryStore) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing = err
}

func (s *InMemoryStore) SaveAll(_ context.Context, candidates []Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing != nil {
		return s.failing
	}
	now := time.Now()
	for _, c := range candidates {
		s.records = append(s.records, Record{
			ID:        uuid.NewString(),
			Candidate: c,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return nil
}

func (s *InMemoryStore) List(_ context.Context, filter ListFilter) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Record
	// records slice is append-ordered; walk backwards for most recent first
	for i := len(s.records) - 1; i >= 0; i-- {
		rec := s.records[i]
		if filter.Investigated != nil && rec.Investigated != *filter.Investigated {
			continue
		}
		out = append(out, rec)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (s *InMemoryStore) MarkInvestigated(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].Investigated = true
			s.records[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return sentinel.ErrNotFound
}
