package report

import (
	"context"
	"sync"
	"time"

	"fundwatch/pkg/platform/sentinel"
)

// InMemoryStore keeps reports and side records in memory.
type InMemoryStore struct {
	mu          sync.RWMutex
	reports     map[string]Report // keyed by internal ID
	attributes  map[string]map[string]string
	evidence    map[string][]Evidence
	entities    map[string][]InvolvedEntity
	chatHistory map[string][]ChatMessage
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		reports:     make(map[string]Report),
		attributes:  make(map[string]map[string]string),
		evidence:    make(map[string][]Evidence),
		entities:    make(map[string][]InvolvedEntity),
		chatHistory: make(map[string][]ChatMessage),
	}
}

func (s *InMemoryStore) Create(_ context.Context, r *Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	s.reports[r.ID] = *r
	return nil
}

func (s *InMemoryStore) FindByPublicID(_ context.Context, publicID string) (Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.reports {
		if r.PublicID == publicID {
			return r, nil
		}
	}
	return Report{}, sentinel.ErrNotFound
}

func (s *InMemoryStore) AddAttributes(_ context.Context, reportID string, attrs map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attributes[reportID] == nil {
		s.attributes[reportID] = make(map[string]string)
	}
	for k, v := range attrs {
		s.attributes[reportID][k] = v
	}
	return nil
}

func (s *InMemoryStore) AddEvidence(_ context.Context, reportID string, files []Evidence) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evidence[reportID] = append(s.evidence[reportID], files...)
	return nil
}

func (s *InMemoryStore) AddEntities(_ context.Context, reportID string, entities []InvolvedEntity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entities[reportID] = append(s.entities[reportID], entities...)
	return nil
}

func (s *InMemoryStore) AddChatHistory(_ context.Context, reportID string, messages []ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatHistory[reportID] = append(s.chatHistory[reportID], messages...)
	return nil
}

// EvidenceFor supports tests inspecting side-table writes.
func (s *InMemoryStore) EvidenceFor(reportID string) []Evidence {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Evidence{}, s.evidence[reportID]...)
}

// AttributesFor supports tests inspecting side-table writes.
func (s *InMemoryStore) AttributesFor(reportID string) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.attributes[reportID]))
	for k, v := range s.attributes[reportID] {
		out[k] = v
	}
	return out
}
