package anchor

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	dErrors "fundwatch/pkg/domain-errors"
	"fundwatch/pkg/platform/sentinel"
)

// racingStore simulates a competing instance advancing the tip between the
// service's read and its insert.
type racingStore struct {
	*InMemoryStore
	mu        sync.Mutex
	conflicts int
}

func (s *racingStore) Append(ctx context.Context, a Anchor) error {
	s.mu.Lock()
	race := s.conflicts > 0
	if race {
		s.conflicts--
	}
	s.mu.Unlock()

	if race {
		// the competing writer lands its anchor first
		competing := Anchor{
			RecordType:  a.RecordType,
			RecordID:    "competing-record",
			PrevHash:    a.PrevHash,
			RecordHash:  a.RecordHash,
			CurrentHash: "f" + a.RecordHash[1:],
			BlockNumber: a.BlockNumber,
		}
		if err := s.InMemoryStore.Append(ctx, competing); err != nil {
			return err
		}
		return sentinel.ErrConflict
	}
	return s.InMemoryStore.Append(ctx, a)
}

// capturingPublisher records published anchors, optionally failing.
type capturingPublisher struct {
	mu        sync.Mutex
	published []Anchor
	err       error
}

func (p *capturingPublisher) PublishAnchor(_ context.Context, a Anchor) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, a)
	return nil
}

type AnchorServiceSuite struct {
	suite.Suite
	store *InMemoryStore
	svc   *Service
	ctx   context.Context
}

func TestAnchorServiceSuite(t *testing.T) {
	suite.Run(t, new(AnchorServiceSuite))
}

func (s *AnchorServiceSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()

	svc, err := NewService(s.store, WithLogger(testLogger()))
	s.Require().NoError(err)
	s.svc = svc
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *AnchorServiceSuite) TestNewService() {
	_, err := NewService(nil)
	s.Require().Error(err)
}

func (s *AnchorServiceSuite) TestAnchor() {
	s.Run("first anchor links to genesis", func() {
		a, err := s.svc.Anchor(s.ctx, "report", "rpt-1", "Ghost project payment", "citizen_report")
		s.Require().NoError(err)

		s.Equal(GenesisHash, a.PrevHash)
		s.Equal(int64(1), a.BlockNumber)
		s.Len(a.CurrentHash, 64)
		s.Equal(a.RecordHash, a.CurrentHash)
	})

	s.Run("second anchor links to the first", func() {
		first, err := s.svc.Anchor(s.ctx, "budget", "b-1", "allocation created", "system")
		s.Require().NoError(err)

		second, err := s.svc.Anchor(s.ctx, "budget", "b-2", "allocation updated", "system")
		s.Require().NoError(err)

		s.Equal(first.CurrentHash, second.PrevHash)
		s.Equal(int64(2), second.BlockNumber)
	})

	s.Run("chains are independent per record type", func() {
		_, err := s.svc.Anchor(s.ctx, "contract", "c-1", "awarded", "system")
		s.Require().NoError(err)

		a, err := s.svc.Anchor(s.ctx, "payment", "p-1", "disbursed", "system")
		s.Require().NoError(err)

		s.Equal(GenesisHash, a.PrevHash)
		s.Equal(int64(1), a.BlockNumber)
	})

	s.Run("validates inputs", func() {
		_, err := s.svc.Anchor(s.ctx, "", "rpt-1", "summary", "src")
		s.Require().Error(err)
		s.Equal(dErrors.CodeBadRequest, dErrors.CodeOf(err))

		_, err = s.svc.Anchor(s.ctx, "report", "", "summary", "src")
		s.Require().Error(err)
		s.Equal(dErrors.CodeBadRequest, dErrors.CodeOf(err))
	})

	s.Run("retries once after losing the tip race", func() {
		store := &racingStore{InMemoryStore: NewInMemoryStore(), conflicts: 1}
		svc, err := NewService(store, WithLogger(testLogger()))
		s.Require().NoError(err)

		a, err := svc.Anchor(s.ctx, "report", "rpt-1", "summary", "src")
		s.Require().NoError(err)

		// the retry linked behind the competing writer's anchor
		s.Equal(int64(2), a.BlockNumber)
		chain, err := store.ListByType(s.ctx, "report")
		s.Require().NoError(err)
		s.Require().Len(chain, 2)
		s.Equal("competing-record", chain[0].RecordID)
		s.Equal(chain[0].CurrentHash, chain[1].PrevHash)
	})

	s.Run("publishes appended anchors", func() {
		pub := &capturingPublisher{}
		svc, err := NewService(NewInMemoryStore(),
			WithLogger(testLogger()),
			WithPublisher(pub),
		)
		s.Require().NoError(err)

		a, err := svc.Anchor(s.ctx, "report", "rpt-1", "summary", "src")
		s.Require().NoError(err)
		s.Require().Len(pub.published, 1)
		s.Equal(a.CurrentHash, pub.published[0].CurrentHash)
	})

	s.Run("publish failure does not fail the append", func() {
		pub := &capturingPublisher{err: context.DeadlineExceeded}
		svc, err := NewService(NewInMemoryStore(),
			WithLogger(testLogger()),
			WithPublisher(pub),
		)
		s.Require().NoError(err)

		_, err = svc.Anchor(s.ctx, "report", "rpt-1", "summary", "src")
		s.Require().NoError(err)
	})

	s.Run("uses the injected clock for hashing", func() {
		at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		svc, err := NewService(NewInMemoryStore(),
			WithLogger(testLogger()),
			WithClock(func() time.Time { return at }),
		)
		s.Require().NoError(err)

		a, err := svc.Anchor(s.ctx, "report", "rpt-1", "Ghost project payment", "citizen_report")
		s.Require().NoError(err)
		s.Equal(ComputeHash("rpt-1", "Ghost project payment", at, "citizen_report"), a.RecordHash)
		s.Equal(at, a.CreatedAt)
	})
}

// TestConcurrentAppends drives parallel anchors at one record type and checks
// the chain stays linear.
func (s *AnchorServiceSuite) TestConcurrentAppends() {
	const writers = 16

	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(i int) {
			defer wg.Done()
			_, err := s.svc.Anchor(s.ctx, "report", "rpt-"+string(rune('a'+i)), "summary", "src")
			s.NoError(err)
		}(i)
	}
	wg.Wait()

	chain, err := s.store.ListByType(s.ctx, "report")
	s.Require().NoError(err)
	s.Require().Len(chain, writers)

	prev := GenesisHash
	for i, a := range chain {
		s.Equal(prev, a.PrevHash)
		s.Equal(int64(i+1), a.BlockNumber)
		prev = a.CurrentHash
	}

	report, err := s.svc.Verify(s.ctx, "report")
	s.Require().NoError(err)
	s.True(report.OK)
}
