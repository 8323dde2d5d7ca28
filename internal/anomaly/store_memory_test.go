package anomaly

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"fundwatch/pkg/platform/sentinel"
)

type AnomalyStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func TestAnomalyStoreSuite(t *testing.T) {
	suite.Run(t, new(AnomalyStoreSuite))
}

func (s *AnomalyStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
}

func (s *AnomalyStoreSuite) TestSaveAll() {
	s.Run("assigns ids and timestamps", func() {
		candidates := []Candidate{
			{Type: TypeBudgetVariance, BudgetID: "b1", Severity: SeverityHigh},
			{Type: TypePaymentPattern, PaymentID: "p1", Severity: SeverityLow},
		}
		s.Require().NoError(s.store.SaveAll(s.ctx, candidates))

		recs, err := s.store.List(s.ctx, ListFilter{})
		s.Require().NoError(err)
		s.Require().Len(recs, 2)
		for _, rec := range recs {
			s.NotEmpty(rec.ID)
			s.False(rec.CreatedAt.IsZero())
			s.False(rec.Investigated)
		}
	})

	s.Run("empty batch is a no-op", func() {
		s.Require().NoError(s.store.SaveAll(s.ctx, nil))
	})
}

func (s *AnomalyStoreSuite) TestList() {
	s.Run("returns most recent first", func() {
		s.store = NewInMemoryStore()
		s.Require().NoError(s.store.SaveAll(s.ctx, []Candidate{{Type: TypeBudgetVariance, Description: "first"}}))
		s.Require().NoError(s.store.SaveAll(s.ctx, []Candidate{{Type: TypeBudgetVariance, Description: "second"}}))

		recs, err := s.store.List(s.ctx, ListFilter{})
		s.Require().NoError(err)
		s.Require().Len(recs, 2)
		s.Equal("second", recs[0].Description)
		s.Equal("first", recs[1].Description)
	})

	s.Run("applies the limit after ordering", func() {
		s.store = NewInMemoryStore()
		s.Require().NoError(s.store.SaveAll(s.ctx, []Candidate{
			{Description: "a"}, {Description: "b"}, {Description: "c"},
		}))

		recs, err := s.store.List(s.ctx, ListFilter{Limit: 2})
		s.Require().NoError(err)
		s.Require().Len(recs, 2)
		s.Equal("c", recs[0].Description)
	})

	s.Run("filters by investigated flag", func() {
		s.store = NewInMemoryStore()
		s.Require().NoError(s.store.SaveAll(s.ctx, []Candidate{{Description: "x"}, {Description: "y"}}))

		all, err := s.store.List(s.ctx, ListFilter{})
		s.Require().NoError(err)
		s.Require().Len(all, 2)
		s.Require().NoError(s.store.MarkInvestigated(s.ctx, all[0].ID))

		investigated := true
		flagged, err := s.store.List(s.ctx, ListFilter{Investigated: &investigated})
		s.Require().NoError(err)
		s.Require().Len(flagged, 1)
		s.Equal(all[0].ID, flagged[0].ID)

		pending := false
		rest, err := s.store.List(s.ctx, ListFilter{Investigated: &pending})
		s.Require().NoError(err)
		s.Len(rest, 1)
	})
}

func (s *AnomalyStoreSuite) TestMarkInvestigated() {
	s.Run("returns ErrNotFound for unknown id", func() {
		err := s.store.MarkInvestigated(s.ctx, "missing")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}
