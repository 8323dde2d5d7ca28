package anchor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "fundwatch/pkg/domain-errors"
)

type VerifySuite struct {
	suite.Suite
	store *InMemoryStore
	svc   *Service
	ctx   context.Context
}

func TestVerifySuite(t *testing.T) {
	suite.Run(t, new(VerifySuite))
}

func (s *VerifySuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()

	svc, err := NewService(s.store, WithLogger(testLogger()))
	s.Require().NoError(err)
	s.svc = svc
}

func (s *VerifySuite) anchorN(n int) {
	for i := 0; i < n; i++ {
		_, err := s.svc.Anchor(s.ctx, "report", "rpt-"+string(rune('1'+i)), "summary", "src")
		s.Require().NoError(err)
	}
}

func (s *VerifySuite) TestVerify() {
	s.Run("rejects an empty record type", func() {
		_, err := s.svc.Verify(s.ctx, "")
		s.Require().Error(err)
		s.Equal(dErrors.CodeBadRequest, dErrors.CodeOf(err))
	})

	s.Run("empty chain is trivially valid", func() {
		report, err := s.svc.Verify(s.ctx, "budget")
		s.Require().NoError(err)
		s.True(report.OK)
		s.Zero(report.Anchors)
		s.Empty(report.TipHash)
		s.NotNil(report.Errors)
	})

	s.Run("intact chain passes", func() {
		s.anchorN(3)

		report, err := s.svc.Verify(s.ctx, "report")
		s.Require().NoError(err)
		s.True(report.OK)
		s.Equal(3, report.Anchors)

		chain, err := s.store.ListByType(s.ctx, "report")
		s.Require().NoError(err)
		s.Equal(chain[2].CurrentHash, report.TipHash)
	})

	s.Run("detects a mutated historical anchor", func() {
		s.store = NewInMemoryStore()
		svc, err := NewService(s.store, WithLogger(testLogger()))
		s.Require().NoError(err)
		s.svc = svc
		s.anchorN(3)

		// an attacker rewrites the middle anchor's content hash
		s.store.Tamper("report", 1, func(a *Anchor) {
			a.CurrentHash = ComputeHash("rpt-2", "doctored summary", a.CreatedAt, "src")
		})

		report, err := s.svc.Verify(s.ctx, "report")
		s.Require().NoError(err)
		s.False(report.OK)
		// the mutation breaks its own record hash and the next link
		s.Len(report.Errors, 2)
	})

	s.Run("detects broken linkage", func() {
		s.store = NewInMemoryStore()
		svc, err := NewService(s.store, WithLogger(testLogger()))
		s.Require().NoError(err)
		s.svc = svc
		s.anchorN(2)

		s.store.Tamper("report", 1, func(a *Anchor) {
			a.PrevHash = GenesisHash
		})

		report, err := s.svc.Verify(s.ctx, "report")
		s.Require().NoError(err)
		s.False(report.OK)
		s.NotEmpty(report.Errors)
	})
}
