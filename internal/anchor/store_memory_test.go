package anchor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"fundwatch/pkg/platform/sentinel"
)

type AnchorStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func TestAnchorStoreSuite(t *testing.T) {
	suite.Run(t, new(AnchorStoreSuite))
}

func (s *AnchorStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
}

func (s *AnchorStoreSuite) TestLatest() {
	s.Run("returns ErrNotFound on an empty chain", func() {
		_, err := s.store.Latest(s.ctx, "report")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returns the newest anchor", func() {
		s.Require().NoError(s.store.Append(s.ctx, Anchor{
			RecordType: "report", RecordID: "r1",
			PrevHash: GenesisHash, RecordHash: "aa", CurrentHash: "aa", BlockNumber: 1,
		}))
		s.Require().NoError(s.store.Append(s.ctx, Anchor{
			RecordType: "report", RecordID: "r2",
			PrevHash: "aa", RecordHash: "bb", CurrentHash: "bb", BlockNumber: 2,
		}))

		latest, err := s.store.Latest(s.ctx, "report")
		s.Require().NoError(err)
		s.Equal("r2", latest.RecordID)
	})
}

func (s *AnchorStoreSuite) TestAppend() {
	s.Run("rejects a stale prev hash", func() {
		s.Require().NoError(s.store.Append(s.ctx, Anchor{
			RecordType: "report", RecordID: "r1",
			PrevHash: GenesisHash, RecordHash: "aa", CurrentHash: "aa", BlockNumber: 1,
		}))

		err := s.store.Append(s.ctx, Anchor{
			RecordType: "report", RecordID: "r2",
			PrevHash: GenesisHash, RecordHash: "bb", CurrentHash: "bb", BlockNumber: 2,
		})
		s.Require().ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("first anchor must link to genesis", func() {
		err := s.store.Append(s.ctx, Anchor{
			RecordType: "budget", RecordID: "b1",
			PrevHash: "aa", RecordHash: "bb", CurrentHash: "bb", BlockNumber: 1,
		})
		s.Require().ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("fills id and created_at when missing", func() {
		s.Require().NoError(s.store.Append(s.ctx, Anchor{
			RecordType: "contract", RecordID: "c1",
			PrevHash: GenesisHash, RecordHash: "aa", CurrentHash: "aa", BlockNumber: 1,
		}))

		chain, err := s.store.ListByType(s.ctx, "contract")
		s.Require().NoError(err)
		s.Require().Len(chain, 1)
		s.NotEmpty(chain[0].ID)
		s.False(chain[0].CreatedAt.IsZero())
	})
}

func (s *AnchorStoreSuite) TestListByType() {
	s.Run("returns anchors oldest first", func() {
		s.Require().NoError(s.store.Append(s.ctx, Anchor{
			RecordType: "report", RecordID: "r1",
			PrevHash: GenesisHash, RecordHash: "aa", CurrentHash: "aa", BlockNumber: 1,
		}))
		s.Require().NoError(s.store.Append(s.ctx, Anchor{
			RecordType: "report", RecordID: "r2",
			PrevHash: "aa", RecordHash: "bb", CurrentHash: "bb", BlockNumber: 2,
		}))

		chain, err := s.store.ListByType(s.ctx, "report")
		s.Require().NoError(err)
		s.Require().Len(chain, 2)
		s.Equal("r1", chain[0].RecordID)
		s.Equal("r2", chain[1].RecordID)
	})

	s.Run("unknown type yields an empty chain", func() {
		chain, err := s.store.ListByType(s.ctx, "nothing")
		s.Require().NoError(err)
		s.Empty(chain)
	})
}
