//go:build integration

package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"fundwatch/internal/report"
	"fundwatch/pkg/platform/sentinel"
	"fundwatch/pkg/testutil/containers"
)

const reportSchema = `
CREATE TABLE IF NOT EXISTS reports (
	id uuid PRIMARY KEY,
	public_id text NOT NULL UNIQUE,
	status text NOT NULL,
	summary text NOT NULL,
	detailed_description text,
	estimated_amount_range text,
	source_of_info text NOT NULL,
	follow_up_allowed boolean NOT NULL,
	contact_info text,
	priority_level int NOT NULL,
	created_at timestamptz NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS report_attributes (
	id uuid PRIMARY KEY,
	report_id uuid NOT NULL REFERENCES reports(id),
	attribute_key text NOT NULL,
	attribute_value text NOT NULL
);
CREATE TABLE IF NOT EXISTS report_evidence (
	id uuid PRIMARY KEY,
	report_id uuid NOT NULL REFERENCES reports(id),
	filename text NOT NULL,
	storage_path text NOT NULL,
	mime_type text NOT NULL,
	file_size bigint NOT NULL
);
CREATE TABLE IF NOT EXISTS involved_entities (
	id uuid PRIMARY KEY,
	report_id uuid NOT NULL REFERENCES reports(id),
	name text NOT NULL,
	type text NOT NULL,
	role text,
	additional_info jsonb
);
CREATE TABLE IF NOT EXISTS chat_messages (
	id uuid PRIMARY KEY,
	report_id uuid NOT NULL REFERENCES reports(id),
	message_type text NOT NULL,
	content text NOT NULL,
	sent_at timestamptz NOT NULL
)`

type PostgresReportStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *report.PostgresStore
	ctx      context.Context
}

func TestPostgresReportStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresReportStoreSuite))
}

func (s *PostgresReportStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.postgres = containers.NewPostgresContainer(s.T())
	s.Require().NoError(s.postgres.Apply(s.ctx, reportSchema))
	s.store = report.NewPostgresStore(s.postgres.DB)
}

func (s *PostgresReportStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(s.ctx,
		"chat_messages", "involved_entities", "report_evidence", "report_attributes", "reports"))
}

func (s *PostgresReportStoreSuite) newReport() *report.Report {
	return &report.Report{
		ID:            uuid.NewString(),
		PublicID:      "AB12CD34",
		Status:        report.StatusNew,
		Summary:       "ghost project in the roads programme",
		SourceOfInfo:  "direct_witness",
		PriorityLevel: 4,
	}
}

func (s *PostgresReportStoreSuite) TestCreateAndFind() {
	s.Run("round-trips a full report", func() {
		rep := s.newReport()
		rep.DetailedDescription = "contractor paid for works never started"
		rep.EstimatedAmountRange = "50-100 million"
		rep.ContactInfo = "signal: +000"
		rep.FollowUpAllowed = true

		s.Require().NoError(s.store.Create(s.ctx, rep))
		s.False(rep.CreatedAt.IsZero())

		found, err := s.store.FindByPublicID(s.ctx, rep.PublicID)
		s.Require().NoError(err)
		s.Equal(rep.Summary, found.Summary)
		s.Equal(rep.DetailedDescription, found.DetailedDescription)
		s.Equal(rep.PriorityLevel, found.PriorityLevel)
		s.True(found.FollowUpAllowed)
	})

	s.Run("stores optional fields as null and reads them back empty", func() {
		s.Require().NoError(s.postgres.TruncateTables(s.ctx, "reports"))
		rep := s.newReport()
		s.Require().NoError(s.store.Create(s.ctx, rep))

		found, err := s.store.FindByPublicID(s.ctx, rep.PublicID)
		s.Require().NoError(err)
		s.Empty(found.DetailedDescription)
		s.Empty(found.EstimatedAmountRange)
		s.Empty(found.ContactInfo)
	})

	s.Run("returns ErrNotFound for unknown references", func() {
		_, err := s.store.FindByPublicID(s.ctx, "NOPE1234")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *PostgresReportStoreSuite) TestSideTables() {
	rep := s.newReport()
	s.Require().NoError(s.store.Create(s.ctx, rep))

	s.Run("stores attributes", func() {
		s.Require().NoError(s.store.AddAttributes(s.ctx, rep.ID, map[string]string{
			"district": "Kasungu",
			"sector":   "roads",
		}))

		var count int
		err := s.postgres.DB.QueryRowContext(s.ctx,
			`SELECT count(*) FROM report_attributes WHERE report_id = $1`, rep.ID).Scan(&count)
		s.Require().NoError(err)
		s.Equal(2, count)
	})

	s.Run("applies evidence defaults", func() {
		s.Require().NoError(s.store.AddEvidence(s.ctx, rep.ID, []report.Evidence{
			{StoragePath: "evidence/unknown.bin", FileSize: 512},
		}))

		var filename, mimeType string
		err := s.postgres.DB.QueryRowContext(s.ctx,
			`SELECT filename, mime_type FROM report_evidence WHERE report_id = $1`, rep.ID).
			Scan(&filename, &mimeType)
		s.Require().NoError(err)
		s.Equal("unnamed_file", filename)
		s.Equal("application/octet-stream", mimeType)
	})

	s.Run("applies entity defaults", func() {
		s.Require().NoError(s.store.AddEntities(s.ctx, rep.ID, []report.InvolvedEntity{
			{Role: "contractor", AdditionalInfo: map[string]string{"registration": "X99"}},
		}))

		var name, entityType string
		err := s.postgres.DB.QueryRowContext(s.ctx,
			`SELECT name, type FROM involved_entities WHERE report_id = $1`, rep.ID).
			Scan(&name, &entityType)
		s.Require().NoError(err)
		s.Equal("Unknown", name)
		s.Equal("Unknown", entityType)
	})

	s.Run("stores chat history with a sender fallback", func() {
		s.Require().NoError(s.store.AddChatHistory(s.ctx, rep.ID, []report.ChatMessage{
			{Content: "I saw the site", Timestamp: time.Now()},
		}))

		var sender string
		err := s.postgres.DB.QueryRowContext(s.ctx,
			`SELECT message_type FROM chat_messages WHERE report_id = $1`, rep.ID).Scan(&sender)
		s.Require().NoError(err)
		s.Equal("unknown", sender)
	})
}
