package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"fundwatch/internal/anchor"
	dErrors "fundwatch/pkg/domain-errors"
	"fundwatch/pkg/platform/sentinel"
	"fundwatch/pkg/requestcontext"
)

const anchorTimeout = 10 * time.Second

// Anchorer appends a report to the hash chain. Satisfied by the anchor
// service; kept as an interface so submission tests can observe anchoring.
type Anchorer interface {
	Anchor(ctx context.Context, recordType, recordID, summary, source string) (anchor.Anchor, error)
}

// Service handles report submission. Anchoring and side-table writes are
// best-effort: once the main report row is in, the submitter gets a receipt.
type Service struct {
	store    Store
	anchorer Anchorer
	logger   *slog.Logger
	newID    func() string

	anchorSync bool
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithAnchorer(anchorer Anchorer) Option {
	return func(s *Service) { s.anchorer = anchorer }
}

// WithSynchronousAnchoring makes Submit wait for the anchor attempt instead
// of firing it in the background. Only tests use this; the production wiring
// keeps anchoring off the submission path.
func WithSynchronousAnchoring() Option {
	return func(s *Service) { s.anchorSync = true }
}

// WithIDGenerator overrides internal ID generation for tests.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// NewService constructs the report service.
func NewService(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("report store is required")
	}
	svc := &Service{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Submit validates and persists a report, then records its side tables and
// fires the hash-chain anchor.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (Receipt, error) {
	if req.Summary == "" {
		return Receipt{}, dErrors.New(dErrors.CodeBadRequest, "summary is required")
	}
	if req.SourceOfInfo == "" {
		return Receipt{}, dErrors.New(dErrors.CodeBadRequest, "source of information is required")
	}

	publicID, err := NewPublicID()
	if err != nil {
		return Receipt{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate reference")
	}

	rep := &Report{
		ID:                   s.internalID(),
		PublicID:             publicID,
		Status:               StatusNew,
		Summary:              req.Summary,
		DetailedDescription:  req.DetailedDescription,
		EstimatedAmountRange: req.EstimatedAmountRange,
		SourceOfInfo:         req.SourceOfInfo,
		FollowUpAllowed:      req.FollowUpAllowed,
		ContactInfo:          req.ContactInfo,
		PriorityLevel:        CalculatePriority(req),
		CreatedAt:            requestcontext.Now(ctx),
	}

	if err := s.store.Create(ctx, rep); err != nil {
		return Receipt{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create report")
	}

	s.saveSideRecords(ctx, rep.ID, req)
	s.anchorReport(ctx, rep)

	s.logger.InfoContext(ctx, "report submitted",
		"request_id", requestcontext.RequestID(ctx),
		"public_id", rep.PublicID,
		"priority", rep.PriorityLevel,
	)

	return Receipt{
		Success:         true,
		ReportID:        rep.PublicID,
		ReferenceNumber: "TB-" + rep.PublicID,
		PriorityLevel:   rep.PriorityLevel,
		Status:          rep.Status,
		Message:         "Your report has been submitted successfully. Thank you for contributing to transparency!",
		NextSteps: []string{
			"Your report has been assigned a reference number for tracking",
			"It will be reviewed by our audit team within 48-72 hours",
			"High priority reports are fast-tracked for investigation",
			"You can reference this report using: TB-" + rep.PublicID,
		},
	}, nil
}

// GetByPublicID resolves a tracking reference to its report.
func (s *Service) GetByPublicID(ctx context.Context, publicID string) (Report, error) {
	if publicID == "" {
		return Report{}, dErrors.New(dErrors.CodeBadRequest, "reference is required")
	}
	rep, err := s.store.FindByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Report{}, dErrors.Wrap(err, dErrors.CodeNotFound, "report not found")
		}
		return Report{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load report")
	}
	return rep, nil
}

// saveSideRecords writes attributes, evidence, entities, and chat history in
// parallel. The first failure cancels the remaining writes; the report row
// already exists and the receipt must not depend on side-table health, so the
// group error is logged rather than returned.
func (s *Service) saveSideRecords(ctx context.Context, reportID string, req SubmitRequest) {
	g, ctx := errgroup.WithContext(ctx)

	if len(req.Attributes) > 0 {
		g.Go(func() error {
			return s.store.AddAttributes(ctx, reportID, req.Attributes)
		})
	}
	if len(req.Evidence) > 0 {
		g.Go(func() error {
			return s.store.AddEvidence(ctx, reportID, req.Evidence)
		})
	}
	if len(req.InvolvedEntities) > 0 {
		g.Go(func() error {
			return s.store.AddEntities(ctx, reportID, req.InvolvedEntities)
		})
	}
	if len(req.ChatHistory) > 0 {
		g.Go(func() error {
			return s.store.AddChatHistory(ctx, reportID, req.ChatHistory)
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.WarnContext(ctx, "failed to store report side records", "report_id", reportID, "error", err)
	}
}

// anchorReport appends the report to the hash chain. Best-effort by design:
// a submitter's receipt never waits on, or fails because of, the chain.
func (s *Service) anchorReport(ctx context.Context, rep *Report) {
	if s.anchorer == nil {
		return
	}

	run := func(ctx context.Context) {
		if _, err := s.anchorer.Anchor(ctx, RecordType, rep.ID, rep.Summary, rep.SourceOfInfo); err != nil {
			s.logger.WarnContext(ctx, "failed to anchor report",
				"report_id", rep.ID,
				"error", err,
			)
		}
	}

	if s.anchorSync {
		run(ctx)
		return
	}

	// Detach from the request so a fast response cannot cancel the append.
	detached, cancel := context.WithTimeout(context.WithoutCancel(ctx), anchorTimeout)
	go func() {
		defer cancel()
		run(detached)
	}()
}

func (s *Service) internalID() string {
	if s.newID != nil {
		return s.newID()
	}
	return uuid.NewString()
}
