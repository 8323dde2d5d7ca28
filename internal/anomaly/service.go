package anomaly

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"fundwatch/internal/anomaly/metrics"
	"fundwatch/internal/records"
	dErrors "fundwatch/pkg/domain-errors"
	"fundwatch/pkg/platform/sentinel"
	"fundwatch/pkg/requestcontext"
)

const defaultScanTimeout = 60 * time.Second

// Service is the anomaly aggregator: it fans the three detectors out over
// the record source, merges their candidates, persists them, and returns a
// summary. Detector and persistence failures degrade the result instead of
// failing the scan; only the timeout aborts the whole call.
type Service struct {
	source  records.Source
	store   Store
	cache   SummaryCache
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
	timeout time.Duration

	mu          sync.RWMutex
	lastSummary *Summary
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

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithCache(cache SummaryCache) Option {
	return func(s *Service) { s.cache = cache }
}

func WithScanTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewService constructs the aggregator.
func NewService(source records.Source, store Store, opts ...Option) (*Service, error) {
	if source == nil {
		return nil, fmt.Errorf("record source is required")
	}
	if store == nil {
		return nil, fmt.Errorf("anomaly store is required")
	}

	svc := &Service{
		source:  source,
		store:   store,
		logger:  slog.Default(),
		tracer:  otel.Tracer("fundwatch/anomaly"),
		timeout: defaultScanTimeout,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Scan runs all three detectors concurrently, persists the merged candidate
// list, and returns the summary.
func (s *Service) Scan(ctx context.Context) (Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ctx, span := s.tracer.Start(ctx, "anomaly.scan")
	defer span.End()

	start := time.Now()

	// Fixed fan-out of three independent read-and-compute tasks. A WaitGroup
	// rather than errgroup: a failed detector must degrade to an empty slice
	// without cancelling its siblings.
	var (
		wg        sync.WaitGroup
		budgets   []Candidate
		contracts []Candidate
		payments  []Candidate
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		budgets = s.runDetector(ctx, "budget", func(ctx context.Context) ([]Candidate, error) {
			rows, err := s.source.ListBudgets(ctx)
			if err != nil {
				return nil, err
			}
			return DetectBudgets(rows), nil
		})
	}()
	go func() {
		defer wg.Done()
		contracts = s.runDetector(ctx, "contract", func(ctx context.Context) ([]Candidate, error) {
			rows, err := s.source.ListContracts(ctx)
			if err != nil {
				return nil, err
			}
			return DetectContracts(rows, CountVendors(rows)), nil
		})
	}()
	go func() {
		defer wg.Done()
		payments = s.runDetector(ctx, "payment", func(ctx context.Context) ([]Candidate, error) {
			rows, err := s.source.ListPayments(ctx)
			if err != nil {
				return nil, err
			}
			return DetectPayments(rows), nil
		})
	}()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Summary{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "anomaly scan timed out")
	}

	merged := make([]Candidate, 0, len(budgets)+len(contracts)+len(payments))
	merged = append(merged, budgets...)
	merged = append(merged, contracts...)
	merged = append(merged, payments...)

	for _, c := range merged {
		s.metrics.CountAnomaly(string(c.Type), string(c.Severity))
	}

	// Scoring already succeeded; a failed insert degrades to a warning.
	if err := s.store.SaveAll(ctx, merged); err != nil {
		s.metrics.CountPersistFailure()
		s.logger.WarnContext(ctx, "failed to persist anomalies",
			"count", len(merged),
			"error", err,
		)
	}

	summary := BuildSummary(requestcontext.Now(ctx).UTC(), merged)
	s.rememberSummary(ctx, summary)

	s.metrics.ObserveScan(time.Since(start))
	span.SetAttributes(attribute.Int("anomalies.total", summary.TotalAnomalies))
	s.logger.InfoContext(ctx, "anomaly scan complete",
		"total", summary.TotalAnomalies,
		"budget", summary.AnomaliesByType.BudgetVariance,
		"contract", summary.AnomaliesByType.ContractPattern,
		"payment", summary.AnomaliesByType.PaymentPattern,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return summary, nil
}

// runDetector executes one fetch-and-detect task, recovering source errors
// into an empty candidate list so one broken collection never aborts the scan.
func (s *Service) runDetector(ctx context.Context, name string, fn func(context.Context) ([]Candidate, error)) []Candidate {
	ctx, span := s.tracer.Start(ctx, "anomaly.detect."+name)
	defer span.End()

	candidates, err := fn(ctx)
	if err != nil {
		s.metrics.CountDetectorFailure(name)
		s.logger.WarnContext(ctx, "detector degraded to empty result",
			"detector", name,
			"error", err,
		)
		return nil
	}
	return candidates
}

// LastSummary returns the most recent scan summary, preferring the shared
// cache over the in-process copy.
func (s *Service) LastSummary(ctx context.Context) (Summary, error) {
	if s.cache != nil {
		summary, err := s.cache.GetSummary(ctx)
		if err == nil {
			return summary, nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "summary cache read failed", "error", err)
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastSummary == nil {
		return Summary{}, dErrors.New(dErrors.CodeNotFound, "no scan has run yet")
	}
	return *s.lastSummary, nil
}

// List returns persisted anomalies for the audit dashboard.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Record, error) {
	recs, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list anomalies")
	}
	return recs, nil
}

// MarkInvestigated records that the audit team has looked at an anomaly.
func (s *Service) MarkInvestigated(ctx context.Context, id string) error {
	if id == "" {
		return dErrors.New(dErrors.CodeBadRequest, "anomaly id is required")
	}
	if err := s.store.MarkInvestigated(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeNotFound, "anomaly not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark anomaly investigated")
	}
	return nil
}

func (s *Service) rememberSummary(ctx context.Context, summary Summary) {
	s.mu.Lock()
	s.lastSummary = &summary
	s.mu.Unlock()

	if s.cache == nil {
		return
	}
	if err := s.cache.SetSummary(ctx, summary); err != nil {
		s.logger.WarnContext(ctx, "summary cache write failed", "error", err)
	}
}
