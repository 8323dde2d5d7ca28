package anchor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	dErrors "fundwatch/pkg/domain-errors"
	"fundwatch/pkg/platform/sentinel"
)

// Publisher notifies downstream consumers of new anchors. Publishing is
// best-effort; a nil Publisher disables it.
type Publisher interface {
	PublishAnchor(ctx context.Context, a Anchor) error
}

// Service appends anchors to per-record-type hash chains. Appends for the
// same record type are serialized: the read-tip-then-insert sequence must be
// atomic or concurrent anchors would both link to the same predecessor.
type Service struct {
	store     Store
	publisher Publisher
	logger    *slog.Logger
	tracer    trace.Tracer
	clock     func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
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

func WithPublisher(publisher Publisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

// WithClock sets the clock function for testability.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewService constructs the anchor service.
func NewService(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("anchor store is required")
	}
	svc := &Service{
		store:  store,
		logger: slog.Default(),
		tracer: otel.Tracer("fundwatch/anchor"),
		clock:  time.Now,
		locks:  make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Anchor hashes a record's canonical snapshot and appends it to the record
// type's chain.
func (s *Service) Anchor(ctx context.Context, recordType, recordID, summary, source string) (Anchor, error) {
	if recordType == "" {
		return Anchor{}, dErrors.New(dErrors.CodeBadRequest, "record_type is required")
	}
	if recordID == "" {
		return Anchor{}, dErrors.New(dErrors.CodeBadRequest, "record_id is required")
	}

	ctx, span := s.tracer.Start(ctx, "anchor.append")
	defer span.End()

	// Serialize per record type; chains for different types are independent.
	lock := s.typeLock(recordType)
	lock.Lock()
	defer lock.Unlock()

	now := s.clock()
	hash := ComputeHash(recordID, summary, now, source)

	a, err := s.append(ctx, recordType, recordID, hash)
	if errors.Is(err, sentinel.ErrConflict) {
		// Another instance advanced the tip between our read and insert.
		// One retry against the fresh tip; the mutex already excludes
		// in-process racers.
		a, err = s.append(ctx, recordType, recordID, hash)
	}
	if err != nil {
		return Anchor{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to append anchor")
	}

	s.logger.InfoContext(ctx, "anchor appended",
		"record_type", a.RecordType,
		"record_id", a.RecordID,
		"block_number", a.BlockNumber,
	)
	s.publish(ctx, a)
	return a, nil
}

func (s *Service) append(ctx context.Context, recordType, recordID, hash string) (Anchor, error) {
	prevHash := GenesisHash
	var blockNumber int64 = 1
	latest, err := s.store.Latest(ctx, recordType)
	switch {
	case err == nil:
		prevHash = latest.CurrentHash
		blockNumber = latest.BlockNumber + 1
	case errors.Is(err, sentinel.ErrNotFound):
	default:
		return Anchor{}, err
	}

	a := Anchor{
		RecordType:  recordType,
		RecordID:    recordID,
		PrevHash:    prevHash,
		RecordHash:  hash,
		CurrentHash: hash,
		BlockNumber: blockNumber,
		CreatedAt:   s.clock(),
	}
	if err := s.store.Append(ctx, a); err != nil {
		return Anchor{}, err
	}
	return a, nil
}

func (s *Service) publish(ctx context.Context, a Anchor) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishAnchor(ctx, a); err != nil {
		s.logger.WarnContext(ctx, "anchor publish failed",
			"record_type", a.RecordType,
			"record_id", a.RecordID,
			"error", err,
		)
	}
}

func (s *Service) typeLock(recordType string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[recordType]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[recordType] = lock
	}
	return lock
}
