package compliance

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"nachweis/internal/catalog"
	"nachweis/internal/compliance/metrics"
	"nachweis/internal/requirement"
	dErrors "nachweis/pkg/domainerrors"
	"nachweis/pkg/platform/sentinel"
)

// RequirementReader is the slice of the requirement store the aggregator
// needs.
type RequirementReader interface {
	ListBySubcontractor(ctx context.Context, subID uuid.UUID) ([]*requirement.Requirement, error)
}

// Service computes and caches per-subcontractor compliance. The cache is a
// read optimization for dashboards only: decision-bearing paths
// (ValidateForProjectAssignment, activation checks) always recompute
// synchronously and never trust a cached value.
type Service struct {
	requirements RequirementReader
	cache        Cache
	logger       *slog.Logger
	metrics      *metrics.Metrics

	warnWindow time.Duration
	now        func() time.Time
}

// Option configures the Service.
type Option func(*Service)

func WithCache(c Cache) Option {
	return func(s *Service) { s.cache = c }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithExpiryWarning(d time.Duration) Option {
	return func(s *Service) { s.warnWindow = d }
}

// WithClock injects a time source for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(requirements RequirementReader, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		requirements: requirements,
		logger:       logger,
		warnWindow:   30 * 24 * time.Hour,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Status returns the aggregate, serving from cache when possible. Callers
// that make liability-bearing decisions must use Recompute or
// ValidateForProjectAssignment instead.
func (s *Service) Status(ctx context.Context, subID uuid.UUID) (Summary, error) {
	if s.cache != nil {
		sum, err := s.cache.Get(ctx, subID)
		switch {
		case err == nil:
			s.metrics.IncCacheHit()
			return sum, nil
		case !errors.Is(err, sentinel.ErrNotFound):
			s.logger.WarnContext(ctx, "compliance cache read failed",
				"subcontractor_id", subID.String(), "error", err)
		}
	}
	s.metrics.IncCacheMiss()
	return s.Recompute(ctx, subID)
}

// Recompute aggregates from the store and refreshes the cache.
func (s *Service) Recompute(ctx context.Context, subID uuid.UUID) (Summary, error) {
	reqs, err := s.requirements.ListBySubcontractor(ctx, subID)
	if err != nil {
		return Summary{}, dErrors.Wrap(err, dErrors.CodeInternal, "list requirements")
	}

	sum := Aggregate(reqs, s.now(), s.warnWindow)
	s.metrics.IncRecompute(sum.Status.String())

	if s.cache != nil {
		if err := s.cache.Set(ctx, subID, sum); err != nil {
			s.logger.WarnContext(ctx, "compliance cache write failed",
				"subcontractor_id", subID.String(), "error", err)
		}
	}
	return sum, nil
}

// Invalidate drops the cached aggregate. Called on every requirement
// mutation; failures are surfaced so the caller can log them, but the next
// read heals via TTL anyway.
func (s *Service) Invalidate(ctx context.Context, subID uuid.UUID) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, subID)
}

// AssignmentValidation is the answer to "may this subcontractor be put on a
// project right now".
type AssignmentValidation struct {
	Valid            bool
	MissingDocuments []catalog.TypeID
}

// ValidateForProjectAssignment recomputes synchronously. Assignment is a
// liability-bearing decision, so a cached aggregate is never good enough
// here.
func (s *Service) ValidateForProjectAssignment(ctx context.Context, subID uuid.UUID) (AssignmentValidation, error) {
	sum, err := s.Recompute(ctx, subID)
	if err != nil {
		return AssignmentValidation{}, err
	}
	return AssignmentValidation{
		Valid:            sum.Status == Compliant,
		MissingDocuments: sum.Missing,
	}, nil
}
