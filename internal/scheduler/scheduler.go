package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"nachweis/internal/catalog"
	"nachweis/internal/notification"
	"nachweis/internal/requirement"
	"nachweis/internal/scheduler/metrics"
	"nachweis/pkg/platform/sentinel"
)

const defaultBatchSize = 100

// Scheduler owns due-date-driven follow-ups: it creates reminder jobs when
// documents go missing, sweeps due jobs on a ticker, and escalates jobs
// whose reminders keep going unanswered.
//
// Sends go through the publisher synchronously so an attempt only counts
// when the claim succeeded; overlapping ticks lose the conditional claim and
// skip, never double-send.
type Scheduler struct {
	store     Store
	publisher notification.Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics

	interval    time.Duration
	backoff     Backoff
	maxAttempts int
	limiter     *rate.Limiter
	now         func() time.Time
}

// Option configures the Scheduler.
type Option func(*Scheduler)

// WithInterval sets the sweep cadence.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) { s.interval = d }
}

// WithBackoff sets the reschedule policy.
func WithBackoff(b Backoff) Option {
	return func(s *Scheduler) { s.backoff = b }
}

// WithMaxAttempts sets the attempt count at which jobs escalate.
func WithMaxAttempts(n int) Option {
	return func(s *Scheduler) { s.maxAttempts = n }
}

// WithSendRate caps outbound notifications per second.
func WithSendRate(perSecond float64) Option {
	return func(s *Scheduler) { s.limiter = rate.NewLimiter(rate.Limit(perSecond), 1) }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// WithClock injects a time source for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

func New(store Store, publisher notification.Publisher, logger *slog.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:       store,
		publisher:   publisher,
		logger:      logger,
		interval:    time.Minute,
		backoff:     FixedBackoff(24 * time.Hour),
		maxAttempts: 5,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureJob creates a reminder job for the requirement, reusing the active
// one when it exists. Implements the requirement service's JobScheduler
// port; called when a requirement becomes Missing or Rejected while
// Required.
func (s *Scheduler) EnsureJob(ctx context.Context, r *requirement.Requirement) error {
	existing, err := s.store.FindActiveByRequirement(ctx, r.ID)
	if err == nil && existing.Active() {
		return nil
	}
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return err
	}

	now := s.now()
	job := &Job{
		ID:              uuid.New(),
		RequirementID:   r.ID,
		SubcontractorID: r.SubcontractorID,
		TypeID:          r.TypeID,
		State:           StateScheduled,
		NextRunAt:       now,
		MaxAttempts:     s.maxAttempts,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return s.store.Save(ctx, job)
}

// RetireForRequirement retires the requirement's active job. Implements the
// requirement service's JobScheduler port.
func (s *Scheduler) RetireForRequirement(ctx context.Context, requirementID uuid.UUID) error {
	return s.store.RetireByRequirement(ctx, requirementID)
}

// RetireForSubcontractor synchronously retires every open job for the
// subcontractor. Deactivation calls this before returning so the very next
// tick cannot send one more reminder to a deactivated account.
func (s *Scheduler) RetireForSubcontractor(ctx context.Context, subID uuid.UUID) error {
	return s.store.RetireBySubcontractor(ctx, subID)
}

// Tick claims and advances every due job. Returns how many jobs this tick
// actually processed; jobs lost to a concurrent tick's claim are skipped
// and not counted.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) (int, error) {
	due, err := s.store.ListDue(ctx, now, defaultBatchSize)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, job := range due {
		claimed, err := s.store.Claim(ctx, job.ID, job.Attempts, now)
		if errors.Is(err, sentinel.ErrConflict) || errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.IncClaimConflict()
			continue
		}
		if err != nil {
			return processed, err
		}

		if err := s.advance(ctx, claimed, now); err != nil {
			s.logger.ErrorContext(ctx, "reminder job advance failed",
				"job_id", claimed.ID.String(), "error", err)
			continue
		}
		processed++
	}
	return processed, nil
}

// advance sends for a claimed job and reschedules it. The job is already
// exclusively owned here.
func (s *Scheduler) advance(ctx context.Context, job *Job, now time.Time) error {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	kind := notification.KindReminderMissing
	escalating := job.Attempts+1 >= job.MaxAttempts && !job.Escalated
	if escalating {
		kind = notification.KindEscalation
	}

	err := s.publisher.Publish(ctx, notification.Request{
		Kind:            kind,
		SubcontractorID: job.SubcontractorID,
		DocumentTypeIDs: []catalog.TypeID{job.TypeID},
		Timestamp:       now,
	})
	if err != nil {
		// The reminder did not go out: hand the job back unchanged and
		// let its own backoff retry it. Attempts only count sends.
		s.metrics.IncSendFailure()
		s.logger.ErrorContext(ctx, "reminder send failed",
			"job_id", job.ID.String(), "error", err)
		job.State = StateScheduled
		job.NextRunAt = now.Add(s.backoff(job.Attempts))
		job.UpdatedAt = now
		return s.release(ctx, job)
	}

	job.Attempts++
	job.UpdatedAt = now
	if escalating {
		job.Escalated = true
		job.State = StateEscalated
		s.metrics.IncEscalation()
	} else {
		job.State = StateScheduled
		job.NextRunAt = now.Add(s.backoff(job.Attempts))
		s.metrics.IncReminder()
	}
	return s.release(ctx, job)
}

// release hands a claimed job back to the store. Losing the conditional
// write means a retire landed while the send was in flight; the job must
// stay Done, so the reschedule is dropped.
func (s *Scheduler) release(ctx context.Context, job *Job) error {
	err := s.store.Release(ctx, job)
	if errors.Is(err, sentinel.ErrConflict) {
		s.logger.InfoContext(ctx, "reminder job retired mid-send, dropping reschedule",
			"job_id", job.ID.String())
		return nil
	}
	return err
}

// Run sweeps on a ticker until the context ends.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.Tick(ctx, s.now()); err != nil {
				s.logger.ErrorContext(ctx, "scheduler tick failed", "error", err)
			}
		}
	}
}
