package requirement

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"nachweis/internal/catalog"
	"nachweis/internal/notification"
	"nachweis/internal/profile"
	"nachweis/internal/requirement/metrics"
	"nachweis/internal/rules"
	dErrors "nachweis/pkg/domainerrors"
	"nachweis/pkg/platform/sentinel"
)

// JobScheduler is the port towards the reminder scheduler. EnsureJob is
// called when a requirement becomes Missing or Rejected while Required;
// RetireForRequirement the moment its status leaves that set.
type JobScheduler interface {
	EnsureJob(ctx context.Context, r *Requirement) error
	RetireForRequirement(ctx context.Context, requirementID uuid.UUID) error
}

// StatusInvalidator drops the cached compliance aggregate. Called on every
// requirement mutation so no reader trusts a stale aggregate.
type StatusInvalidator interface {
	Invalidate(ctx context.Context, subID uuid.UUID) error
}

// Notifier accepts fire-and-forget notification requests.
type Notifier interface {
	Enqueue(req notification.Request)
}

// Service owns requirement writes: derivation seeding, lifecycle
// transitions, and the bookkeeping hooks (jobs, cache, notifications) that
// hang off them. A transition and its hooks never partially apply: the
// transition is validated in memory first and only persisted when legal.
type Service struct {
	store   Store
	catalog catalog.Store
	logger  *slog.Logger

	jobs        JobScheduler
	invalidator StatusInvalidator
	notifier    Notifier
	metrics     *metrics.Metrics

	warnWindow time.Duration
	dueWindow  time.Duration
	now        func() time.Time
}

// Option configures the Service.
type Option func(*Service)

func WithJobs(jobs JobScheduler) Option {
	return func(s *Service) { s.jobs = jobs }
}

func WithInvalidator(inv StatusInvalidator) Option {
	return func(s *Service) { s.invalidator = inv }
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithExpiryWarning overrides the default 30-day expiring window.
func WithExpiryWarning(d time.Duration) Option {
	return func(s *Service) { s.warnWindow = d }
}

// WithDueWindow overrides how far in the future new required documents are
// due.
func WithDueWindow(d time.Duration) Option {
	return func(s *Service) { s.dueWindow = d }
}

// WithClock injects a time source for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store Store, cat catalog.Store, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:      store,
		catalog:    cat,
		logger:     logger,
		warnWindow: 30 * 24 * time.Hour,
		dueWindow:  14 * 24 * time.Hour,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WarnWindow exposes the expiring window so read paths derive effective
// statuses the same way the write path does.
func (s *Service) WarnWindow() time.Duration { return s.warnWindow }

// ApplyDerivation reconciles stored requirements against a fresh rule run
// for the given profile. Idempotent: running it twice on an unchanged
// profile changes nothing. A profile change only ever touches level and the
// reminder bookkeeping hanging off it, never status, validUntil, history,
// or uploaded artifacts.
func (s *Service) ApplyDerivation(ctx context.Context, subID uuid.UUID, p profile.Profile) error {
	types, err := s.catalog.ForSubcontractor(ctx, subID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "load catalog")
	}
	levels := rules.Derive(p, types)
	s.metrics.IncDerivation()

	now := s.now()
	for _, t := range types {
		level := levels[t.ID]

		existing, err := s.store.FindByType(ctx, subID, t.ID, nil)
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			if level == catalog.LevelHidden {
				continue
			}
			if err := s.seedRequirement(ctx, subID, t.ID, level, now); err != nil {
				return err
			}
		case err != nil:
			return dErrors.Wrap(err, dErrors.CodeInternal, "find requirement")
		default:
			if existing.Level == level {
				continue
			}
			existing.Level = level
			existing.UpdatedAt = now
			if err := s.store.Save(ctx, existing); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "save requirement")
			}
			if err := s.reconcileJob(ctx, existing); err != nil {
				return err
			}
		}
	}

	if s.invalidator != nil {
		if err := s.invalidator.Invalidate(ctx, subID); err != nil {
			s.logger.WarnContext(ctx, "compliance cache invalidation failed",
				"subcontractor_id", subID.String(), "error", err)
		}
	}
	return nil
}

func (s *Service) seedRequirement(ctx context.Context, subID uuid.UUID, typeID catalog.TypeID, level catalog.RequirementLevel, now time.Time) error {
	r := &Requirement{
		ID:              uuid.New(),
		SubcontractorID: subID,
		TypeID:          typeID,
		Level:           level,
		Status:          StatusMissing,
		CreatedAt:       now,
	}
	if level == catalog.LevelRequired {
		due := now.Add(s.dueWindow)
		r.DueDate = &due
	}
	r.appendHistory(ActionRequested, "system", "requirement derived from profile", now)

	if err := s.store.Save(ctx, r); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "save requirement")
	}
	return s.reconcileJob(ctx, r)
}

// reconcileJob keeps the at-most-one-active-job invariant: a reminder job
// exists exactly while the requirement is Missing or Rejected and Required.
func (s *Service) reconcileJob(ctx context.Context, r *Requirement) error {
	if s.jobs == nil {
		return nil
	}
	needsReminder := r.Level == catalog.LevelRequired &&
		(r.Status == StatusMissing || r.Status == StatusRejected)
	if needsReminder {
		if err := s.jobs.EnsureJob(ctx, r); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "ensure reminder job")
		}
		return nil
	}
	if err := s.jobs.RetireForRequirement(ctx, r.ID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "retire reminder job")
	}
	return nil
}

// Submit handles an uploaded artifact from the upload collaborator.
func (s *Service) Submit(ctx context.Context, subID uuid.UUID, typeID catalog.TypeID, assignmentID *uuid.UUID, artifactRef, actor string) (*Requirement, error) {
	return s.transition(ctx, subID, typeID, assignmentID, string(ActionSubmitted), func(r *Requirement, _ catalog.DocumentType) error {
		return r.Submit(artifactRef, actor, s.now(), s.warnWindow)
	})
}

// StartReview acknowledges a submission. Safe to skip.
func (s *Service) StartReview(ctx context.Context, subID uuid.UUID, typeID catalog.TypeID, assignmentID *uuid.UUID, actor string) (*Requirement, error) {
	return s.transition(ctx, subID, typeID, assignmentID, string(ActionReviewStarted), func(r *Requirement, _ catalog.DocumentType) error {
		return r.StartReview(actor, s.now())
	})
}

// ReviewDecision is the admin collaborator's verdict on one document.
type ReviewDecision struct {
	Accept       bool
	ValidUntil   *time.Time
	NeverExpires bool
	Reason       string
	Reviewer     string
}

// Review applies an accept or reject decision.
func (s *Service) Review(ctx context.Context, subID uuid.UUID, typeID catalog.TypeID, assignmentID *uuid.UUID, decision ReviewDecision) (*Requirement, error) {
	action := string(ActionRejected)
	if decision.Accept {
		action = string(ActionAccepted)
	}
	return s.transition(ctx, subID, typeID, assignmentID, action, func(r *Requirement, docType catalog.DocumentType) error {
		if decision.Accept {
			return r.Accept(docType, AcceptParams{
				ValidUntil:   decision.ValidUntil,
				NeverExpires: decision.NeverExpires,
				Actor:        decision.Reviewer,
			}, s.now())
		}
		return r.Reject(decision.Reason, decision.Reviewer, s.now())
	})
}

// Rerequest sends a rejected document back to Missing.
func (s *Service) Rerequest(ctx context.Context, subID uuid.UUID, typeID catalog.TypeID, assignmentID *uuid.UUID, actor string) (*Requirement, error) {
	return s.transition(ctx, subID, typeID, assignmentID, string(ActionRerequested), func(r *Requirement, _ catalog.DocumentType) error {
		return r.Rerequest(actor, s.now())
	})
}

// transition loads, mutates, persists, and runs post-transition hooks. The
// mutation happens on a copy loaded from the store; a refused transition
// returns before any write, so nothing partial ever lands.
func (s *Service) transition(ctx context.Context, subID uuid.UUID, typeID catalog.TypeID, assignmentID *uuid.UUID, action string, mutate func(*Requirement, catalog.DocumentType) error) (*Requirement, error) {
	r, err := s.store.FindByType(ctx, subID, typeID, assignmentID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "no requirement for document type %q", typeID)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "find requirement")
	}

	docType, err := s.catalog.Find(ctx, typeID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "find document type")
	}

	if err := mutate(r, docType); err != nil {
		s.metrics.IncRefused(string(dErrors.CodeOf(err)))
		return nil, err
	}

	if err := s.store.Save(ctx, r); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save requirement")
	}
	s.metrics.IncTransition(action)

	if err := s.reconcileJob(ctx, r); err != nil {
		return nil, err
	}
	if s.invalidator != nil {
		if err := s.invalidator.Invalidate(ctx, subID); err != nil {
			s.logger.WarnContext(ctx, "compliance cache invalidation failed",
				"subcontractor_id", subID.String(), "error", err)
		}
	}
	if s.notifier != nil {
		s.notifier.Enqueue(notification.Request{
			Kind:            notification.KindStatusChanged,
			SubcontractorID: subID,
			DocumentTypeIDs: []catalog.TypeID{typeID},
		})
	}
	return r, nil
}

// Get returns one requirement by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Requirement, error) {
	r, err := s.store.Find(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "requirement not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "find requirement")
	}
	return r, nil
}

// List returns a subcontractor's requirements, optionally narrowed to one
// project assignment (unscoped instances are always included).
func (s *Service) List(ctx context.Context, subID uuid.UUID, assignmentID *uuid.UUID) ([]*Requirement, error) {
	all, err := s.store.ListBySubcontractor(ctx, subID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list requirements")
	}
	if assignmentID == nil {
		return all, nil
	}
	var out []*Requirement
	for _, r := range all {
		if r.AssignmentID == nil || *r.AssignmentID == *assignmentID {
			out = append(out, r)
		}
	}
	return out, nil
}

// DeleteBySubcontractor cascades a subcontractor deletion.
func (s *Service) DeleteBySubcontractor(ctx context.Context, subID uuid.UUID) error {
	if err := s.store.DeleteBySubcontractor(ctx, subID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "delete requirements")
	}
	if s.invalidator != nil {
		if err := s.invalidator.Invalidate(ctx, subID); err != nil {
			s.logger.WarnContext(ctx, "compliance cache invalidation failed",
				"subcontractor_id", subID.String(), "error", err)
		}
	}
	return nil
}
