package subcontractor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"nachweis/internal/catalog"
	"nachweis/internal/compliance"
	"nachweis/internal/profile"
	dErrors "nachweis/pkg/domainerrors"
	"nachweis/pkg/platform/sentinel"
)

// Requirements is the port towards the requirement service.
type Requirements interface {
	ApplyDerivation(ctx context.Context, subID uuid.UUID, p profile.Profile) error
	DeleteBySubcontractor(ctx context.Context, subID uuid.UUID) error
}

// ComplianceChecker recomputes the aggregate synchronously. Activation is a
// liability-bearing decision and never reads a cache.
type ComplianceChecker interface {
	Recompute(ctx context.Context, subID uuid.UUID) (compliance.Summary, error)
}

// Jobs is the port towards the reminder scheduler.
type Jobs interface {
	RetireForSubcontractor(ctx context.Context, subID uuid.UUID) error
}

// Service owns subcontractor accounts and the operations that fan out into
// the engine: profile updates re-derive requirements, deactivation retires
// reminder jobs, deletion cascades.
type Service struct {
	store        Store
	catalog      catalog.Store
	requirements Requirements
	compliance   ComplianceChecker
	jobs         Jobs
	logger       *slog.Logger
	now          func() time.Time
}

func NewService(store Store, cat catalog.Store, reqs Requirements, comp ComplianceChecker, jobs Jobs, logger *slog.Logger) *Service {
	return &Service{
		store:        store,
		catalog:      cat,
		requirements: reqs,
		compliance:   comp,
		jobs:         jobs,
		logger:       logger,
		now:          time.Now,
	}
}

// Create registers an account and seeds its requirements from the profile.
func (s *Service) Create(ctx context.Context, name string, p profile.Profile) (*Subcontractor, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "subcontractor name must not be empty")
	}
	sub := &Subcontractor{
		ID:        uuid.New(),
		Name:      name,
		Profile:   p,
		CreatedAt: s.now(),
	}
	if err := s.store.Save(ctx, sub); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save subcontractor")
	}
	if err := s.requirements.ApplyDerivation(ctx, sub.ID, p); err != nil {
		return nil, err
	}
	return sub, nil
}

// UpdateProfile replaces the organizational profile and synchronously
// re-derives requirement levels. This is the only way profiles change.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, p profile.Profile) (*Subcontractor, error) {
	sub, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	sub.Profile = p
	if err := s.store.Save(ctx, sub); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save subcontractor")
	}
	if err := s.requirements.ApplyDerivation(ctx, id, p); err != nil {
		return nil, err
	}
	return sub, nil
}

// Activate flips the account active, but only when the aggregate is
// Compliant at this very moment. The check recomputes synchronously.
func (s *Service) Activate(ctx context.Context, id uuid.UUID) (*Subcontractor, error) {
	sub, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	sum, err := s.compliance.Recompute(ctx, id)
	if err != nil {
		return nil, err
	}
	if sum.Status != compliance.Compliant {
		return nil, dErrors.Newf(dErrors.CodeValidation,
			"cannot activate: %d mandatory documents outstanding", len(sum.Missing))
	}
	sub.Active = true
	if err := s.store.Save(ctx, sub); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save subcontractor")
	}
	return sub, nil
}

// Deactivate retires all open reminder jobs before returning, so the next
// scheduler tick cannot send a reminder to the deactivated account.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) (*Subcontractor, error) {
	sub, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	sub.Active = false
	if err := s.store.Save(ctx, sub); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save subcontractor")
	}
	if err := s.jobs.RetireForSubcontractor(ctx, id); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "retire reminder jobs")
	}
	s.logger.InfoContext(ctx, "subcontractor deactivated", slog.String("subcontractor_id", id.String()))
	return sub, nil
}

// Delete removes the account and cascades requirements and jobs.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	if err := s.jobs.RetireForSubcontractor(ctx, id); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "retire reminder jobs")
	}
	if err := s.requirements.DeleteBySubcontractor(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "delete subcontractor")
	}
	s.logger.InfoContext(ctx, "subcontractor deleted", slog.String("subcontractor_id", id.String()))
	return nil
}

// AddCustomDocument registers an ad hoc document type for this account and
// seeds its requirement at the level fixed at creation time.
func (s *Service) AddCustomDocument(ctx context.Context, id uuid.UUID, docType catalog.DocumentType) error {
	sub, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	docType.Custom = true
	if docType.CustomLevel == catalog.LevelHidden {
		docType.CustomLevel = catalog.LevelRequired
	}
	if err := s.catalog.AddCustom(ctx, id, docType); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.Newf(dErrors.CodeConflict, "document type %q already exists", docType.ID)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "add custom document type")
	}
	return s.requirements.ApplyDerivation(ctx, id, sub.Profile)
}

// Get returns one account.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Subcontractor, error) {
	return s.get(ctx, id)
}

// List returns all accounts.
func (s *Service) List(ctx context.Context) ([]*Subcontractor, error) {
	subs, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list subcontractors")
	}
	return subs, nil
}

func (s *Service) get(ctx context.Context, id uuid.UUID) (*Subcontractor, error) {
	sub, err := s.store.Find(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "subcontractor not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "find subcontractor")
	}
	return sub, nil
}
