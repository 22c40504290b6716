package subcontractor

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"nachweis/internal/catalog"
	"nachweis/internal/compliance"
	"nachweis/internal/profile"
	dErrors "nachweis/pkg/domainerrors"
)

type fakeRequirements struct {
	derivations []uuid.UUID
	deleted     []uuid.UUID
}

func (f *fakeRequirements) ApplyDerivation(_ context.Context, subID uuid.UUID, _ profile.Profile) error {
	f.derivations = append(f.derivations, subID)
	return nil
}

func (f *fakeRequirements) DeleteBySubcontractor(_ context.Context, subID uuid.UUID) error {
	f.deleted = append(f.deleted, subID)
	return nil
}

type fakeCompliance struct {
	summary compliance.Summary
}

func (f *fakeCompliance) Recompute(context.Context, uuid.UUID) (compliance.Summary, error) {
	return f.summary, nil
}

type fakeJobs struct {
	retired []uuid.UUID
}

func (f *fakeJobs) RetireForSubcontractor(_ context.Context, subID uuid.UUID) error {
	f.retired = append(f.retired, subID)
	return nil
}

type SubcontractorServiceSuite struct {
	suite.Suite
	ctx context.Context

	store        *InMemoryStore
	requirements *fakeRequirements
	compliance   *fakeCompliance
	jobs         *fakeJobs
	service      *Service
}

func TestSubcontractorServiceSuite(t *testing.T) {
	suite.Run(t, new(SubcontractorServiceSuite))
}

func (s *SubcontractorServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemoryStore()
	s.requirements = &fakeRequirements{}
	s.compliance = &fakeCompliance{summary: compliance.Summary{Status: compliance.Compliant}}
	s.jobs = &fakeJobs{}

	cat, err := catalog.NewInMemoryStore(catalog.Default())
	s.Require().NoError(err)

	s.service = NewService(s.store, cat, s.requirements, s.compliance, s.jobs,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (s *SubcontractorServiceSuite) create() *Subcontractor {
	sub, err := s.service.Create(s.ctx, "Bau GmbH", profile.Profile{CompanyType: profile.ConstructionFirm})
	s.Require().NoError(err)
	return sub
}

func (s *SubcontractorServiceSuite) TestCreateSeedsRequirements() {
	sub := s.create()
	s.NotEqual(uuid.Nil, sub.ID)
	s.False(sub.Active, "new accounts start inactive")
	s.Equal([]uuid.UUID{sub.ID}, s.requirements.derivations)

	_, err := s.service.Create(s.ctx, "", profile.Profile{})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *SubcontractorServiceSuite) TestUpdateProfileRederives() {
	sub := s.create()

	p := profile.Profile{CompanyType: profile.ConstructionFirm, HasEmployees: profile.AnswerYes}
	updated, err := s.service.UpdateProfile(s.ctx, sub.ID, p)
	s.Require().NoError(err)
	s.Equal(profile.AnswerYes, updated.Profile.HasEmployees)
	s.Len(s.requirements.derivations, 2, "create and update each derive")
}

func (s *SubcontractorServiceSuite) TestActivateRequiresCompliance() {
	sub := s.create()

	s.Run("refused while non-compliant", func() {
		s.compliance.summary = compliance.Summary{
			Status:  compliance.NonCompliant,
			Missing: []catalog.TypeID{"soka-bau"},
		}
		_, err := s.service.Activate(s.ctx, sub.ID)
		s.Require().True(dErrors.HasCode(err, dErrors.CodeValidation))

		stored, findErr := s.store.Find(s.ctx, sub.ID)
		s.Require().NoError(findErr)
		s.False(stored.Active)
	})

	s.Run("refused while expiring soon", func() {
		s.compliance.summary = compliance.Summary{Status: compliance.ExpiringSoon}
		_, err := s.service.Activate(s.ctx, sub.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("allowed when compliant", func() {
		s.compliance.summary = compliance.Summary{Status: compliance.Compliant}
		activated, err := s.service.Activate(s.ctx, sub.ID)
		s.Require().NoError(err)
		s.True(activated.Active)
	})
}

func (s *SubcontractorServiceSuite) TestDeactivateRetiresJobs() {
	sub := s.create()
	s.compliance.summary = compliance.Summary{Status: compliance.Compliant}
	_, err := s.service.Activate(s.ctx, sub.ID)
	s.Require().NoError(err)

	deactivated, err := s.service.Deactivate(s.ctx, sub.ID)
	s.Require().NoError(err)
	s.False(deactivated.Active)
	s.Equal([]uuid.UUID{sub.ID}, s.jobs.retired, "jobs retired before the call returns")
}

func (s *SubcontractorServiceSuite) TestDeleteCascades() {
	sub := s.create()

	s.Require().NoError(s.service.Delete(s.ctx, sub.ID))
	s.Equal([]uuid.UUID{sub.ID}, s.jobs.retired)
	s.Equal([]uuid.UUID{sub.ID}, s.requirements.deleted)

	_, err := s.service.Get(s.ctx, sub.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *SubcontractorServiceSuite) TestAddCustomDocument() {
	sub := s.create()

	docType := catalog.DocumentType{ID: "site-safety", Name: "Site safety certificate"}
	s.Require().NoError(s.service.AddCustomDocument(s.ctx, sub.ID, docType))
	s.Len(s.requirements.derivations, 2, "adding a document re-derives")

	err := s.service.AddCustomDocument(s.ctx, sub.ID, docType)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict), "duplicate type IDs are refused")
}

func (s *SubcontractorServiceSuite) TestGetUnknown() {
	_, err := s.service.Get(s.ctx, uuid.New())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
