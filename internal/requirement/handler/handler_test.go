package handler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"nachweis/internal/catalog"
	"nachweis/internal/requirement"
	"nachweis/internal/requirement/handler/mocks"
	dErrors "nachweis/pkg/domainerrors"
	"nachweis/pkg/testutil"
)

const warnWindow = 30 * 24 * time.Hour

type RequirementHandlerSuite struct {
	suite.Suite
	ctx   context.Context
	now   time.Time
	subID uuid.UUID
}

func TestRequirementHandlerSuite(t *testing.T) {
	suite.Run(t, new(RequirementHandlerSuite))
}

func (s *RequirementHandlerSuite) SetupSuite() {
	s.ctx = context.Background()
	s.now = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	s.subID = uuid.New()
}

func (s *RequirementHandlerSuite) newHandler(t *testing.T) (*mocks.MockService, chi.Router) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockService(ctrl)
	h := New(mockService, slog.New(slog.NewTextHandler(io.Discard, nil)))
	h.now = func() time.Time { return s.now }
	r := chi.NewRouter()
	h.Register(r)
	return mockService, r
}

func (s *RequirementHandlerSuite) sample(status requirement.Status) *requirement.Requirement {
	return &requirement.Requirement{
		ID:              uuid.New(),
		SubcontractorID: s.subID,
		TypeID:          "gewerbeanmeldung",
		Level:           catalog.LevelRequired,
		Status:          status,
		CreatedAt:       s.now,
		UpdatedAt:       s.now,
	}
}

func (s *RequirementHandlerSuite) uploadPath() string {
	return fmt.Sprintf("/subcontractors/%s/documents/gewerbeanmeldung/upload", s.subID)
}

func (s *RequirementHandlerSuite) TestHandleUpload() {
	s.T().Run("submits and returns the requirement", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		result := s.sample(requirement.StatusSubmitted)
		result.ArtifactRef = "s3://docs/gewerbe.pdf"
		mockService.EXPECT().
			Submit(gomock.Any(), s.subID, catalog.TypeID("gewerbeanmeldung"), nil, "s3://docs/gewerbe.pdf", "sub-user").
			Return(result, nil)
		mockService.EXPECT().WarnWindow().Return(warnWindow)

		req := testutil.NewJSONRequest(t, http.MethodPost, s.uploadPath(),
			UploadRequest{ArtifactRef: "s3://docs/gewerbe.pdf", Actor: "sub-user"})
		rr := testutil.DoRequest(router, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var got RequirementResponse
		testutil.DecodeJSON(t, rr, &got)
		assert.Equal(t, "submitted", got.Status)
		assert.Equal(t, "s3://docs/gewerbe.pdf", got.ArtifactRef)
	})

	s.T().Run("actor falls back to the request context", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().
			Submit(gomock.Any(), s.subID, catalog.TypeID("gewerbeanmeldung"), nil, "s3://docs/gewerbe.pdf", "proxy-user").
			Return(s.sample(requirement.StatusSubmitted), nil)
		mockService.EXPECT().WarnWindow().Return(warnWindow)

		req := testutil.NewJSONRequest(t, http.MethodPost, s.uploadPath(),
			UploadRequest{ArtifactRef: "s3://docs/gewerbe.pdf"})
		rr := testutil.DoRequest(router, testutil.WithActor(req, "proxy-user"))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	s.T().Run("returns 400 without artifact_ref", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		req := testutil.NewJSONRequest(t, http.MethodPost, s.uploadPath(), UploadRequest{Actor: "sub-user"})
		rr := testutil.DoRequest(router, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		var body map[string]string
		testutil.DecodeJSON(t, rr, &body)
		assert.Equal(t, string(dErrors.CodeValidation), body["error"])
	})

	s.T().Run("returns 400 on malformed JSON", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		req := testutil.NewRequestWithBody(t, http.MethodPost, s.uploadPath(), "{bad-json")
		rr := testutil.DoRequest(router, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	s.T().Run("returns 400 on a bad subcontractor id", func(t *testing.T) {
		_, router := s.newHandler(t)
		req := testutil.NewJSONRequest(t, http.MethodPost,
			"/subcontractors/not-a-uuid/documents/gewerbeanmeldung/upload",
			UploadRequest{ArtifactRef: "s3://docs/gewerbe.pdf"})
		rr := testutil.DoRequest(router, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	s.T().Run("maps unknown requirement to 404", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().
			Submit(gomock.Any(), s.subID, catalog.TypeID("gewerbeanmeldung"), nil, "s3://docs/gewerbe.pdf", "").
			Return(nil, dErrors.New(dErrors.CodeNotFound, "requirement not found"))

		req := testutil.NewJSONRequest(t, http.MethodPost, s.uploadPath(),
			UploadRequest{ArtifactRef: "s3://docs/gewerbe.pdf"})
		rr := testutil.DoRequest(router, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	s.T().Run("maps a refused transition to 409", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().
			Submit(gomock.Any(), s.subID, catalog.TypeID("gewerbeanmeldung"), nil, "s3://docs/gewerbe.pdf", "").
			Return(nil, dErrors.New(dErrors.CodeInvalidTransition, "cannot submit from status submitted"))

		req := testutil.NewJSONRequest(t, http.MethodPost, s.uploadPath(),
			UploadRequest{ArtifactRef: "s3://docs/gewerbe.pdf"})
		rr := testutil.DoRequest(router, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
		var body map[string]string
		testutil.DecodeJSON(t, rr, &body)
		assert.Equal(t, string(dErrors.CodeInvalidTransition), body["error"])
	})
}

func (s *RequirementHandlerSuite) TestHandleReview() {
	path := fmt.Sprintf("/subcontractors/%s/documents/gewerbeanmeldung/review", s.subID)

	s.T().Run("accepts with an explicit expiry", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		until := s.now.AddDate(1, 0, 0)
		result := s.sample(requirement.StatusAccepted)
		result.ValidUntil = &until
		mockService.EXPECT().
			Review(gomock.Any(), s.subID, catalog.TypeID("gewerbeanmeldung"), nil, requirement.ReviewDecision{
				Accept:     true,
				ValidUntil: &until,
				Reviewer:   "ops-admin",
			}).
			Return(result, nil)
		mockService.EXPECT().WarnWindow().Return(warnWindow)

		req := testutil.NewJSONRequest(t, http.MethodPost, path,
			ReviewRequest{Decision: "accept", ValidUntil: &until, Reviewer: "ops-admin"})
		rr := testutil.DoRequest(router, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var got RequirementResponse
		testutil.DecodeJSON(t, rr, &got)
		assert.Equal(t, "accepted", got.Status)
	})

	s.T().Run("rejects with a reason", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		result := s.sample(requirement.StatusRejected)
		result.RejectionReason = "document is illegible"
		mockService.EXPECT().
			Review(gomock.Any(), s.subID, catalog.TypeID("gewerbeanmeldung"), nil, requirement.ReviewDecision{
				Accept:   false,
				Reason:   "document is illegible",
				Reviewer: "ops-admin",
			}).
			Return(result, nil)
		mockService.EXPECT().WarnWindow().Return(warnWindow)

		req := testutil.NewJSONRequest(t, http.MethodPost, path,
			ReviewRequest{Decision: "reject", Reason: "document is illegible", Reviewer: "ops-admin"})
		rr := testutil.DoRequest(router, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	s.T().Run("returns 400 on an unknown decision", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().Review(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		req := testutil.NewJSONRequest(t, http.MethodPost, path, ReviewRequest{Decision: "maybe"})
		rr := testutil.DoRequest(router, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	s.T().Run("returns 400 when valid_until and never_expires collide", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().Review(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		until := s.now.AddDate(1, 0, 0)
		req := testutil.NewJSONRequest(t, http.MethodPost, path,
			ReviewRequest{Decision: "accept", ValidUntil: &until, NeverExpires: true})
		rr := testutil.DoRequest(router, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	s.T().Run("too short a rejection reason maps to 400", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().
			Review(gomock.Any(), s.subID, catalog.TypeID("gewerbeanmeldung"), nil, gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeValidation, "rejection reason must be at least 10 characters"))

		req := testutil.NewJSONRequest(t, http.MethodPost, path,
			ReviewRequest{Decision: "reject", Reason: "too short"})
		rr := testutil.DoRequest(router, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func (s *RequirementHandlerSuite) TestHandleReviewStartAndRerequest() {
	s.T().Run("review-start moves the document into review", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().
			StartReview(gomock.Any(), s.subID, catalog.TypeID("gewerbeanmeldung"), nil, "ops-admin").
			Return(s.sample(requirement.StatusInReview), nil)
		mockService.EXPECT().WarnWindow().Return(warnWindow)

		path := fmt.Sprintf("/subcontractors/%s/documents/gewerbeanmeldung/review-start", s.subID)
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, path, ActorRequest{Actor: "ops-admin"}))

		assert.Equal(t, http.StatusOK, rr.Code)
		var got RequirementResponse
		testutil.DecodeJSON(t, rr, &got)
		assert.Equal(t, "in_review", got.Status)
	})

	s.T().Run("rerequest resets the document", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().
			Rerequest(gomock.Any(), s.subID, catalog.TypeID("gewerbeanmeldung"), nil, "ops-admin").
			Return(s.sample(requirement.StatusMissing), nil)
		mockService.EXPECT().WarnWindow().Return(warnWindow)

		path := fmt.Sprintf("/subcontractors/%s/documents/gewerbeanmeldung/rerequest", s.subID)
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, path, ActorRequest{Actor: "ops-admin"}))

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func (s *RequirementHandlerSuite) TestHandleList() {
	s.T().Run("lists requirements with effective statuses", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		expired := s.sample(requirement.StatusAccepted)
		yesterday := s.now.Add(-24 * time.Hour)
		expired.ValidUntil = &yesterday
		mockService.EXPECT().
			List(gomock.Any(), s.subID, nil).
			Return([]*requirement.Requirement{s.sample(requirement.StatusMissing), expired}, nil)
		mockService.EXPECT().WarnWindow().Return(warnWindow)

		path := fmt.Sprintf("/subcontractors/%s/requirements", s.subID)
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, path, nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		var got ListResponse
		testutil.DecodeJSON(t, rr, &got)
		assert.Len(t, got.Requirements, 2)
		assert.Equal(t, "missing", got.Requirements[0].Status)
		assert.Equal(t, "expired", got.Requirements[1].Status, "expiry is applied at response time")
	})

	s.T().Run("passes the assignment filter through", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		assignmentID := uuid.New()
		mockService.EXPECT().
			List(gomock.Any(), s.subID, &assignmentID).
			Return(nil, nil)
		mockService.EXPECT().WarnWindow().Return(warnWindow)

		path := fmt.Sprintf("/subcontractors/%s/requirements?assignment=%s", s.subID, assignmentID)
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, path, nil))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	s.T().Run("returns 400 on a bad assignment id", func(t *testing.T) {
		_, router := s.newHandler(t)
		path := fmt.Sprintf("/subcontractors/%s/requirements?assignment=nope", s.subID)
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, path, nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func (s *RequirementHandlerSuite) TestHandleGet() {
	s.T().Run("returns one requirement", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		result := s.sample(requirement.StatusSubmitted)
		mockService.EXPECT().Get(gomock.Any(), result.ID).Return(result, nil)
		mockService.EXPECT().WarnWindow().Return(warnWindow)

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/requirements/"+result.ID.String(), nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		var got RequirementResponse
		testutil.DecodeJSON(t, rr, &got)
		assert.Equal(t, result.ID.String(), got.ID)
	})

	s.T().Run("returns 404 for an unknown id", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		id := uuid.New()
		mockService.EXPECT().Get(gomock.Any(), id).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "requirement not found"))

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/requirements/"+id.String(), nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
