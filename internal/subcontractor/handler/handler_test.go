package handler

import (
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
	"nachweis/internal/profile"
	"nachweis/internal/subcontractor"
	"nachweis/internal/subcontractor/handler/mocks"
	dErrors "nachweis/pkg/domainerrors"
	"nachweis/pkg/testutil"
)

type SubcontractorHandlerSuite struct {
	suite.Suite
}

func TestSubcontractorHandlerSuite(t *testing.T) {
	suite.Run(t, new(SubcontractorHandlerSuite))
}

func (s *SubcontractorHandlerSuite) newHandler(t *testing.T) (*mocks.MockService, chi.Router) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockService(ctrl)
	h := New(mockService, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.Register(r)
	return mockService, r
}

func sample(name string) *subcontractor.Subcontractor {
	return &subcontractor.Subcontractor{
		ID:        uuid.New(),
		Name:      name,
		Profile:   profile.Profile{CompanyType: profile.ConstructionFirm},
		CreatedAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
}

func (s *SubcontractorHandlerSuite) TestHandleCreate() {
	validBody := CreateRequest{
		Name: "Bau GmbH",
		Profile: ProfilePayload{
			CompanyType:          "construction_firm",
			HasEmployees:         profile.AnswerYes,
			DoesConstructionWork: profile.AnswerYes,
		},
	}

	s.T().Run("creates and returns 201", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().
			Create(gomock.Any(), "Bau GmbH", profile.Profile{
				CompanyType:          profile.ConstructionFirm,
				HasEmployees:         profile.AnswerYes,
				DoesConstructionWork: profile.AnswerYes,
			}).
			Return(sample("Bau GmbH"), nil)

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/subcontractors", validBody))

		assert.Equal(t, http.StatusCreated, rr.Code)
		var got SubcontractorResponse
		testutil.DecodeJSON(t, rr, &got)
		assert.Equal(t, "Bau GmbH", got.Name)
		assert.False(t, got.Active)
	})

	s.T().Run("returns 400 without a name", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		body := validBody
		body.Name = "   "
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/subcontractors", body))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		var errBody map[string]string
		testutil.DecodeJSON(t, rr, &errBody)
		assert.Equal(t, string(dErrors.CodeValidation), errBody["error"])
	})

	s.T().Run("returns 400 on an unknown company type", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		body := validBody
		body.Profile.CompanyType = "bakery"
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/subcontractors", body))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	s.T().Run("returns 400 on malformed JSON", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodPost, "/subcontractors", "{bad-json"))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func (s *SubcontractorHandlerSuite) TestHandleActivate() {
	s.T().Run("activates a compliant account", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		sub := sample("Bau GmbH")
		sub.Active = true
		mockService.EXPECT().Activate(gomock.Any(), sub.ID).Return(sub, nil)

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost,
			"/subcontractors/"+sub.ID.String()+"/activate", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		var got SubcontractorResponse
		testutil.DecodeJSON(t, rr, &got)
		assert.True(t, got.Active)
	})

	s.T().Run("maps an outstanding-documents refusal to 400", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		id := uuid.New()
		mockService.EXPECT().Activate(gomock.Any(), id).
			Return(nil, dErrors.New(dErrors.CodeValidation, "cannot activate: 3 mandatory documents outstanding"))

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost,
			"/subcontractors/"+id.String()+"/activate", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		var errBody map[string]string
		testutil.DecodeJSON(t, rr, &errBody)
		assert.Contains(t, errBody["error_description"], "mandatory documents outstanding")
	})

	s.T().Run("returns 400 on a bad id", func(t *testing.T) {
		_, router := s.newHandler(t)
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost,
			"/subcontractors/nope/activate", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func (s *SubcontractorHandlerSuite) TestHandleDelete() {
	s.T().Run("deletes and returns 204", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		id := uuid.New()
		mockService.EXPECT().Delete(gomock.Any(), id).Return(nil)

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodDelete,
			"/subcontractors/"+id.String(), nil))

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.String())
	})

	s.T().Run("returns 404 for an unknown account", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		id := uuid.New()
		mockService.EXPECT().Delete(gomock.Any(), id).
			Return(dErrors.New(dErrors.CodeNotFound, "subcontractor not found"))

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodDelete,
			"/subcontractors/"+id.String(), nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func (s *SubcontractorHandlerSuite) TestHandleAddDocument() {
	body := AddDocumentRequest{
		ID:       "site-safety",
		Name:     "Site safety certificate",
		Required: true,
	}

	s.T().Run("adds a custom document type", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		id := uuid.New()
		mockService.EXPECT().
			AddCustomDocument(gomock.Any(), id, gomock.Cond(func(dt catalog.DocumentType) bool {
				return dt.ID == "site-safety" && dt.Custom && dt.CustomLevel == catalog.LevelRequired
			})).
			Return(nil)

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost,
			"/subcontractors/"+id.String()+"/documents", body))

		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	s.T().Run("maps a duplicate type to 409", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		id := uuid.New()
		mockService.EXPECT().AddCustomDocument(gomock.Any(), id, gomock.Any()).
			Return(dErrors.New(dErrors.CodeConflict, `document type "site-safety" already exists`))

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost,
			"/subcontractors/"+id.String()+"/documents", body))

		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func (s *SubcontractorHandlerSuite) TestHandleListAndGet() {
	s.T().Run("lists all accounts", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		mockService.EXPECT().List(gomock.Any()).
			Return([]*subcontractor.Subcontractor{sample("Bau GmbH"), sample("Elektro Meier")}, nil)

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/subcontractors", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		var got ListResponse
		testutil.DecodeJSON(t, rr, &got)
		assert.Len(t, got.Subcontractors, 2)
	})

	s.T().Run("returns 404 for an unknown account", func(t *testing.T) {
		mockService, router := s.newHandler(t)
		id := uuid.New()
		mockService.EXPECT().Get(gomock.Any(), id).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "subcontractor not found"))

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet,
			"/subcontractors/"+id.String(), nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
