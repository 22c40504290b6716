// Package httptransport assembles the HTTP surface: middleware, feature
// handlers, health and metrics endpoints.
package httptransport

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	compliancehandler "nachweis/internal/compliance/handler"
	"nachweis/internal/platform/metrics"
	requirementhandler "nachweis/internal/requirement/handler"
	subcontractorhandler "nachweis/internal/subcontractor/handler"
	"nachweis/pkg/platform/httputil"
	"nachweis/pkg/requestcontext"
)

// Handlers groups the feature handlers the router mounts.
type Handlers struct {
	Subcontractors *subcontractorhandler.Handler
	Requirements   *requirementhandler.Handler
	Compliance     *compliancehandler.Handler
}

// NewRouter wires all public endpoints.
func NewRouter(h Handlers, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(requestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(m.Instrument)

	r.Get("/healthz", handleHealthz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	h.Subcontractors.Register(r)
	h.Requirements.Register(r)
	h.Compliance.Register(r)

	return r
}

// requestID assigns a correlation ID and pins the request time so every log
// line and lazy expiry check within one request agrees on "now".
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		ctx := requestcontext.WithRequestID(r.Context(), id)
		ctx = requestcontext.WithRequestTime(ctx, time.Now())
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
