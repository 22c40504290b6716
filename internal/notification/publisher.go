package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Publisher is the outbound port towards the notification collaborator.
// Delivery mechanics (mail, SMS) live behind it; the engine only emits
// requests.
type Publisher interface {
	Publish(ctx context.Context, req Request) error
}

// LogPublisher is the fallback sink when no broker is configured. Requests
// are logged and dropped.
type LogPublisher struct {
	Logger *slog.Logger
}

func (p *LogPublisher) Publish(ctx context.Context, req Request) error {
	p.Logger.InfoContext(ctx, "notification request",
		"kind", string(req.Kind),
		"subcontractor_id", req.SubcontractorID.String(),
		"document_types", len(req.DocumentTypeIDs),
	)
	return nil
}

// MemorySink records requests for tests.
type MemorySink struct {
	mu       sync.Mutex
	requests []Request
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Publish(_ context.Context, req Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.Timestamp.IsZero() {
		req.Timestamp = time.Now()
	}
	s.requests = append(s.requests, req)
	return nil
}

// Requests returns a copy of everything published so far.
func (s *MemorySink) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request{}, s.requests...)
}

// ByKind filters recorded requests.
func (s *MemorySink) ByKind(kind Kind) []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Request
	for _, r := range s.requests {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}
