package notification

import (
	"context"
	"log/slog"
	"time"
)

// Worker consumes notification requests from a channel and hands them to the
// publisher. Domain paths enqueue and move on: a transition is recorded
// before and independent of whether the notification send succeeds.
type Worker struct {
	publisher Publisher
	logger    *slog.Logger
	inbox     chan Request
}

// NewWorker sizes the inbox so short publisher outages do not block writers.
func NewWorker(publisher Publisher, logger *slog.Logger, buffer int) *Worker {
	if buffer <= 0 {
		buffer = 256
	}
	return &Worker{
		publisher: publisher,
		logger:    logger,
		inbox:     make(chan Request, buffer),
	}
}

// Enqueue hands off a request without blocking. When the inbox is full the
// request is dropped and logged; reminder jobs re-send on their own backoff,
// so a dropped routine notification is recoverable.
func (w *Worker) Enqueue(req Request) {
	if req.Timestamp.IsZero() {
		req.Timestamp = time.Now()
	}
	select {
	case w.inbox <- req:
	default:
		w.logger.Warn("notification inbox full, dropping request",
			"kind", string(req.Kind),
			"subcontractor_id", req.SubcontractorID.String(),
		)
	}
}

// Run drains the inbox until the context ends. Publish failures are logged,
// never propagated: the state machine has already committed.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-w.inbox:
			if err := w.publisher.Publish(ctx, req); err != nil {
				w.logger.ErrorContext(ctx, "notification publish failed",
					"kind", string(req.Kind),
					"subcontractor_id", req.SubcontractorID.String(),
					"error", err,
				)
			}
		}
	}
}
