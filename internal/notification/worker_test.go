package notification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blockingPublisher struct {
	mu      sync.Mutex
	release chan struct{}
	seen    []Request
	err     error
}

func (p *blockingPublisher) Publish(_ context.Context, req Request) error {
	if p.release != nil {
		<-p.release
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seen = append(p.seen, req)
	return p.err
}

func (p *blockingPublisher) published() []Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Request{}, p.seen...)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWorkerDeliversEnqueuedRequests(t *testing.T) {
	pub := &blockingPublisher{}
	worker := NewWorker(pub, discard(), 8)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	subID := uuid.New()
	worker.Enqueue(Request{Kind: KindStatusChanged, SubcontractorID: subID})
	worker.Enqueue(Request{Kind: KindReminderMissing, SubcontractorID: subID})

	require.Eventually(t, func() bool {
		return len(pub.published()) == 2
	}, time.Second, 5*time.Millisecond)

	got := pub.published()
	assert.Equal(t, KindStatusChanged, got[0].Kind)
	assert.False(t, got[0].Timestamp.IsZero(), "enqueue stamps the request")

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWorkerDropsWhenInboxFull(t *testing.T) {
	// Not running the worker, so nothing drains the inbox.
	worker := NewWorker(&blockingPublisher{}, discard(), 2)

	subID := uuid.New()
	for range 5 {
		worker.Enqueue(Request{Kind: KindReminderMissing, SubcontractorID: subID})
	}

	assert.Len(t, worker.inbox, 2, "overflow is dropped, never blocks the caller")
}

func TestWorkerSurvivesPublishFailures(t *testing.T) {
	pub := &blockingPublisher{err: errors.New("broker down")}
	worker := NewWorker(pub, discard(), 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	worker.Enqueue(Request{Kind: KindEscalation, SubcontractorID: uuid.New()})
	worker.Enqueue(Request{Kind: KindEscalation, SubcontractorID: uuid.New()})

	require.Eventually(t, func() bool {
		return len(pub.published()) == 2
	}, time.Second, 5*time.Millisecond, "a failed publish does not stop the loop")
}

func TestMemorySinkFilters(t *testing.T) {
	sink := NewMemorySink()
	ctx := context.Background()
	subID := uuid.New()

	require.NoError(t, sink.Publish(ctx, Request{Kind: KindReminderMissing, SubcontractorID: subID}))
	require.NoError(t, sink.Publish(ctx, Request{Kind: KindEscalation, SubcontractorID: subID}))

	assert.Len(t, sink.Requests(), 2)
	assert.Len(t, sink.ByKind(KindEscalation), 1)
	assert.Empty(t, sink.ByKind(KindStatusChanged))
}
