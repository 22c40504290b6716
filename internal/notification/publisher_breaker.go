package notification

import (
	"context"
	"log/slog"

	"nachweis/pkg/platform/circuit"
)

// BreakerPublisher guards a broker-backed publisher with a circuit breaker.
// While the circuit is open, requests go to the fallback instead of piling
// timeouts onto a broker that is already down; reminder jobs re-send on
// their own backoff, so nothing is lost permanently.
type BreakerPublisher struct {
	primary  Publisher
	fallback Publisher
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

func NewBreakerPublisher(primary, fallback Publisher, logger *slog.Logger) *BreakerPublisher {
	return &BreakerPublisher{
		primary:  primary,
		fallback: fallback,
		breaker:  circuit.New("notification-publisher", circuit.WithFailureThreshold(5), circuit.WithSuccessThreshold(2)),
		logger:   logger,
	}
}

func (p *BreakerPublisher) Publish(ctx context.Context, req Request) error {
	if p.breaker.IsOpen() {
		// Probe the primary so the breaker can close again once the broker
		// recovers.
		if err := p.primary.Publish(ctx, req); err == nil {
			if usePrimary, change := p.breaker.RecordSuccess(); usePrimary && change.Closed {
				p.logger.InfoContext(ctx, "notification publisher recovered, circuit closed")
			}
			return nil
		}
		p.breaker.RecordFailure()
		return p.fallback.Publish(ctx, req)
	}

	err := p.primary.Publish(ctx, req)
	if err == nil {
		p.breaker.RecordSuccess()
		return nil
	}
	if useFallback, change := p.breaker.RecordFailure(); useFallback {
		if change.Opened {
			p.logger.WarnContext(ctx, "notification publisher failing, circuit opened", "error", err)
		}
		return p.fallback.Publish(ctx, req)
	}
	return err
}
