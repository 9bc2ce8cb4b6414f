package event

import (
	"context"
	"time"

	"github.com/waypointlabs/prizehunt/internal/logger"
	"github.com/waypointlabs/prizehunt/internal/metrics"
)

// ResilientConfig configures the ResilientPublisher
type ResilientConfig struct {
	MaxRetries int
	RetryDelay time.Duration
	DeadLetter *DeadLetterWriter // nil disables dead-lettering
}

// ResilientPublisher wraps an Event Bus with background retries and a
// dead-letter file. Publish never returns an error to the caller: an event
// accepted here is retried asynchronously, and the caller's committed
// transaction must not roll back over a notification failure.
type ResilientPublisher struct {
	inner  Bus
	config ResilientConfig
}

// NewResilientPublisher creates a new ResilientPublisher
func NewResilientPublisher(inner Bus, config ResilientConfig) *ResilientPublisher {
	if config.MaxRetries <= 0 {
		config.MaxRetries = RetryMaxAttempts
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = RetryInitialDelay
	}
	return &ResilientPublisher{inner: inner, config: config}
}

// Publish attempts to publish an event, falling back to a background retry
// loop on failure.
func (p *ResilientPublisher) Publish(ctx context.Context, event Event) error {
	err := p.inner.Publish(ctx, event)
	if err == nil {
		metrics.EventsPublished.WithLabelValues(string(event.Type)).Inc()
		return nil
	}

	logger.FromContext(ctx).Warn(LogMsgEventPublishFailed,
		"event_type", event.Type,
		"error", err,
		"retries", p.config.MaxRetries)
	metrics.EventHandlerErrors.WithLabelValues(string(event.Type)).Inc()

	// Detached from the request context: the caller's request may finish
	// long before the retries do.
	go p.retryLoop(event, err)

	return nil
}

func (p *ResilientPublisher) retryLoop(event Event, lastErr error) {
	ctx := context.Background()

	for attempt := 1; attempt <= p.config.MaxRetries; attempt++ {
		time.Sleep(CalculateRetryDelay(p.config.RetryDelay, attempt))

		if err := p.inner.Publish(ctx, event); err != nil {
			lastErr = err
			metrics.EventHandlerErrors.WithLabelValues(string(event.Type)).Inc()
			continue
		}

		logger.Info(LogMsgEventRetrySucceeded, "event_type", event.Type, "attempt", attempt)
		metrics.EventsPublished.WithLabelValues(string(event.Type)).Inc()
		return
	}

	logger.Warn(LogMsgEventRetryExhausted, "event_type", event.Type, "error", lastErr)
	if p.config.DeadLetter != nil {
		if err := p.config.DeadLetter.Write(event, p.config.MaxRetries, lastErr); err != nil {
			logger.Error("Failed to write dead-letter entry", "event_type", event.Type, "error", err)
		}
	}
}

// Subscribe delegates to the inner bus
func (p *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	p.inner.Subscribe(eventType, handler)
}
