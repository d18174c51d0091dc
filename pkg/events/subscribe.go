package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/nftcatalog/pkg/logger"
)

// Handler processes one event. The context carries the publisher's trace.
type Handler func(ctx context.Context, msg *message.Message) error

// Subscribe consumes topic in the background and returns a channel of handler
// failures that exhausted their retries. Callers must drain it; when it is
// full further failures are only logged. Close waits for in-flight handlers.
func (q *EventBus) Subscribe(ctx context.Context, topic string, handler Handler) (<-chan error, error) {
	if err := q.checkTopic(topic); err != nil {
		return nil, err
	}
	ch, err := q.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe to %s: %w", topic, err)
	}

	errCh := make(chan error, errBuffer)
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		defer close(errCh)
		for msg := range ch {
			q.deliver(extractTrace(ctx, msg), topic, msg, handler, errCh)
		}
	}()
	return errCh, nil
}

func (q *EventBus) deliver(ctx context.Context, topic string, msg *message.Message, handler Handler, errCh chan<- error) {
	log := q.log.With("topic", topic, MetaEventID, msg.Metadata.Get(MetaEventID))
	err := retryWithBackoff(ctx, msg, handler, maxRetries, retryBaseDelay, log)
	if err == nil {
		msg.Ack()
		return
	}
	msg.Nack()
	select {
	case errCh <- fmt.Errorf("%s %s: %w", topic, msg.UUID, err):
	default:
		log.ErrorContext(ctx, "events: error channel full, dropping error", "error", err)
	}
}

// retryWithBackoff calls handler up to attempts times, doubling the delay
// after each failure. It returns nil on the first success.
func retryWithBackoff(
	ctx context.Context,
	msg *message.Message,
	handler Handler,
	attempts int,
	delay time.Duration,
	log logger.Logger,
) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = handler(ctx, msg); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		log.WarnContext(ctx, "events: handler failed, retrying",
			"attempt", attempt, "next_delay", delay, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("events: handler failed after %d attempts: %w", attempts, err)
}
