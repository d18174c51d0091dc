// Package events is the catalog's outbox and event bus, built on Watermill's
// PostgreSQL transport.
//
// Writers publish inside the transaction that changes the catalog (PublishTx),
// so an event exists only if its row does. In forwarder mode the message lands
// on an internal queue first and a Forwarder daemon relays it to the real
// topic. The worker consumes with one consumer group per service, so each
// event is handled by a single worker instance.
//
// A bus only accepts the topics it was built with; anything else is
// ErrUnknownTopic. Handlers must be idempotent: a failing handler is retried
// with exponential backoff, then Nacked for redelivery.
package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/nftcatalog/pkg/config"
	"github.com/ghuser/nftcatalog/pkg/logger"
)

const (
	maxRetries      = 3
	retryBaseDelay  = time.Second
	shutdownTimeout = 30 * time.Second
	forwarderTopic  = "_catalog_outbox"
	errBuffer       = 100
)

// ErrUnknownTopic is returned when publishing or subscribing to a topic the bus
// was not built for.
var ErrUnknownTopic = errors.New("events: unknown topic")

// EventBus publishes and consumes catalog events over PostgreSQL.
type EventBus struct {
	subscriber   *watermillsql.Subscriber
	fwd          *forwarder.Forwarder
	db           *sql.DB
	log          logger.Logger
	topics       []string
	group        string
	wg           sync.WaitGroup
	useForwarder bool
}

// NewEventBus opens the catalog database and builds a bus that publishes
// directly to topics. Used by the worker, which only consumes.
func NewEventBus(cfg *config.Config, log logger.Logger, topics ...string) (*EventBus, error) {
	return newEventBus(cfg, log, false, topics)
}

// NewEventBusWithForwarder builds a bus whose publishes go through the
// outbox queue. Call StartForwarder to begin relaying.
func NewEventBusWithForwarder(cfg *config.Config, log logger.Logger, topics ...string) (*EventBus, error) {
	return newEventBus(cfg, log, true, topics)
}

func newEventBus(cfg *config.Config, log logger.Logger, useForwarder bool, topics []string) (*EventBus, error) {
	if len(topics) == 0 {
		return nil, errors.New("events: at least one topic is required")
	}
	db, err := sql.Open("pgx", cfg.CatalogDatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("events: open db: %w", err)
	}

	bus := &EventBus{
		db:           db,
		log:          log,
		topics:       slices.Clone(topics),
		group:        consumerGroup(cfg.ServiceName),
		useForwarder: useForwarder,
	}

	bus.subscriber, err = bus.sqlSubscriber(bus.group)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return bus, nil
}

func consumerGroup(service string) string {
	if service == "" {
		service = "nftcatalog"
	}
	return service + "-worker"
}

func (q *EventBus) sqlPublisher(db watermillsql.ContextExecutor, initSchema bool) (*watermillsql.Publisher, error) {
	pub, err := watermillsql.NewPublisher(db, watermillsql.PublisherConfig{
		SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
		AutoInitializeSchema: initSchema,
	}, newLogAdapter(q.log))
	if err != nil {
		return nil, fmt.Errorf("events: new publisher: %w", err)
	}
	return pub, nil
}

func (q *EventBus) sqlSubscriber(group string) (*watermillsql.Subscriber, error) {
	sub, err := watermillsql.NewSubscriber(q.db, watermillsql.SubscriberConfig{
		SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
		ConsumerGroup:    group,
	}, newLogAdapter(q.log))
	if err != nil {
		return nil, fmt.Errorf("events: new subscriber: %w", err)
	}
	return sub, nil
}

// wrap routes pub through the outbox queue in forwarder mode.
func (q *EventBus) wrap(pub message.Publisher) message.Publisher {
	if !q.useForwarder {
		return pub
	}
	return forwarder.NewPublisher(pub, forwarder.PublisherConfig{ForwarderTopic: forwarderTopic})
}

func (q *EventBus) checkTopic(topic string) error {
	if !slices.Contains(q.topics, topic) {
		return fmt.Errorf("%w: %q", ErrUnknownTopic, topic)
	}
	return nil
}

// Topics returns the topics this bus serves.
func (q *EventBus) Topics() []string {
	return slices.Clone(q.topics)
}

// StartForwarder starts relaying outbox messages to their topics. It returns
// once the relay is running. Only valid on a bus from NewEventBusWithForwarder.
func (q *EventBus) StartForwarder(ctx context.Context) error {
	if !q.useForwarder {
		return errors.New("events: StartForwarder called on non-forwarder EventBus")
	}
	if q.fwd != nil {
		return errors.New("events: forwarder already started")
	}

	fwdSub, err := q.sqlSubscriber(q.group + "-outbox")
	if err != nil {
		return err
	}
	targetPub, err := q.sqlPublisher(q.db, true)
	if err != nil {
		_ = fwdSub.Close()
		return err
	}
	fwd, err := forwarder.NewForwarder(fwdSub, targetPub, newLogAdapter(q.log), forwarder.Config{
		ForwarderTopic: forwarderTopic,
	})
	if err != nil {
		_ = targetPub.Close()
		_ = fwdSub.Close()
		return fmt.Errorf("events: create forwarder: %w", err)
	}
	q.fwd = fwd

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		q.log.InfoContext(ctx, "events: outbox relay started", "topics", q.topics)
		if err := fwd.Run(ctx); err != nil {
			q.log.ErrorContext(ctx, "events: outbox relay stopped with error", "error", err)
			return
		}
		q.log.InfoContext(ctx, "events: outbox relay stopped")
	}()

	select {
	case <-fwd.Running():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("events: context cancelled waiting for forwarder: %w", ctx.Err())
	}
}

// Ping checks the bus database connection.
func (q *EventBus) Ping(ctx context.Context) error {
	if err := q.db.PingContext(ctx); err != nil {
		return fmt.Errorf("events: ping db: %w", err)
	}
	return nil
}

// Close stops consuming, stops the relay, waits up to 30s for in-flight
// handlers, then closes the database.
func (q *EventBus) Close() error {
	if err := q.subscriber.Close(); err != nil {
		return fmt.Errorf("events: close subscriber: %w", err)
	}
	if q.fwd != nil {
		if err := q.fwd.Close(); err != nil {
			return fmt.Errorf("events: close forwarder: %w", err)
		}
	}

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		q.log.Error("events: timed out waiting for in-flight handlers")
	}

	return q.db.Close()
}
