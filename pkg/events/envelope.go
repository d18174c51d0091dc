package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// Metadata keys set on every catalog event.
const (
	MetaEventID      = "event_id"
	MetaEventVersion = "event_version"
)

// NewEnvelope encodes payload as JSON into a message keyed by eventID. The
// event ID doubles as the Watermill message UUID so consumers can deduplicate
// redeliveries. The trace context of ctx travels in the metadata.
func NewEnvelope(ctx context.Context, eventID uuid.UUID, version int, payload any) (*message.Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("events: encode payload: %w", err)
	}
	msg := message.NewMessage(eventID.String(), raw)
	msg.Metadata.Set(MetaEventID, eventID.String())
	msg.Metadata.Set(MetaEventVersion, strconv.Itoa(version))
	injectTrace(ctx, msg)
	return msg, nil
}

// EnvelopeVersion reads the schema version of msg, or 0 when absent.
func EnvelopeVersion(msg *message.Message) int {
	v, err := strconv.Atoi(msg.Metadata.Get(MetaEventVersion))
	if err != nil {
		return 0
	}
	return v
}

// PublishTx publishes msgs on topic inside tx, so they are committed or
// rolled back together with the caller's writes.
func (q *EventBus) PublishTx(ctx context.Context, tx *sql.Tx, topic string, msgs ...*message.Message) error {
	if err := q.checkTopic(topic); err != nil {
		return err
	}
	pub, err := q.sqlPublisher(tx, false)
	if err != nil {
		return err
	}
	for _, msg := range msgs {
		injectTrace(ctx, msg)
	}
	if err := q.wrap(pub).Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	return nil
}

func injectTrace(ctx context.Context, msg *message.Message) {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for k, v := range carrier {
		msg.Metadata.Set(k, v)
	}
}

func extractTrace(ctx context.Context, msg *message.Message) context.Context {
	carrier := propagation.MapCarrier{}
	for k, v := range msg.Metadata {
		carrier[k] = v
	}
	return otel.GetTextMapPropagator().Extract(ctx, carrier)
}
