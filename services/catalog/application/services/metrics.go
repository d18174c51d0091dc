package services

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/ghuser/nftcatalog/services/catalog"

// Metrics holds the catalog's OTel instruments. A nil *Metrics records nothing.
type Metrics struct {
	itemsCreated  metric.Int64Counter
	integrityGaps metric.Int64Counter
}

// NewMetrics registers the catalog instruments on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter(meterName)

	created, err := meter.Int64Counter("catalog.items.created",
		metric.WithDescription("Items persisted by the creation workflow"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, fmt.Errorf("items created counter: %w", err)
	}

	gaps, err := meter.Int64Counter("catalog.enrichment.integrity_gaps",
		metric.WithDescription("Listed items whose collection could not be resolved"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, fmt.Errorf("integrity gaps counter: %w", err)
	}

	return &Metrics{itemsCreated: created, integrityGaps: gaps}, nil
}

func (m *Metrics) itemCreated(ctx context.Context, tokenKind string) {
	if m == nil {
		return
	}
	m.itemsCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("token_kind", tokenKind)))
}

func (m *Metrics) integrityGap(ctx context.Context, collection string) {
	if m == nil {
		return
	}
	m.integrityGaps.Add(ctx, 1, metric.WithAttributes(attribute.String("collection", collection)))
}
