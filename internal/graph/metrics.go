package graph

import (
	"fmt"
	"time"

	"github.com/graphql-go/graphql"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	resolverTime metric.Int64Histogram
	bulkPatches  metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	resTime, err := meter.Int64Histogram("gql_query_time", metric.WithDescription("graphql gql query time"), metric.WithUnit("ms"))
	if err != nil {
		return nil, fmt.Errorf("failed to create gql_query_time histogram: %w", err)
	}

	bulkPatches, err := meter.Int64Counter("bulk_patches", metric.WithDescription("bulk patch requests sent to the backend"))
	if err != nil {
		return nil, fmt.Errorf("failed to create bulk_patches counter: %w", err)
	}

	return &Metrics{
		resolverTime: resTime,
		bulkPatches:  bulkPatches,
	}, nil
}

// Instrument wraps a resolver so its duration is recorded
func (m *Metrics) Instrument(object, field string, next graphql.FieldResolveFn) graphql.FieldResolveFn {
	if m == nil {
		return next
	}

	attrs := metric.WithAttributes(attribute.String("resolver", object+"/"+field))
	return func(p graphql.ResolveParams) (interface{}, error) {
		start := time.Now()
		res, err := next(p)
		m.resolverTime.Record(p.Context, time.Since(start).Milliseconds(), attrs)
		return res, err
	}
}

func (m *Metrics) bulkPatchSent(p graphql.ResolveParams, outcome string) {
	if m == nil {
		return
	}
	m.bulkPatches.Add(p.Context, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
