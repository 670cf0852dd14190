package test

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	api "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// NullLogger returns a logger that discards output, and a hook recording every entry
func NullLogger(t *testing.T) (*logrus.Entry, *logtest.Hook) {
	t.Helper()

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger.WithField("test", t.Name()), hook
}

// Meter returns a meter backed by a manual reader, and the reader so tests can collect what was recorded
func Meter(t *testing.T) (api.Meter, *metric.ManualReader) {
	t.Helper()

	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	return provider.Meter("github.com/secassets/inventory-backend"), reader
}

// ErrorsCounter returns an errors counter that is not exported anywhere
func ErrorsCounter(t *testing.T) api.Int64Counter {
	t.Helper()

	meter, _ := Meter(t)
	errors, err := meter.Int64Counter("errors")
	if err != nil {
		t.Fatalf("creating errors counter: %v", err)
	}
	return errors
}

// CounterValue returns the sum of all data points recorded for the named int64 counter
func CounterValue(t *testing.T, reader *metric.ManualReader, name string) int64 {
	t.Helper()

	rm := metricdata.ResourceMetrics{}
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collecting metrics: %v", err)
	}

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}
