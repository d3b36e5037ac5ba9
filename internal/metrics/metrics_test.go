package metrics_test

import (
	"testing"

	"github.com/leighmacdonald/rconwrap/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	collector.Query(metrics.OutcomeSuccess, 0.1)
	collector.Query(metrics.OutcomeTimeout, 10)
	collector.Timeout(1)
	collector.Timeout(2)
	collector.Reconnect(metrics.ReconnectRecover)
	collector.Refresh(true)

	require.InDelta(t, 1, testutil.ToFloat64(collector.QueryCounter.WithLabelValues("success")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(collector.TimeoutCounter.WithLabelValues("second")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(collector.ReconnectCounter.WithLabelValues("recover")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(collector.HealthyGauge), 0)

	collector.Refresh(false)
	require.InDelta(t, 0, testutil.ToFloat64(collector.HealthyGauge), 0)
}

func TestCollectorReusesRegistered(t *testing.T) {
	registry := prometheus.NewRegistry()
	first := metrics.NewCollector(registry)
	second := metrics.NewCollector(registry)

	first.Reconnect(metrics.ReconnectManual)
	second.Reconnect(metrics.ReconnectManual)

	require.InDelta(t, 2, testutil.ToFloat64(second.ReconnectCounter.WithLabelValues("manual")), 0)
}

func TestNilCollector(t *testing.T) {
	var collector *metrics.Collector

	require.NotPanics(t, func() {
		collector.Query(metrics.OutcomeAborted, 0)
		collector.Timeout(1)
		collector.Reconnect(metrics.ReconnectRefresh)
		collector.Refresh(true)
	})
}
