package metrics

import (
	"errors"
	"log/slog"

	"github.com/leighmacdonald/rconwrap/pkg/log"
	"github.com/prometheus/client_golang/prometheus"
)

type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeAborted Outcome = "aborted"
	OutcomeTimeout Outcome = "timeout"
	OutcomeError   Outcome = "error"
)

type ReconnectReason string

const (
	ReconnectRefresh ReconnectReason = "refresh"
	ReconnectRecover ReconnectReason = "recover"
	ReconnectManual  ReconnectReason = "manual"
)

// Collector holds the rcon channel metrics. All methods are safe to call on a nil Collector.
type Collector struct {
	QueryCounter     *prometheus.CounterVec
	TimeoutCounter   *prometheus.CounterVec
	ReconnectCounter *prometheus.CounterVec
	RefreshCounter   *prometheus.CounterVec
	QueryDuration    prometheus.Histogram
	HealthyGauge     prometheus.Gauge
}

// NewCollector creates the collectors and registers them with registerer. Collectors that are
// already registered, e.g. by a previous instance, are reused.
func NewCollector(registerer prometheus.Registerer) *Collector {
	collector := &Collector{
		QueryCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "rconwrap_queries_total", Help: "Total rcon queries by terminal outcome"},
			[]string{"outcome"}),

		TimeoutCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "rconwrap_query_timeouts_total", Help: "Total rcon dispatch attempts that ran out of time"},
			[]string{"attempt"}),

		ReconnectCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "rconwrap_reconnects_total", Help: "Total rcon reconnect attempts"},
			[]string{"reason"}),

		RefreshCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "rconwrap_health_refresh_total", Help: "Total channel health refreshes by result"},
			[]string{"healthy"}),

		QueryDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{Name: "rconwrap_query_duration_seconds", Help: "Time until a query reached a terminal state"}),

		HealthyGauge: prometheus.NewGauge(
			prometheus.GaugeOpts{Name: "rconwrap_channel_healthy", Help: "Cached rcon channel usability, 1 when usable"}),
	}

	collector.QueryCounter = register(registerer, collector.QueryCounter)
	collector.TimeoutCounter = register(registerer, collector.TimeoutCounter)
	collector.ReconnectCounter = register(registerer, collector.ReconnectCounter)
	collector.RefreshCounter = register(registerer, collector.RefreshCounter)
	collector.QueryDuration = register(registerer, collector.QueryDuration)
	collector.HealthyGauge = register(registerer, collector.HealthyGauge)

	return collector
}

func register[T prometheus.Collector](registerer prometheus.Registerer, metric T) T { //nolint:ireturn
	if errRegister := registerer.Register(metric); errRegister != nil {
		var alreadyRegistered prometheus.AlreadyRegisteredError
		if errors.As(errRegister, &alreadyRegistered) {
			if existing, ok := alreadyRegistered.ExistingCollector.(T); ok {
				return existing
			}
		}

		slog.Error("Failed to register metric", log.ErrAttr(errRegister))
	}

	return metric
}

func (c *Collector) Query(outcome Outcome, seconds float64) {
	if c == nil {
		return
	}

	c.QueryCounter.With(prometheus.Labels{"outcome": string(outcome)}).Inc()
	c.QueryDuration.Observe(seconds)
}

func (c *Collector) Timeout(attempt int) {
	if c == nil {
		return
	}

	label := "first"
	if attempt > 1 {
		label = "second"
	}

	c.TimeoutCounter.With(prometheus.Labels{"attempt": label}).Inc()
}

func (c *Collector) Reconnect(reason ReconnectReason) {
	if c == nil {
		return
	}

	c.ReconnectCounter.With(prometheus.Labels{"reason": string(reason)}).Inc()
}

func (c *Collector) Refresh(healthy bool) {
	if c == nil {
		return
	}

	label := "false"
	value := 0.0

	if healthy {
		label = "true"
		value = 1
	}

	c.RefreshCounter.With(prometheus.Labels{"healthy": label}).Inc()
	c.HealthyGauge.Set(value)
}
