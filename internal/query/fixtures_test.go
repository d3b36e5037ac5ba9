package query_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leighmacdonald/rconwrap/internal/health"
	"github.com/leighmacdonald/rconwrap/internal/metrics"
	"github.com/leighmacdonald/rconwrap/internal/query"
	"github.com/prometheus/client_golang/prometheus"
)

const testTimeout = 50 * time.Millisecond

var errClosed = errors.New("use of closed connection")

// scriptedConn answers every command unless hangs is positive, in which case that many upcoming
// sends never answer until the test ends.
type scriptedConn struct {
	mu           sync.Mutex
	connected    bool
	hangs        int
	sendErr      error
	reconnectErr error
	release      chan struct{}

	sends      atomic.Int32
	reconnects atomic.Int32
}

func newScriptedConn(t *testing.T, connected bool) *scriptedConn {
	t.Helper()

	conn := &scriptedConn{connected: connected, release: make(chan struct{})}
	t.Cleanup(func() { close(conn.release) })

	return conn
}

func (c *scriptedConn) Send(command string) (string, error) {
	c.sends.Add(1)

	c.mu.Lock()
	hang := c.hangs > 0
	if hang {
		c.hangs--
	}
	errSend := c.sendErr
	c.mu.Unlock()

	if hang {
		<-c.release

		return "", errClosed
	}

	if errSend != nil {
		return "", errSend
	}

	return "response: " + command, nil
}

func (c *scriptedConn) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.connected
}

func (c *scriptedConn) Reconnect(_ context.Context) error {
	c.reconnects.Add(1)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.reconnectErr != nil {
		c.connected = false

		return c.reconnectErr
	}

	c.connected = true

	return nil
}

type staticMatcher struct {
	match bool
	calls atomic.Int32
}

func (m *staticMatcher) ConfigsMatch() bool {
	m.calls.Add(1)

	return m.match
}

type testHost struct {
	language string
	reloads  atomic.Int32
}

func (h *testHost) RCONValues() map[string]any { return nil }
func (h *testHost) WorkingDirectory() string   { return "" }
func (h *testHost) Language() string           { return h.language }
func (h *testHost) Reload() error {
	h.reloads.Add(1)

	return nil
}

// recordHandler keeps every log record so tests can count warnings.
type recordHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (h *recordHandler) Handle(_ context.Context, record slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = append(h.records, record.Clone())

	return nil
}

func (h *recordHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }
func (h *recordHandler) WithGroup(_ string) slog.Handler      { return h }

func (h *recordHandler) count(level slog.Level, message string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	total := 0

	for _, record := range h.records {
		if record.Level == level && record.Message == message {
			total++
		}
	}

	return total
}

func captureLogs(t *testing.T) *recordHandler {
	t.Helper()

	handler := &recordHandler{}
	previous := slog.Default()
	slog.SetDefault(slog.New(handler))
	t.Cleanup(func() { slog.SetDefault(previous) })

	return handler
}

type fixture struct {
	conn      *scriptedConn
	matcher   *staticMatcher
	host      *testHost
	cache     *health.Cache
	collector *metrics.Collector
	executor  *query.Executor
}

func newFixture(t *testing.T, connected bool, match bool) *fixture {
	t.Helper()

	fix := &fixture{
		conn:      newScriptedConn(t, connected),
		matcher:   &staticMatcher{match: match},
		host:      &testHost{language: "en_us"},
		collector: metrics.NewCollector(prometheus.NewRegistry()),
	}

	fix.cache = health.NewCache(fix.conn, fix.matcher, fix.host, fix.collector)
	fix.executor = query.NewExecutor(fix.conn, fix.cache, fix.host, fix.collector, testTimeout)

	return fix
}
