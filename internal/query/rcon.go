// Package query implements running rcon commands with a bounded wait and a single
// reconnect-and-retry when the channel silently stops answering.
package query

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/leighmacdonald/rconwrap/internal/domain"
	"github.com/leighmacdonald/rconwrap/internal/health"
	"github.com/leighmacdonald/rconwrap/internal/locale"
	"github.com/leighmacdonald/rconwrap/internal/metrics"
	"github.com/leighmacdonald/rconwrap/pkg/log"
)

const DefaultTimeout = 5 * time.Second

var errDeadline = errors.New("rcon response deadline exceeded")

type response struct {
	body string
	err  error
	// reconnectErr is set when the retry could not reopen the connection and never resent.
	reconnectErr error
}

type Executor struct {
	conn    domain.Connection
	cache   *health.Cache
	host    domain.HostConfig
	metrics *metrics.Collector
	timeout time.Duration
}

func NewExecutor(conn domain.Connection, cache *health.Cache, host domain.HostConfig,
	collector *metrics.Collector, timeout time.Duration,
) *Executor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Executor{
		conn:    conn,
		cache:   cache,
		host:    host,
		metrics: collector,
		timeout: timeout,
	}
}

// Query runs command once the channel is believed healthy. ok is false with a nil error when the
// channel is unusable and the query was skipped. A command left unanswered after one reconnect
// returns a *domain.TimeoutError.
func (e *Executor) Query(ctx context.Context, command string) (string, bool, error) {
	if strings.TrimSpace(command) == "" {
		return "", false, domain.ErrEmptyCommand
	}

	start := time.Now()

	if !e.cache.IsHealthy(ctx) {
		slog.Warn("Rcon channel is unusable, skipped query", slog.String("command", command))
		e.metrics.Query(metrics.OutcomeAborted, time.Since(start).Seconds())

		return "", false, nil
	}

	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	res, errWait := await(ctx, e.dispatch(command), timer)
	if errWait == nil {
		return e.finish(start, res)
	}

	if !errors.Is(errWait, errDeadline) {
		e.metrics.Query(metrics.OutcomeError, time.Since(start).Seconds())

		return "", false, errWait
	}

	lang := e.language()

	e.metrics.Timeout(1)
	slog.Warn(locale.Get(lang, locale.QueryTimeoutRetry), slog.String("command", command))

	// The reconnect and the second attempt share one more window of the same length.
	timer.Reset(e.timeout)

	retryCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	res, errWait = await(ctx, e.retry(retryCtx, command), timer)
	if errWait == nil {
		if res.reconnectErr != nil {
			return e.fatal(start, lang, command, res.reconnectErr)
		}

		return e.finish(start, res)
	}

	if !errors.Is(errWait, errDeadline) {
		e.metrics.Query(metrics.OutcomeError, time.Since(start).Seconds())

		return "", false, errWait
	}

	e.metrics.Timeout(2)

	return e.fatal(start, lang, command, nil)
}

// fatal ends a query that could not be recovered. cause is the reconnect error, if any.
func (e *Executor) fatal(start time.Time, lang locale.Language, command string, cause error) (string, bool, error) {
	e.metrics.Query(metrics.OutcomeTimeout, time.Since(start).Seconds())
	e.cache.Invalidate()

	message := locale.Get(lang, locale.QueryTimeoutFatal)
	if cause != nil {
		slog.Error(message, slog.String("command", command), log.ErrAttr(cause))
	} else {
		slog.Error(message, slog.String("command", command))
	}

	return "", false, &domain.TimeoutError{Command: command, Message: message, Cause: cause}
}

// Builtin sends command straight to the connection, bypassing the health cache and the recovery
// logic. It still gives up after a single timeout window.
func (e *Executor) Builtin(ctx context.Context, command string) (string, error) {
	if strings.TrimSpace(command) == "" {
		return "", domain.ErrEmptyCommand
	}

	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	res, errWait := await(ctx, e.dispatch(command), timer)
	if errWait != nil {
		if errors.Is(errWait, errDeadline) {
			return "", &domain.TimeoutError{Command: command, Message: locale.Get(e.language(), locale.QueryTimeoutFatal)}
		}

		return "", errWait
	}

	if res.err != nil {
		return "", errors.Join(res.err, domain.ErrCommandFailed)
	}

	return res.body, nil
}

// Reconnect forces a new connection using the freshly reloaded host config, ignoring the cached
// health flag, then refreshes the flag.
func (e *Executor) Reconnect(ctx context.Context) error {
	if errReload := e.host.Reload(); errReload != nil {
		slog.Error("Failed to reload host config", log.ErrAttr(errReload))
	}

	e.metrics.Reconnect(metrics.ReconnectManual)

	errConnect := e.conn.Reconnect(ctx)

	e.cache.Refresh(ctx)

	return errConnect
}

func (e *Executor) dispatch(command string) <-chan response {
	results := make(chan response, 1)

	go func() {
		body, err := e.conn.Send(command)
		results <- response{body: body, err: err}
	}()

	return results
}

// retry reconnects and sends command again on a new worker. The answer of the abandoned first
// attempt is never read. Nothing is resent when the reconnect fails.
func (e *Executor) retry(ctx context.Context, command string) <-chan response {
	results := make(chan response, 1)

	go func() {
		e.metrics.Reconnect(metrics.ReconnectRecover)

		if errConnect := e.conn.Reconnect(ctx); errConnect != nil {
			results <- response{reconnectErr: errConnect}

			return
		}

		body, err := e.conn.Send(command)
		results <- response{body: body, err: err}
	}()

	return results
}

func (e *Executor) finish(start time.Time, res response) (string, bool, error) {
	if res.err != nil {
		e.metrics.Query(metrics.OutcomeError, time.Since(start).Seconds())

		if !e.conn.Connected() {
			e.cache.Invalidate()
		}

		return "", false, errors.Join(res.err, domain.ErrCommandFailed)
	}

	e.metrics.Query(metrics.OutcomeSuccess, time.Since(start).Seconds())

	return res.body, true, nil
}

func (e *Executor) language() locale.Language {
	return locale.Parse(e.host.Language())
}

func await(ctx context.Context, results <-chan response, timer *time.Timer) (response, error) {
	select {
	case res := <-results:
		return res, nil
	case <-timer.C:
		return response{}, errDeadline
	case <-ctx.Done():
		return response{}, ctx.Err()
	}
}
