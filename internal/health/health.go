// Package health caches whether the rcon channel is believed to be usable.
//
// Checking the cached flag is cheap. When the flag is false a full refresh runs, which only
// attempts to reconnect once the host and target configs agree.
package health

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/leighmacdonald/rconwrap/internal/domain"
	"github.com/leighmacdonald/rconwrap/internal/locale"
	"github.com/leighmacdonald/rconwrap/internal/metrics"
	"github.com/leighmacdonald/rconwrap/pkg/log"
	"golang.org/x/sync/singleflight"
)

const refreshKey = "refresh"

type Cache struct {
	conn    domain.Connection
	matcher domain.Matcher
	host    domain.HostConfig
	metrics *metrics.Collector

	healthy atomic.Bool
	group   singleflight.Group
}

func NewCache(conn domain.Connection, matcher domain.Matcher, host domain.HostConfig, collector *metrics.Collector) *Cache {
	return &Cache{
		conn:    conn,
		matcher: matcher,
		host:    host,
		metrics: collector,
	}
}

// Cached returns the flag without ever refreshing it.
func (c *Cache) Cached() bool {
	return c.healthy.Load()
}

// IsHealthy returns the cached flag when it is true and otherwise refreshes it.
func (c *Cache) IsHealthy(ctx context.Context) bool {
	if c.healthy.Load() {
		return true
	}

	return c.Refresh(ctx)
}

// Refresh runs the full probe and stores its result. Concurrent callers share a single probe,
// which outlives a cancelled caller so the others still get its result. The reconnect inside is
// bounded by the connection's own dial timeout. A caller whose ctx ends first gets false.
func (c *Cache) Refresh(ctx context.Context) bool {
	probeCtx := context.WithoutCancel(ctx)

	results := c.group.DoChan(refreshKey, func() (any, error) {
		healthy := c.probe(probeCtx)
		c.store(healthy)

		return healthy, nil
	})

	select {
	case result := <-results:
		healthy, _ := result.Val.(bool)

		return healthy
	case <-ctx.Done():
		return false
	}
}

func (c *Cache) store(healthy bool) {
	c.healthy.Store(healthy)
	c.metrics.Refresh(healthy)
}

// Invalidate clears the flag so the next IsHealthy call runs a full refresh. Used once a query
// has shown that the channel is gone.
func (c *Cache) Invalidate() {
	if c.healthy.Swap(false) {
		c.metrics.Refresh(false)
	}
}

func (c *Cache) probe(ctx context.Context) bool {
	if c.conn.Connected() {
		return true
	}

	if !c.matcher.ConfigsMatch() {
		slog.Error(locale.Get(c.language(), locale.ConfigMismatchFix))

		return false
	}

	c.reconnect(ctx, metrics.ReconnectRefresh)

	return c.conn.Connected()
}

// reconnect reloads the host config so a freshly applied fix is used, then reconnects.
func (c *Cache) reconnect(ctx context.Context, reason metrics.ReconnectReason) {
	if errReload := c.host.Reload(); errReload != nil {
		slog.Error("Failed to reload host config", log.ErrAttr(errReload))
	}

	c.metrics.Reconnect(reason)

	if errConnect := c.conn.Reconnect(ctx); errConnect != nil {
		slog.Warn("Failed to reconnect rcon", log.ErrAttr(errConnect))
	}
}

// Diagnose checks the channel and the configs and reports a verdict for the operator. A channel
// that is down while the configs agree gets one forced reconnect before giving up, and the
// flag is updated with its outcome.
func (c *Cache) Diagnose(ctx context.Context) domain.Verdict {
	lang := c.language()

	if c.conn.Connected() {
		if !c.matcher.ConfigsMatch() {
			slog.Warn(locale.Get(lang, locale.CheckMismatched))
			slog.Info(locale.Get(lang, locale.CheckMismatchedHint))

			return domain.VerdictMismatched
		}

		slog.Info(locale.Get(lang, locale.CheckFine))

		return domain.VerdictFine
	}

	if !c.matcher.ConfigsMatch() {
		slog.Error(locale.Get(lang, locale.CheckMisconfigured))

		return domain.VerdictMisconfigured
	}

	c.metrics.Reconnect(metrics.ReconnectManual)

	if errConnect := c.conn.Reconnect(ctx); errConnect != nil {
		slog.Warn("Failed to reconnect rcon", log.ErrAttr(errConnect))
	}

	connected := c.conn.Connected()
	c.store(connected)

	if !connected {
		slog.Error(locale.Get(lang, locale.CheckBroken))

		return domain.VerdictBroken
	}

	slog.Info(locale.Get(lang, locale.CheckFine))

	return domain.VerdictFine
}

func (c *Cache) language() locale.Language {
	return locale.Parse(c.host.Language())
}

// VerdictMessage is the operator message for verdict in lang.
func VerdictMessage(lang locale.Language, verdict domain.Verdict) string {
	switch verdict {
	case domain.VerdictFine:
		return locale.Get(lang, locale.CheckFine)
	case domain.VerdictMismatched:
		return locale.Get(lang, locale.CheckMismatched)
	case domain.VerdictMisconfigured:
		return locale.Get(lang, locale.CheckMisconfigured)
	default:
		return locale.Get(lang, locale.CheckBroken)
	}
}
