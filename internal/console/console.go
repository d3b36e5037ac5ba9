// Package console owns the live rcon connection of the host.
package console

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strconv"
	"sync"

	"github.com/leighmacdonald/rconwrap/internal/domain"
	"github.com/leighmacdonald/rconwrap/pkg/log"
)

// Settings is the subset of the host config store the console dials with.
type Settings interface {
	Config() domain.Config
	RCONValues() map[string]any
}

type Console struct {
	settings Settings
	// newDriver is swapped out by tests.
	newDriver func(name string) (Driver, error)

	dialMu  sync.Mutex
	mu      sync.Mutex
	current *link
}

// link pairs a session with the lock serializing commands on it. The protocol carries
// no request ids, so only one command may be in flight per session.
type link struct {
	session Session
	execMu  sync.Mutex
}

func New(settings Settings) *Console {
	return &Console{settings: settings, newDriver: NewDriver}
}

// NewWithDriver creates a console that always uses driver regardless of the configured one.
func NewWithDriver(settings Settings, driver Driver) *Console {
	return &Console{
		settings: settings,
		newDriver: func(_ string) (Driver, error) {
			return driver, nil
		},
	}
}

// Send runs the command on the current session, one command at a time. The console lock is
// not held while waiting for the server, so a concurrent Reconnect can close a stalled
// session out from under it. Senders queued behind a replaced session move to the new one.
func (c *Console) Send(command string) (string, error) {
	for {
		current := c.currentLink()
		if current == nil {
			return "", domain.ErrNotConnected
		}

		current.execMu.Lock()

		if c.currentLink() != current {
			current.execMu.Unlock()

			continue
		}

		resp, errExec := current.session.Exec(command)
		current.execMu.Unlock()

		if errExec != nil {
			c.drop(current)

			return "", errExec
		}

		return resp, nil
	}
}

func (c *Console) currentLink() *link {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.current
}

func (c *Console) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.current != nil
}

// Reconnect closes any existing session and dials a new one with the current host config.
func (c *Console) Reconnect(ctx context.Context) error {
	c.dialMu.Lock()
	defer c.dialMu.Unlock()

	c.swap(nil)

	creds, errCreds := domain.RconConfigFromValues(c.settings.RCONValues())
	if errCreds != nil {
		return errCreds
	}

	if !creds.Enable() {
		return domain.ErrRCONDisabled
	}

	conf := c.settings.Config()

	driver, errDriver := c.newDriver(conf.RCON.Driver)
	if errDriver != nil {
		return errDriver
	}

	addr := net.JoinHostPort(conf.RCON.Address, strconv.Itoa(creds.Port()))

	session, errDial := driver.Dial(ctx, addr, creds.Password(), conf.RCON.DialTimeout)
	if errDial != nil {
		slog.Warn("Failed to connect to rcon", slog.String("addr", addr), log.ErrAttr(errDial))

		return errors.Join(errDial, domain.ErrDialRCON)
	}

	c.swap(&link{session: session})

	slog.Info("Connected to rcon", slog.String("addr", addr), slog.String("driver", conf.RCON.Driver))

	return nil
}

// Close shuts down the current session if there is one.
func (c *Console) Close() error {
	c.swap(nil)

	return nil
}

func (c *Console) swap(next *link) {
	c.mu.Lock()
	previous := c.current
	c.current = next
	c.mu.Unlock()

	if previous != nil {
		if errClose := previous.session.Close(); errClose != nil {
			slog.Debug("Failed to close previous rcon session", log.ErrAttr(errClose))
		}
	}
}

// drop forgets the link if it is still the current one, its session failed and cannot be reused.
func (c *Console) drop(failed *link) {
	c.mu.Lock()
	if c.current != failed {
		c.mu.Unlock()

		return
	}

	c.current = nil
	c.mu.Unlock()

	if errClose := failed.session.Close(); errClose != nil {
		slog.Debug("Failed to close broken rcon session", log.ErrAttr(errClose))
	}
}
