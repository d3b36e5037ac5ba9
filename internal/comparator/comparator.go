// Package comparator checks that the rcon credentials known to the host agree with the ones
// the target server process was actually started with.
package comparator

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/leighmacdonald/rconwrap/internal/domain"
	"github.com/leighmacdonald/rconwrap/pkg/log"
)

var errReadPanic = errors.New("panic while reading rcon config")

type Comparator struct {
	host domain.HostConfig
}

func New(host domain.HostConfig) *Comparator {
	return &Comparator{host: host}
}

// Comparison is the detailed result of reading both sides.
type Comparison struct {
	Host      domain.RconConfig
	HostErr   error
	Target    domain.RconConfig
	TargetErr error
	Match     bool
}

// ReadConfig reads the credentials from a single source. Host side problems are always
// domain.ErrValidation, a missing or unreadable server.properties is domain.ErrNotFound.
func (c *Comparator) ReadConfig(source domain.ConfigSource) (domain.RconConfig, error) {
	switch source {
	case domain.HostSide:
		return domain.RconConfigFromValues(c.host.RCONValues())
	case domain.TargetSide:
		return readTargetConfig(c.host.WorkingDirectory(), c.host.Language())
	default:
		return domain.RconConfig{}, fmt.Errorf("%w: %s", domain.ErrUnknownSource, source)
	}
}

// Compare reads both sides and never fails, errors are returned as part of the result.
func (c *Comparator) Compare() Comparison {
	var result Comparison

	result.Host, result.HostErr = c.safeRead(domain.HostSide)
	result.Target, result.TargetErr = c.safeRead(domain.TargetSide)
	result.Match = result.HostErr == nil && result.TargetErr == nil && result.Host.Equal(result.Target)

	return result
}

// ConfigsMatch is true only when both sides could be read and are equal.
func (c *Comparator) ConfigsMatch() bool {
	result := c.Compare()

	for _, errRead := range []error{result.HostErr, result.TargetErr} {
		if errRead != nil {
			slog.Error("Error while getting rcon config", log.ErrAttr(errRead))
		}
	}

	return result.Match
}

func (c *Comparator) safeRead(source domain.ConfigSource) (config domain.RconConfig, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			config = domain.RconConfig{}
			err = fmt.Errorf("%w: %s: %v", errReadPanic, source, recovered)
		}
	}()

	return c.ReadConfig(source)
}
