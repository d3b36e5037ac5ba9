package domain

import (
	"context"
	"fmt"
	"math"
	"strings"
)

const (
	minPort = 1
	maxPort = 65535
)

// ConfigSource selects which side of the channel an RconConfig is read from.
type ConfigSource string

const (
	// HostSide is the rcon section of our own host config store.
	HostSide ConfigSource = "host"
	// TargetSide is the server.properties file of the managed server process.
	TargetSide ConfigSource = "target"
)

func (s ConfigSource) String() string {
	return string(s)
}

func ParseConfigSource(value string) (ConfigSource, error) {
	switch ConfigSource(value) {
	case HostSide:
		return HostSide, nil
	case TargetSide:
		return TargetSide, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownSource, value)
	}
}

// RconConfig is the set of console credentials both sides must agree on.
// Values are only obtainable through NewRconConfig or RconConfigFromValues so
// every instance in circulation has been validated.
type RconConfig struct {
	enable   bool
	port     int
	password string
}

func NewRconConfig(enable bool, port int, password string) (RconConfig, error) {
	if port < minPort || port > maxPort {
		return RconConfig{}, fmt.Errorf("%w: port must be between %d and %d, got %d", ErrValidation, minPort, maxPort, port)
	}

	return RconConfig{enable: enable, port: port, password: password}, nil
}

// RconConfigFromValues builds a config out of loosely typed values such as the ones
// decoded from YAML. Missing keys and values of the wrong type are validation errors.
func RconConfigFromValues(values map[string]any) (RconConfig, error) {
	rawEnable, found := values["enable"]
	if !found {
		return RconConfig{}, fmt.Errorf("%w: enable is missing", ErrValidation)
	}

	enable, ok := rawEnable.(bool)
	if !ok {
		return RconConfig{}, fmt.Errorf("%w: enable must be a boolean, got %T", ErrValidation, rawEnable)
	}

	rawPort, found := values["port"]
	if !found {
		return RconConfig{}, fmt.Errorf("%w: port is missing", ErrValidation)
	}

	port, errPort := toInt(rawPort)
	if errPort != nil {
		return RconConfig{}, errPort
	}

	rawPassword, found := values["password"]
	if !found {
		return RconConfig{}, fmt.Errorf("%w: password is missing", ErrValidation)
	}

	password, ok := rawPassword.(string)
	if !ok {
		return RconConfig{}, fmt.Errorf("%w: password must be a string, got %T", ErrValidation, rawPassword)
	}

	return NewRconConfig(enable, port, password)
}

func toInt(value any) (int, error) {
	switch port := value.(type) {
	case int:
		return port, nil
	case int32:
		return int(port), nil
	case int64:
		if port > math.MaxInt32 || port < math.MinInt32 {
			return 0, fmt.Errorf("%w: port out of range, got %d", ErrValidation, port)
		}

		return int(port), nil
	case uint16:
		return int(port), nil
	case float64:
		// JSON config files decode every number as float64.
		if port != math.Trunc(port) || port > math.MaxInt32 || port < math.MinInt32 {
			return 0, fmt.Errorf("%w: port must be an integer, got %v", ErrValidation, port)
		}

		return int(port), nil
	default:
		return 0, fmt.Errorf("%w: port must be an integer, got %T", ErrValidation, value)
	}
}

func (c RconConfig) Enable() bool {
	return c.enable
}

func (c RconConfig) Port() int {
	return c.port
}

func (c RconConfig) Password() string {
	return c.password
}

// MaskedPassword is safe to print. Only the length of the password is revealed.
func (c RconConfig) MaskedPassword() string {
	return strings.Repeat("*", len(c.password))
}

// Equal reports whether both configs carry the same credentials.
func (c RconConfig) Equal(other RconConfig) bool {
	return c == other
}

// Connection is the live console channel owned by the host.
type Connection interface {
	// Send blocks until the server answers. It may never return.
	Send(command string) (string, error)
	Connected() bool
	Reconnect(ctx context.Context) error
}

// HostConfig is the host side config store.
type HostConfig interface {
	// RCONValues returns the raw, undecoded rcon section.
	RCONValues() map[string]any
	WorkingDirectory() string
	Language() string
	Reload() error
}

// Matcher reports whether host and target agree on the rcon credentials.
type Matcher interface {
	ConfigsMatch() bool
}
