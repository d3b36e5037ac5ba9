package domain

import (
	"fmt"
	"time"

	"github.com/leighmacdonald/rconwrap/pkg/log"
)

type RunMode string

const (
	// ReleaseMode is production mode, minimal logging.
	ReleaseMode RunMode = "release"
	// DebugMode has much more logging.
	DebugMode RunMode = "debug"
	// TestMode is for unit tests.
	TestMode RunMode = "test"
)

// String returns the string value of the RunMode.
func (rm RunMode) String() string {
	return string(rm)
}

// Config is the root config container
//
//	export RCONWRAP_RCON_PASSWORD=hunter2
//	./rconwrap serve
type Config struct {
	Language         string     `mapstructure:"language"`
	WorkingDirectory string     `mapstructure:"working_directory"`
	RCON             ConfigRCON `mapstructure:"rcon"`
	HTTP             ConfigHTTP `mapstructure:"http"`
	Log              ConfigLog  `mapstructure:"logging"`
}

// ConfigRCON holds the connection settings. The enable, port and password keys are
// decoded separately by RconConfigFromValues.
type ConfigRCON struct {
	Address      string        `mapstructure:"address"`
	Driver       string        `mapstructure:"driver"`
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
}

type ConfigHTTP struct {
	Host        string   `mapstructure:"host"`
	Port        int      `mapstructure:"port"`
	Mode        RunMode  `mapstructure:"mode"`
	CorsOrigins []string `mapstructure:"cors_origins"`
	PProf       bool     `mapstructure:"pprof"`
	Prometheus  bool     `mapstructure:"prometheus"`
}

// Addr returns the address in host:port format.
func (h ConfigHTTP) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

type ConfigLog struct {
	Level       log.Level `mapstructure:"level"`
	File        string    `mapstructure:"file"`
	HTTPEnabled bool      `mapstructure:"http_enabled"`
	SentryDSN   string    `mapstructure:"sentry_dsn"`
}
