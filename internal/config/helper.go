package config

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/leighmacdonald/rconwrap/internal/domain"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// decodeHook parses duration strings (1s,1m,1h) and comma separated lists into their real types.
func decodeHook() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
}

// setDefaultConfigValues registers everything except rcon.enable, rcon.port and rcon.password.
// Those must come from the operator, a missing value is a configuration bug.
func setDefaultConfigValues(v *viper.Viper) {
	defaultConfig := map[string]any{
		"language":             "en_us",
		"working_directory":    "server",
		"rcon.address":         "127.0.0.1",
		"rcon.driver":          "minecraft",
		"rcon.query_timeout":   "5s",
		"rcon.dial_timeout":    "5s",
		"http.host":            "127.0.0.1",
		"http.port":            6007,
		"http.mode":            domain.ReleaseMode,
		"http.cors_origins":    []string{},
		"http.pprof":           false,
		"http.prometheus":      true,
		"logging.level":        "info",
		"logging.file":         "",
		"logging.http_enabled": true,
		"logging.sentry_dsn":   "",
	}

	for configKey, value := range defaultConfig {
		v.SetDefault(configKey, value)
	}
}

func addConfigPaths(v *viper.Viper) {
	if home, errHomeDir := homedir.Dir(); errHomeDir == nil {
		v.AddConfigPath(home)
	}

	v.AddConfigPath(".")
	v.SetConfigName("rconwrap")
	v.SetConfigType("yml")
}
