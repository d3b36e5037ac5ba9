// Package config implements the host side configuration store. It is backed by a viper instance
// reading rconwrap.yml and can be reloaded from disk at any time.
package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/leighmacdonald/rconwrap/internal/domain"
	"github.com/leighmacdonald/rconwrap/internal/locale"
	"github.com/leighmacdonald/rconwrap/pkg/log"
	"github.com/spf13/viper"
)

var rconCredentialKeys = []string{"enable", "port", "password"} //nolint:gochecknoglobals

type Configuration struct {
	mu            sync.RWMutex
	viper         *viper.Viper
	currentConfig domain.Config
	rconValues    map[string]any
}

// New creates a configuration store. When configFile is empty the default search
// paths ($HOME and the current directory) are used to find rconwrap.yml.
func New(configFile string) *Configuration {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		addConfigPaths(v)
	}

	v.SetEnvPrefix("rconwrap")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaultConfigValues(v)

	return &Configuration{viper: v, rconValues: map[string]any{}}
}

// Reload reads the config file from disk again and swaps in the new values.
// On failure the previously loaded values are kept.
func (c *Configuration) Reload() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if errRead := c.viper.ReadInConfig(); errRead != nil {
		return errors.Join(errRead, domain.ErrReadConfig)
	}

	var config domain.Config
	if errUnmarshal := c.viper.Unmarshal(&config, decodeHook()); errUnmarshal != nil {
		return errors.Join(errUnmarshal, domain.ErrFormatConfig)
	}

	config.Log.Level = log.ParseLevel(string(config.Log.Level))

	if config.RCON.QueryTimeout <= 0 {
		return fmt.Errorf("%w: rcon.query_timeout must be positive", domain.ErrFormatConfig)
	}

	if config.RCON.DialTimeout <= 0 {
		return fmt.Errorf("%w: rcon.dial_timeout must be positive", domain.ErrFormatConfig)
	}

	values := map[string]any{}

	for _, key := range rconCredentialKeys {
		if c.viper.IsSet("rcon." + key) {
			values[key] = c.viper.Get("rcon." + key)
		}
	}

	c.currentConfig = config
	c.rconValues = values

	return nil
}

// Config returns a copy of the currently loaded config.
func (c *Configuration) Config() domain.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.currentConfig
}

// RCONValues returns the raw rcon credential keys which are present in the config file.
func (c *Configuration) RCONValues() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	values := make(map[string]any, len(c.rconValues))
	for key, value := range c.rconValues {
		values[key] = value
	}

	return values
}

func (c *Configuration) WorkingDirectory() string {
	return c.Config().WorkingDirectory
}

func (c *Configuration) Language() string {
	return string(locale.Parse(c.Config().Language))
}

// File returns the path of the config file in use, if one has been found.
func (c *Configuration) File() string {
	return c.viper.ConfigFileUsed()
}
