package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leighmacdonald/rconwrap/internal/config"
	"github.com/leighmacdonald/rconwrap/internal/domain"
	"github.com/leighmacdonald/rconwrap/pkg/log"
	"github.com/stretchr/testify/require"
)

const fullConfig = `
language: zh_cn
working_directory: /srv/minecraft
rcon:
  enable: true
  port: 25575
  password: hunter2
  driver: source
  query_timeout: 2s
http:
  port: 7000
logging:
  level: WARN
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "rconwrap.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestReload(t *testing.T) {
	path := writeConfig(t, fullConfig)
	conf := config.New(path)
	require.NoError(t, conf.Reload())

	current := conf.Config()
	require.Equal(t, "/srv/minecraft", conf.WorkingDirectory())
	require.Equal(t, "zh_cn", conf.Language())
	require.Equal(t, "source", current.RCON.Driver)
	require.Equal(t, "127.0.0.1", current.RCON.Address)
	require.Equal(t, 2*time.Second, current.RCON.QueryTimeout)
	require.Equal(t, 5*time.Second, current.RCON.DialTimeout)
	require.Equal(t, 7000, current.HTTP.Port)
	require.Equal(t, domain.ReleaseMode, current.HTTP.Mode)
	require.Equal(t, path, conf.File())
	require.Equal(t, log.Warn, current.Log.Level)

	values := conf.RCONValues()
	require.Equal(t, true, values["enable"])
	require.Equal(t, 25575, values["port"])
	require.Equal(t, "hunter2", values["password"])

	rconConfig, errRcon := domain.RconConfigFromValues(values)
	require.NoError(t, errRcon)
	require.Equal(t, 25575, rconConfig.Port())
}

func TestReloadPicksUpChanges(t *testing.T) {
	path := writeConfig(t, fullConfig)
	conf := config.New(path)
	require.NoError(t, conf.Reload())

	require.NoError(t, os.WriteFile(path, []byte("rcon:\n  enable: false\n  port: 25576\n  password: x\n"), 0o600))
	require.NoError(t, conf.Reload())

	values := conf.RCONValues()
	require.Equal(t, false, values["enable"])
	require.Equal(t, 25576, values["port"])
	require.Equal(t, "en_us", conf.Language())
}

func TestReloadMissingCredentials(t *testing.T) {
	conf := config.New(writeConfig(t, "rcon:\n  port: 25575\n"))
	require.NoError(t, conf.Reload())

	values := conf.RCONValues()
	require.NotContains(t, values, "enable")
	require.NotContains(t, values, "password")

	_, errRcon := domain.RconConfigFromValues(values)
	require.ErrorIs(t, errRcon, domain.ErrValidation)
}

func TestReloadErrors(t *testing.T) {
	conf := config.New(filepath.Join(t.TempDir(), "missing.yml"))
	require.ErrorIs(t, conf.Reload(), domain.ErrReadConfig)

	conf = config.New(writeConfig(t, "rcon:\n  query_timeout: 0s\n"))
	require.ErrorIs(t, conf.Reload(), domain.ErrFormatConfig)
}

func TestReloadEnvOverride(t *testing.T) {
	t.Setenv("RCONWRAP_RCON_PASSWORD", "from-env")

	conf := config.New(writeConfig(t, fullConfig))
	require.NoError(t, conf.Reload())
	require.Equal(t, "from-env", conf.RCONValues()["password"])

	t.Setenv("RCONWRAP_RCON_PORT", "25575")
	require.NoError(t, conf.Reload())

	_, errRcon := domain.RconConfigFromValues(conf.RCONValues())
	require.ErrorIs(t, errRcon, domain.ErrValidation)
}

func TestReloadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rconwrap.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"rcon": {"enable": true, "port": 25575, "password": "hunter2"}}`), 0o600))

	conf := config.New(path)
	require.NoError(t, conf.Reload())

	rconConfig, errRcon := domain.RconConfigFromValues(conf.RCONValues())
	require.NoError(t, errRcon)
	require.Equal(t, 25575, rconConfig.Port())
}
