package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/leighmacdonald/rconwrap/internal/comparator"
	"github.com/leighmacdonald/rconwrap/internal/domain"
	"github.com/leighmacdonald/rconwrap/internal/locale"
	"github.com/stretchr/testify/require"
)

func TestRenderCheckConfig(t *testing.T) {
	host, errHost := domain.NewRconConfig(true, 25575, "hunter2")
	require.NoError(t, errHost)

	var out bytes.Buffer

	require.NoError(t, renderCheckConfig(&out, locale.English, domain.VerdictMisconfigured, comparator.Comparison{
		Host:      host,
		TargetErr: errors.Join(errors.New("open server.properties: no such file"), domain.ErrNotFound),
	}))

	text := out.String()
	require.Contains(t, text, "25575")
	require.Contains(t, text, "*******")
	require.NotContains(t, text, "hunter2")
	require.Contains(t, text, "no such file")
	require.Contains(t, text, "misconfigured: "+locale.Get(locale.English, locale.CheckMisconfigured))
}

func TestPrintResult(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, printResult(&out)(t.Context(), "There are 0 of a max of 20 players online", true))
	require.Equal(t, "ok: true\nresult: There are 0 of a max of 20 players online\n", out.String())
}

func TestCheckConfigCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "server.properties"),
		[]byte("enable-rcon=false\nrcon.port=25575\nrcon.password=hunter2\n"), 0o600))

	configPath := filepath.Join(dir, "rconwrap.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(fmt.Sprintf(`
working_directory: %s
rcon:
  enable: false
  port: 25575
  password: hunter2
`, dir)), 0o600))

	previous := cfgFile
	cfgFile = configPath

	t.Cleanup(func() { cfgFile = previous })

	var out bytes.Buffer

	command := checkConfigCmd()
	command.SetOut(&out)
	command.SetArgs([]string{})
	command.SetContext(t.Context())
	require.NoError(t, command.Execute())

	require.Contains(t, out.String(), "broken: "+locale.Get(locale.English, locale.CheckBroken))
	require.NotContains(t, out.String(), "hunter2")
}
