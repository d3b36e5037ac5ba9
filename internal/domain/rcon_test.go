package domain_test

import (
	"errors"
	"testing"

	"github.com/leighmacdonald/rconwrap/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestNewRconConfig(t *testing.T) {
	for _, port := range []int{1, 80, 25575, 27015, 65535} {
		for _, enable := range []bool{true, false} {
			conf, err := domain.NewRconConfig(enable, port, "secret")
			require.NoError(t, err)
			require.Equal(t, enable, conf.Enable())
			require.Equal(t, port, conf.Port())
			require.Equal(t, "secret", conf.Password())
		}
	}

	for _, port := range []int{0, -1, 65536, 100000} {
		_, err := domain.NewRconConfig(true, port, "secret")
		require.ErrorIs(t, err, domain.ErrValidation, "port %d", port)
	}
}

func TestRconConfigEqual(t *testing.T) {
	a, _ := domain.NewRconConfig(true, 25575, "a")
	b, _ := domain.NewRconConfig(true, 25575, "a")
	c, _ := domain.NewRconConfig(true, 25575, "b")
	d, _ := domain.NewRconConfig(false, 25575, "a")

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
	require.False(t, a.Equal(d))
}

func TestRconConfigFromValues(t *testing.T) {
	conf, err := domain.RconConfigFromValues(map[string]any{"enable": true, "port": 25575, "password": ""})
	require.NoError(t, err)
	require.Equal(t, 25575, conf.Port())

	invalid := []map[string]any{
		{},
		{"port": 25575, "password": "x"},
		{"enable": true, "password": "x"},
		{"enable": true, "port": 25575},
		{"enable": "true", "port": 25575, "password": "x"},
		{"enable": true, "port": "25575", "password": "x"},
		{"enable": true, "port": 25575.0, "password": "x"},
		{"enable": true, "port": 25575, "password": 1234},
		{"enable": true, "port": 0, "password": "x"},
		{"enable": true, "port": int64(70000), "password": "x"},
	}

	for _, values := range invalid {
		_, errValues := domain.RconConfigFromValues(values)
		require.ErrorIs(t, errValues, domain.ErrValidation, "%v", values)
	}
}

func TestParseConfigSource(t *testing.T) {
	source, err := domain.ParseConfigSource("host")
	require.NoError(t, err)
	require.Equal(t, domain.HostSide, source)

	source, err = domain.ParseConfigSource("target")
	require.NoError(t, err)
	require.Equal(t, domain.TargetSide, source)

	_, err = domain.ParseConfigSource("server")
	require.ErrorIs(t, err, domain.ErrUnknownSource)
}

func TestTimeoutError(t *testing.T) {
	var err error = &domain.TimeoutError{Command: "list", Message: "Long time no response for RCON query!"}

	require.ErrorIs(t, err, domain.ErrQueryTimeout)
	require.Equal(t, "Long time no response for RCON query!", err.Error())
}

func TestRconConfigFromFloatPort(t *testing.T) {
	config, err := domain.RconConfigFromValues(map[string]any{"enable": true, "port": float64(25575), "password": "hunter2"})
	require.NoError(t, err)
	require.Equal(t, 25575, config.Port())

	_, err = domain.RconConfigFromValues(map[string]any{"enable": true, "port": 25575.5, "password": "hunter2"})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestTimeoutErrorCause(t *testing.T) {
	errRefused := errors.New("dial refused")

	var err error = &domain.TimeoutError{Command: "list", Message: "Long time no response for RCON query!", Cause: errRefused}

	require.ErrorIs(t, err, domain.ErrQueryTimeout)
	require.ErrorIs(t, err, errRefused)
	require.Equal(t, "Long time no response for RCON query!: dial refused", err.Error())
}

func TestMaskedPassword(t *testing.T) {
	config, err := domain.NewRconConfig(true, 25575, "hunter2")
	require.NoError(t, err)
	require.Equal(t, "*******", config.MaskedPassword())

	config, err = domain.NewRconConfig(true, 25575, "")
	require.NoError(t, err)
	require.Empty(t, config.MaskedPassword())
}
