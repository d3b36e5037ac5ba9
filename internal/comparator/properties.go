package comparator

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/leighmacdonald/rconwrap/internal/domain"
	"github.com/leighmacdonald/rconwrap/internal/locale"
	"github.com/leighmacdonald/rconwrap/pkg/log"
	"github.com/magiconair/properties"
)

const (
	propertiesFile      = "server.properties"
	propEnableRCON      = "enable-rcon"
	propRCONPort        = "rcon.port"
	propRCONPassword    = "rcon.password"
	defaultTargetPort   = 0
	defaultTargetSecret = ""
)

var errPropertiesPort = errors.New("rcon.port is not an integer")

// PropertiesPath is where the target server keeps its settings.
func PropertiesPath(workingDirectory string) string {
	return filepath.Join(workingDirectory, propertiesFile)
}

func readTargetConfig(workingDirectory string, language string) (domain.RconConfig, error) {
	path := PropertiesPath(workingDirectory)

	body, errRead := os.ReadFile(path)
	if errRead != nil {
		if errors.Is(errRead, fs.ErrNotExist) {
			slog.Error(locale.Get(locale.Parse(language), locale.TargetPropertiesMissing, path))
		} else {
			slog.Error("Unable to read server.properties in server directory", log.ErrAttr(errRead))
		}

		return domain.RconConfig{}, errors.Join(errRead, domain.ErrNotFound)
	}

	props, errParse := parseProperties(body)
	if errParse != nil {
		slog.Error("Unable to parse server.properties in server directory",
			slog.String("path", path), log.ErrAttr(errParse))

		return domain.RconConfig{}, errors.Join(errParse, domain.ErrNotFound)
	}

	port := defaultTargetPort

	if rawPort, found := props.Get(propRCONPort); found {
		parsed, errPort := strconv.Atoi(strings.TrimSpace(rawPort))
		if errPort != nil {
			slog.Error("Unable to parse server.properties in server directory",
				slog.String("path", path), slog.String("rcon.port", rawPort))

			return domain.RconConfig{}, errors.Join(fmt.Errorf("%w: %q", errPropertiesPort, rawPort), domain.ErrNotFound)
		}

		port = parsed
	}

	return domain.NewRconConfig(
		props.GetBool(propEnableRCON, false),
		port,
		props.GetString(propRCONPassword, defaultTargetSecret))
}

// parseProperties reads a java properties document. Values are taken literally, the
// ${key} expansion of the library would break passwords containing that sequence.
func parseProperties(body []byte) (*properties.Properties, error) {
	loader := properties.Loader{
		Encoding:         properties.UTF8,
		DisableExpansion: true,
	}

	return loader.LoadBytes(body)
}
