package log

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dotse/slug"
	sentryslog "github.com/getsentry/sentry-go/slog"
	slogmulti "github.com/samber/slog-multi"
)

type Level string

const (
	Debug Level = "debug"
	Info  Level = "info"
	Warn  Level = "warn"
	Error Level = "error"
)

// ParseLevel converts user input into a Level, falling back to Info.
func ParseLevel(value string) Level {
	switch Level(strings.ToLower(value)) {
	case Debug:
		return Debug
	case Warn:
		return Warn
	case Error:
		return Error
	default:
		return Info
	}
}

// ToSlogLevel maps our levels to the equivalent slog level.
func ToSlogLevel(level Level) slog.Level {
	switch level {
	case Debug:
		return slog.LevelDebug
	case Info:
		return slog.LevelInfo
	case Warn:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// MustCreateLogger creates and configures the default global log handler. Depending on configuration
// a local log file and an external sentry handler may also be created.
//
// Returns a cleanup function which should be called on program shutdown.
//
// Panics on failure to open log file for writing.
func MustCreateLogger(ctx context.Context, logPath string, level Level, useSentry bool, version string) func() {
	var (
		closer = func() {}
		opts   = slug.HandlerOptions{
			HandlerOptions: slog.HandlerOptions{
				Level: ToSlogLevel(level),
			},
		}
		handlers []slog.Handler
	)

	if useSentry {
		handlers = append(handlers, sentryslog.Option{
			AddSource: true,
		}.NewSentryHandler(ctx))
	}

	if logPath != "" {
		logFile, errLogFile := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if errLogFile != nil {
			panic(fmt.Sprintf("Failed to open logfile: %v", errLogFile))
		}

		closer = func() {
			if errClose := logFile.Close(); errClose != nil {
				panic(fmt.Sprintf("Failed to close log file: %v", errClose))
			}
		}

		handlers = append(handlers, slug.NewHandler(opts, logFile))
	} else {
		handlers = append(handlers, slug.NewHandler(opts, os.Stderr))
	}

	defaultLogger := slog.New(slogmulti.Fanout(handlers...))

	if version != "" {
		defaultLogger = defaultLogger.With("release", version)
	}

	slog.SetDefault(defaultLogger)

	return closer
}

func ErrAttr(err error) slog.Attr {
	return slog.Any("reason", err)
}
