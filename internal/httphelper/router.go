package httphelper

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/Depado/ginprom"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/leighmacdonald/rconwrap/internal/domain"
	"github.com/leighmacdonald/rconwrap/pkg/log"
	sloggin "github.com/samber/slog-gin"
)

type RouterOpts struct {
	HTTPLogEnabled    bool
	LogLevel          log.Level
	Mode              domain.RunMode
	SentryDSN         string
	Version           string
	PProfEnabled      bool
	PrometheusEnabled bool
	CORSOrigins       []string
}

// CreateRouter constructs a new router using gin.Engine with the provided RouterOpts.
func CreateRouter(opts RouterOpts) (*gin.Engine, error) {
	switch opts.Mode {
	case domain.DebugMode:
		gin.SetMode(gin.DebugMode)
	case domain.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(recoveryHandler())
	engine.Use(errorHandler())

	if errReg := registerCustomValidators(); errReg != nil {
		return nil, errReg
	}

	if opts.HTTPLogEnabled {
		useSloggin(engine, opts.LogLevel)
	}

	if opts.SentryDSN != "" {
		useSentry(engine, opts.Version)
	}

	if opts.PProfEnabled {
		pprof.Register(engine)
	}

	if opts.Mode != domain.TestMode {
		useCors(engine, opts.Mode, opts.CORSOrigins)
	}

	if opts.PrometheusEnabled {
		usePrometheus(engine)
	}

	return engine, nil
}

// registerCustomValidators registers our request field validators with the engine gin uses.
func registerCustomValidators() error {
	if instance, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := instance.RegisterValidation("command", commandValidator); err != nil {
			return errors.Join(err, ErrValidator)
		}
	}

	return nil
}

// commandValidator rejects blank commands.
func commandValidator(fl validator.FieldLevel) bool {
	command, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	return strings.TrimSpace(command) != ""
}

func useCors(engine *gin.Engine, mode domain.RunMode, origins []string) {
	engine.Use(useSecure(mode))

	if len(origins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = origins
		corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
		corsConfig.ExposeHeaders = append(corsConfig.ExposeHeaders, "RCONWRAP-AppVersion")
		corsConfig.AllowWildcard = true

		engine.Use(cors.New(corsConfig))
	} else {
		slog.Warn("No cors origins defined, disabling")
	}
}

func usePrometheus(engine *gin.Engine) {
	prom := ginprom.New(func(prom *ginprom.Prometheus) {
		prom.Namespace = "rconwrap"
		prom.Subsystem = "http"
	})
	engine.Use(prom.Instrument())
}

func useSloggin(engine *gin.Engine, level log.Level) {
	logConfig := sloggin.Config{
		DefaultLevel: log.ToSlogLevel(level),
	}

	engine.Use(sloggin.NewWithConfig(slog.Default(), logConfig))
}
