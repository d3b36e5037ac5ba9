package query

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leighmacdonald/rconwrap/internal/comparator"
	"github.com/leighmacdonald/rconwrap/internal/domain"
	"github.com/leighmacdonald/rconwrap/internal/health"
	"github.com/leighmacdonald/rconwrap/internal/httphelper"
	"github.com/leighmacdonald/rconwrap/internal/locale"
)

type CommandRequest struct {
	Command string `json:"command" binding:"required,command"`
}

type CommandResponse struct {
	Command string `json:"command"`
	Result  string `json:"result"`
}

// SideConfig is one side of a config check with the password masked.
type SideConfig struct {
	Enable   bool   `json:"enable"`
	Port     int    `json:"port"`
	Password string `json:"password"`
	Error    string `json:"error,omitempty"`
}

func NewSideConfig(config domain.RconConfig, err error) SideConfig {
	if err != nil {
		return SideConfig{Error: err.Error()}
	}

	return SideConfig{
		Enable:   config.Enable(),
		Port:     config.Port(),
		Password: config.MaskedPassword(),
	}
}

type CheckConfigResponse struct {
	Verdict domain.Verdict `json:"verdict"`
	Working bool           `json:"working"`
	Message string         `json:"message"`
	Match   bool           `json:"match"`
	Host    SideConfig     `json:"host"`
	Target  SideConfig     `json:"target"`
}

type HealthResponse struct {
	Healthy bool `json:"healthy"`
}

type queryHandler struct {
	executor   *Executor
	cache      *health.Cache
	comparator *comparator.Comparator
	host       domain.HostConfig
}

func NewQueryHandler(engine *gin.Engine, executor *Executor, cache *health.Cache,
	configs *comparator.Comparator, host domain.HostConfig,
) {
	handler := &queryHandler{
		executor:   executor,
		cache:      cache,
		comparator: configs,
		host:       host,
	}

	engine.POST("/api/rcon", handler.onAPIPostQuery())
	engine.POST("/api/rcon/reconnect", handler.onAPIPostReconnect())
	engine.POST("/api/rcon/builtin_query", handler.onAPIPostBuiltinQuery())
	engine.GET("/api/rcon/check_config", handler.onAPIGetCheckConfig())
	engine.GET("/api/rcon/health", handler.onAPIGetHealth())
}

func (h *queryHandler) onAPIPostQuery() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		req, ok := httphelper.BindJSON[CommandRequest](ctx)
		if !ok {
			return
		}

		result, found, errQuery := h.executor.Query(ctx, req.Command)
		if errQuery != nil {
			setQueryError(ctx, errQuery)

			return
		}

		if !found {
			httphelper.SetError(ctx, httphelper.NewAPIErrorf(http.StatusServiceUnavailable, httphelper.ErrUnavailable,
				"%s", locale.Get(locale.Parse(h.host.Language()), locale.StartupUnusable)))

			return
		}

		ctx.JSON(http.StatusOK, CommandResponse{Command: req.Command, Result: result})
	}
}

func (h *queryHandler) onAPIPostBuiltinQuery() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		req, ok := httphelper.BindJSON[CommandRequest](ctx)
		if !ok {
			return
		}

		result, errQuery := h.executor.Builtin(ctx, req.Command)
		if errQuery != nil {
			setQueryError(ctx, errQuery)

			return
		}

		ctx.JSON(http.StatusOK, CommandResponse{Command: req.Command, Result: result})
	}
}

func (h *queryHandler) onAPIPostReconnect() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if errConnect := h.executor.Reconnect(ctx); errConnect != nil {
			httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusBadGateway, errConnect))

			return
		}

		ctx.JSON(http.StatusOK, HealthResponse{Healthy: h.cache.Cached()})
	}
}

func (h *queryHandler) onAPIGetCheckConfig() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		verdict := h.cache.Diagnose(ctx)
		comparison := h.comparator.Compare()

		ctx.JSON(http.StatusOK, CheckConfigResponse{
			Verdict: verdict,
			Working: verdict.Working(),
			Message: health.VerdictMessage(locale.Parse(h.host.Language()), verdict),
			Match:   comparison.Match,
			Host:    NewSideConfig(comparison.Host, comparison.HostErr),
			Target:  NewSideConfig(comparison.Target, comparison.TargetErr),
		})
	}
}

func (h *queryHandler) onAPIGetHealth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, HealthResponse{Healthy: h.cache.Cached()})
	}
}

func setQueryError(ctx *gin.Context, err error) {
	var timeoutErr *domain.TimeoutError

	switch {
	case errors.As(err, &timeoutErr):
		httphelper.SetError(ctx, httphelper.NewAPIErrorf(http.StatusGatewayTimeout, domain.ErrQueryTimeout,
			"%s", timeoutErr.Error()))
	case errors.Is(err, domain.ErrEmptyCommand):
		httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusBadRequest, domain.ErrEmptyCommand))
	case errors.Is(err, domain.ErrCommandFailed):
		httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusBadGateway, err))
	default:
		httphelper.SetError(ctx, httphelper.NewAPIError(http.StatusInternalServerError, errors.Join(err, httphelper.ErrInternal)))
	}
}
