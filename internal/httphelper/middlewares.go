package httphelper

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/leighmacdonald/rconwrap/internal/domain"
	"github.com/leighmacdonald/rconwrap/pkg/log"
	"github.com/unrolled/secure"
	"github.com/unrolled/secure/cspbuilder"
)

func recoveryHandler() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, err any) {
		slog.Error("Recovery error:", slog.String("err", fmt.Sprintf("%v", err)))

		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Something went wrong",
		})
	})
}

func errorHandler() gin.HandlerFunc {
	// rfc9457 requires its own content type, ctx.JSON() would send application/json.
	abort := func(ctx *gin.Context, apiError APIError) {
		ctx.Header("Content-Type", "application/problem+json")
		ctx.Status(apiError.Status)

		if err := json.NewEncoder(ctx.Writer).Encode(apiError); err != nil {
			ctx.Abort()

			return
		}
	}

	return func(ctx *gin.Context) {
		ctx.Next()

		err := ctx.Errors.Last()
		if err == nil {
			return
		}

		ctx.Abort()

		var apiError APIError
		if errors.As(err, &apiError) {
			abort(ctx, apiError)

			if hub := sentrygin.GetHubFromContext(ctx); hub != nil && apiError.Status >= http.StatusInternalServerError {
				hub.WithScope(func(scope *sentry.Scope) {
					scope.SetExtra("title", apiError.Title)
					scope.SetExtra("detail", apiError.Detail)
					hub.CaptureException(apiError)
				})
			}
		} else {
			abort(ctx, NewAPIError(http.StatusInternalServerError, ErrInternal))

			if hub := sentrygin.GetHubFromContext(ctx); hub != nil {
				hub.WithScope(func(scope *sentry.Scope) {
					scope.SetLevel(sentry.LevelWarning)
					hub.CaptureException(err)
				})
			}
		}

		slog.Error("Error in http handler",
			slog.String("method", ctx.Request.Method),
			slog.String("path", ctx.Request.URL.Path),
			log.ErrAttr(err))
	}
}

// useSecure sets the security headers. The service only serves json so no content sources are allowed.
func useSecure(mode domain.RunMode) gin.HandlerFunc {
	cspBuilder := cspbuilder.Builder{
		Directives: map[string][]string{
			cspbuilder.DefaultSrc: {"'none'"},
			cspbuilder.BaseURI:    {"'self'"},
			cspbuilder.ObjectSrc:  {"'none'"},
		},
	}

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		ContentSecurityPolicy: cspBuilder.MustBuild(),
		IsDevelopment:         mode != domain.ReleaseMode,
	})

	return func(ctx *gin.Context) {
		if err := secureMiddleware.Process(ctx.Writer, ctx.Request); err != nil {
			ctx.Abort()

			return
		}

		// Avoid header rewrite if response is a redirection.
		if status := ctx.Writer.Status(); status > 300 && status < 399 {
			ctx.Abort()
		}
	}
}

func useSentry(engine *gin.Engine, version string) {
	engine.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	engine.Use(func(ctx *gin.Context) {
		if hub := sentrygin.GetHubFromContext(ctx); hub != nil {
			hub.Scope().SetTag("version", version)
		}

		ctx.Next()
	})
}
