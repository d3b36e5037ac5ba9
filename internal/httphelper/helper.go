package httphelper

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func BindJSON[T any](ctx *gin.Context) (T, bool) { //nolint:ireturn
	var value T
	if err := ctx.ShouldBindJSON(&value); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			SetError(ctx, NewAPIErrorf(http.StatusBadRequest, errors.Join(validationErrs, ErrBadRequest),
				"Invalid field: %s", validationErrs[0].Field()))
		} else {
			SetError(ctx, NewAPIError(http.StatusBadRequest, errors.Join(err, ErrBadRequest)))
		}

		return value, false
	}

	return value, true
}

func NewServer(listenAddr string, handler http.Handler) *http.Server {
	httpServer := &http.Server{
		Addr:           listenAddr,
		Handler:        handler,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	return httpServer
}
