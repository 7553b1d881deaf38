package ginx

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jimyag/taxo/pkg/apierror"
	"github.com/rs/zerolog"
)

// WithRequestID 为每个请求分配 ID，客户端传入的 X-Request-Id 优先
func WithRequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		ctx.Set(requestIDKey, id)
		ctx.Header(RequestIDHeader, id)
		ctx.Next()
	}
}

// WithLogger 把带 request_id 的 logger 放进请求 context，并在请求结束时输出访问日志
func WithLogger(base zerolog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		logger := base.With().
			Str("request_id", RequestID(ctx)).
			Str("method", ctx.Request.Method).
			Str("path", ctx.Request.URL.Path).
			Logger()
		ctx.Request = ctx.Request.WithContext(logger.WithContext(ctx.Request.Context()))

		ctx.Next()

		status := ctx.Writer.Status()
		var evt *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			evt = logger.Error()
		case status >= http.StatusBadRequest:
			evt = logger.Warn()
		default:
			evt = logger.Info()
		}
		evt.Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", ctx.ClientIP()).
			Msg("Request completed")
	}
}

// Recovery 捕获 panic 并返回 InternalError
func Recovery() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				zerolog.Ctx(ctx.Request.Context()).Error().
					Interface("panic", r).
					Msg("Recovered from panic")
				renderError(ctx, http.StatusInternalServerError, apierror.ErrInternalError)
				ctx.Abort()
			}
		}()
		ctx.Next()
	}
}
