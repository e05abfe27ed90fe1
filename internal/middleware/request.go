package middleware

import (
	"log/slog"
	"time"

	"github.com/DhavalSuthar-24/profiles/pkg/logger"
	"github.com/DhavalSuthar-24/profiles/pkg/responses"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-Id"
	RequestIDKey    = "request_id"
)

// RequestID reuses the caller's X-Request-Id or generates one, and echoes
// it back on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// Logging stores a request-scoped logger in the request context and writes
// one access line per request through whatever logger the handlers left in
// the context, so attributes added downstream show up on it.
func Logging(l *slog.Logger) gin.HandlerFunc {
	if l == nil {
		l = slog.Default()
	}
	return func(c *gin.Context) {
		reqLogger := l
		if id := c.GetString(RequestIDKey); id != "" {
			reqLogger = reqLogger.With(slog.String("request_id", id))
		}
		c.Request = c.Request.WithContext(logger.Into(c.Request.Context(), reqLogger))

		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= 500 {
			level = slog.LevelError
		}
		ctx := c.Request.Context()
		logger.From(ctx).LogAttrs(ctx, level, "http",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("dur", time.Since(start)),
			slog.Int("bytes", c.Writer.Size()),
		)
	}
}

// Recover turns a panic into a 500 without leaking its details.
func Recover() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.From(c.Request.Context()).Error("panic",
					slog.String("path", c.Request.URL.Path),
					slog.Any("reason", rec),
				)
				responses.InternalServerError(c)
			}
		}()
		c.Next()
	}
}
