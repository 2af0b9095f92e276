package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

type contextKey struct{}

// New builds a logger writing to w in the given format ("text" or "json") at level.
func New(w io.Writer, format, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// ContextWithLogger returns a derived context that carries the provided logger.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if ctx == nil || logger == nil {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext extracts a logger previously attached to the context, falling
// back to slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
			return logger
		}
	}
	return slog.Default()
}

// RequestLogger attaches a request scoped logger to each request context and
// logs completion with status and latency.
func RequestLogger(base *slog.Logger) gin.HandlerFunc {
	if base == nil {
		base = slog.Default()
	}
	var counter atomic.Uint64

	return func(c *gin.Context) {
		id := counter.Add(1)
		logger := base.With(
			"request_id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
		ctx := ContextWithLogger(c.Request.Context(), logger)
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{"status", status, "duration", time.Since(start)}
		switch {
		case status >= 500:
			logger.ErrorContext(ctx, "request completed", attrs...)
		case status >= 400:
			logger.WarnContext(ctx, "request completed", attrs...)
		default:
			logger.InfoContext(ctx, "request completed", attrs...)
		}
	}
}
