package middleware

import (
	"log/slog"
	"time"

	"github.com/vango-dev/ovan/pkg/overlay"
)

// Logging creates middleware that logs every dispatch. Applied actions are
// logged at Debug, ignored ones are not logged, and failures at Warn. A nil
// logger uses slog.Default().
func Logging(logger *slog.Logger) overlay.Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "overlay")

	return overlay.MiddlewareFunc(func(dc *overlay.DispatchContext, next func() error) error {
		start := time.Now()
		err := next()

		attrs := []any{
			"system", dc.Namespace,
			"action", dc.Action.String(),
			"duration", time.Since(start),
		}
		switch {
		case err != nil:
			logger.Warn("overlay dispatch failed", append(attrs, "error", err)...)
		case dc.Changed():
			logger.Debug("overlay dispatch",
				append(attrs, "overlays", dc.Next.Len(), "current", dc.Next.Current)...)
		}
		return err
	})
}
