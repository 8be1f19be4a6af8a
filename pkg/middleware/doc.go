// Package middleware provides dispatch middleware for overlay providers.
//
// This package includes:
//   - Prometheus metrics middleware
//   - OpenTelemetry tracing middleware
//   - Structured logging middleware
//
// Middleware is installed when the system is created and wraps every action
// a provider dispatches, whether it came from the command bus or from
// overlay content:
//
//	sys := overlay.NewSystem("app",
//	    overlay.WithMiddleware(
//	        middleware.Logging(logger),
//	        middleware.OpenTelemetry(),
//	        middleware.Prometheus(),
//	    ),
//	)
//
// # Prometheus Metrics
//
// The Prometheus middleware collects:
//   - ovan_dispatch_total: Actions dispatched by system, action and status
//   - ovan_dispatch_duration_seconds: Dispatch duration histogram
//   - ovan_dispatch_errors_total: Failed dispatches by error code
//   - ovan_overlays: Registered overlays per system
//   - ovan_overlays_open: Open overlays per system
//
// Expose them with promhttp, or through the inspector's /metrics route.
//
// # OpenTelemetry
//
// Every dispatch becomes a span named after the action. The span context
// replaces DispatchContext.Ctx for the rest of the chain, so SpanFromContext
// works in inner middleware.
package middleware
