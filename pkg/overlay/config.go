package overlay

import (
	"log/slog"

	"github.com/vango-dev/ovan/pkg/emitter"
	"github.com/vango-dev/ovan/pkg/id"
	"github.com/vango-dev/ovan/pkg/scope"
)

// Config holds the dependencies of an overlay system.
type Config struct {
	// Logger receives dispatch failures and lifecycle events.
	// Default: slog.Default()
	Logger *slog.Logger

	// Adapter places rendered overlays. Default: DefaultAdapter
	Adapter HostAdapter

	// IDs generates overlay ids, render keys and slot ids. Default: id.Default
	IDs id.Generator

	// Scheduler runs the deferred OPEN of newly mounted content. The owner of
	// the system must call Flush once per frame, or Run.
	// Default: a new scope.Scheduler
	Scheduler *scope.Scheduler

	// Middleware wraps every dispatch, outermost first.
	Middleware []Middleware

	// Bus carries commands to the provider. Sharing a bus between systems is
	// safe because every system uses its own prefix. Default: a new bus
	Bus *emitter.Bus
}

// Option configures a System.
type Option func(*Config)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithAdapter sets the host adapter.
func WithAdapter(adapter HostAdapter) Option {
	return func(c *Config) {
		c.Adapter = adapter
	}
}

// WithIDGenerator sets the id generator.
func WithIDGenerator(ids id.Generator) Option {
	return func(c *Config) {
		c.IDs = ids
	}
}

// WithScheduler sets the frame scheduler.
func WithScheduler(s *scope.Scheduler) Option {
	return func(c *Config) {
		c.Scheduler = s
	}
}

// WithMiddleware appends dispatch middleware.
func WithMiddleware(mw ...Middleware) Option {
	return func(c *Config) {
		c.Middleware = append(c.Middleware, mw...)
	}
}

// WithBus sets the event bus.
func WithBus(bus *emitter.Bus) Option {
	return func(c *Config) {
		c.Bus = bus
	}
}

func defaultConfig() Config {
	return Config{
		Logger:  slog.Default(),
		Adapter: DefaultAdapter,
		IDs:     id.Default,
	}
}

// normalize fills zero fields left by options.
func (c *Config) normalize() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Adapter == nil {
		c.Adapter = DefaultAdapter
	}
	if c.IDs == nil {
		c.IDs = id.Default
	}
	if c.Scheduler == nil {
		c.Scheduler = scope.NewScheduler()
	}
	if c.Bus == nil {
		c.Bus = emitter.New()
	}
}
