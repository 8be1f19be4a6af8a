package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/vango-dev/ovan/internal/config"
	"github.com/vango-dev/ovan/pkg/inspect"
	"github.com/vango-dev/ovan/pkg/middleware"
	"github.com/vango-dev/ovan/pkg/overlay"
	"github.com/vango-dev/ovan/pkg/portal"
	"github.com/vango-dev/ovan/pkg/scope"
)

type serveFlags struct {
	dir      string
	port     int
	host     string
	name     string
	logLevel string
	metrics  bool
	tracing  bool
	bucket   string
}

func serveCmd() *cobra.Command {
	var f serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a demo overlay system behind the inspector",
		Long: `Mount an overlay system with the demo templates (dialog, drawer,
toast), drive its frame scheduler and serve the inspector.

Settings come from ovan.json in --dir when present. Flags override them.

Examples:
  ovan serve
  ovan serve --port=9090 --metrics
  ovan serve --log-level=debug --tracing`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(f, cmd.Flags())
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	bindServeFlags(cmd.Flags(), &f)

	return cmd
}

func bindServeFlags(fs *pflag.FlagSet, f *serveFlags) {
	fs.StringVarP(&f.dir, "dir", "d", ".", "Directory containing ovan.json")
	fs.IntVarP(&f.port, "port", "p", 0, "Port to listen on (default from ovan.json)")
	fs.StringVarP(&f.host, "host", "H", "", "Host to bind to (default from ovan.json)")
	fs.StringVar(&f.name, "name", "", "Overlay system name")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.BoolVar(&f.metrics, "metrics", false, "Record Prometheus metrics and serve /metrics")
	fs.BoolVar(&f.tracing, "tracing", false, "Trace every dispatch and log the spans")
	fs.StringVar(&f.bucket, "archive-bucket", "", "S3 bucket for POST /archive")
}

// loadConfig reads ovan.json when present and applies flags that were set.
func loadConfig(f serveFlags, flags *pflag.FlagSet) (*config.Config, error) {
	cfg := config.New()
	if config.Exists(f.dir) {
		loaded, err := config.Load(f.dir)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if flags.Changed("port") {
		cfg.Inspector.Port = f.port
	}
	if flags.Changed("host") {
		cfg.Inspector.Host = f.host
	}
	if flags.Changed("name") {
		cfg.Name = f.name
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if flags.Changed("metrics") {
		cfg.Metrics.Enabled = f.metrics
	}
	if flags.Changed("tracing") {
		cfg.Tracing.Enabled = f.tracing
	}
	if flags.Changed("archive-bucket") {
		cfg.Archive.Bucket = f.bucket
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// app is a mounted demo system and the inspector serving it.
type app struct {
	system    *overlay.System
	provider  *overlay.Provider
	inspector *inspect.Inspector
	handler   http.Handler
	closers   []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{}

	opts := []overlay.Option{
		overlay.WithLogger(logger),
		overlay.WithAdapter(portal.Adapter(portal.NewTeleporter("overlay-root"))),
		overlay.WithMiddleware(middleware.Logging(logger)),
	}

	var gatherer prometheus.Gatherer
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		gatherer = registry
		opts = append(opts, overlay.WithMiddleware(middleware.Prometheus(
			middleware.WithNamespace(cfg.Metrics.Namespace),
			middleware.WithRegistry(registry),
		)))
	}

	if cfg.Tracing.Enabled {
		tp := newTracerProvider(logger)
		a.closers = append(a.closers, func() { _ = tp.Shutdown(context.Background()) })
		opts = append(opts, overlay.WithMiddleware(middleware.OpenTelemetry(
			middleware.WithTracerName(cfg.Tracing.TracerName),
			middleware.WithTracerProvider(tp),
		)))
	}

	a.system = overlay.NewSystem(cfg.Name, opts...)
	root := scope.NewOwner(nil)
	a.provider = a.system.Mount(root)
	a.closers = append(a.closers, root.Dispose)

	// Re-render on every change so new overlays mount and get their OPEN.
	unsubscribe := a.provider.SubscribeSnapshot(func(*overlay.State) {
		a.provider.Render()
	})
	a.closers = append(a.closers, unsubscribe)

	inspectOpts := []inspect.Option{
		inspect.WithLogger(logger),
		inspect.WithCheckOrigin(checkOrigin(cfg.Inspector.AllowedOrigins)),
	}
	for name, ctrl := range templates {
		inspectOpts = append(inspectOpts, inspect.WithTemplate(name, ctrl))
	}
	if gatherer != nil {
		inspectOpts = append(inspectOpts, inspect.WithGatherer(gatherer))
	}
	if cfg.ArchiveEnabled() {
		client, err := inspect.NewS3Client(ctx, cfg.Archive.Region, cfg.Archive.Endpoint)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("archive: %w", err)
		}
		inspectOpts = append(inspectOpts, inspect.WithArchive(
			inspect.NewArchive(client, cfg.Archive.Bucket, cfg.Archive.Prefix),
		))
	}

	a.inspector = inspect.New(a.provider, inspectOpts...)
	a.closers = append(a.closers, a.inspector.Close)
	a.handler = a.inspector
	return a, nil
}

// checkOrigin accepts same-host requests, requests without an Origin
// header and any origin in allowed.
func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if slices.Contains(allowed, origin) {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && u.Host == r.Host
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	level, _ := cfg.Level()
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runServe(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := newLogger(cfg)
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           a.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		_ = a.system.Scheduler().Run(ctx, cfg.FrameInterval())
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	success("Inspector for %q listening on http://%s", a.system.Name(), cfg.Address())
	info("templates: dialog, drawer, toast")
	if cfg.Metrics.Enabled {
		info("metrics:   http://%s/metrics", cfg.Address())
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("inspector server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	fmt.Println("\n  Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
