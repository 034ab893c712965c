package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/oven-ttta/oven-framework"
	"github.com/oven-ttta/oven-framework/internal/config"
	"github.com/oven-ttta/oven-framework/internal/dev"
	oerrors "github.com/oven-ttta/oven-framework/internal/errors"
	"github.com/oven-ttta/oven-framework/pkg/middleware"
)

type serveOptions struct {
	port      int
	host      string
	dev       bool
	logFormat string
}

func serveCmd(dir *string) *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the project",
		Long: `Serve the project's app directory and public files.

With --dev (or dev.enabled in oven.json) the app and public directories
are watched; the route tree is rebuilt on change and connected browsers
reload.

Examples:
  oven serve
  oven serve --dev
  oven serve --port=8080 --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadProject(*dir)
			if err != nil {
				return err
			}
			if err := opts.apply(cfg, cmd); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "Port to listen on (default from oven.json)")
	cmd.Flags().StringVarP(&opts.host, "host", "H", "", "Host to bind to (default from oven.json)")
	cmd.Flags().BoolVar(&opts.dev, "dev", false, "Watch files and reload browsers on change")
	cmd.Flags().StringVar(&opts.logFormat, "log-format", "", "Log format: text or json (default from oven.json)")

	return cmd
}

// apply copies explicitly set flags over cfg.
func (o serveOptions) apply(cfg *config.Config, cmd *cobra.Command) error {
	if o.port > 0 {
		cfg.Port = o.port
	}
	if o.host != "" {
		cfg.Host = o.host
	}
	if cmd.Flags().Changed("dev") {
		cfg.Dev.Enabled = o.dev
	}
	if o.logFormat != "" {
		cfg.LogFormat = o.logFormat
	}
	return cfg.Validate()
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger := newLogger(cfg, os.Stderr)
	slog.SetDefault(logger)

	app, err := newApp(cfg, logger, os.Stdout)
	if err != nil {
		return err
	}
	if err := app.Init(); err != nil {
		return err
	}
	reportTree(logger, app)
	middleware.RecordRoutes(len(app.Routes()), len(app.Tree().Problems))

	var reload *dev.ReloadServer
	if cfg.Dev.Enabled {
		reload = dev.NewReloadServer(logger)
		defer reload.Close()
	}

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           newHandler(cfg, app, reload),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	if reload != nil {
		watcher := dev.NewWatcher(dev.WatcherConfig{
			Paths:    dev.CollectWatchPaths(cfg),
			Ignore:   dev.IgnorePatterns(cfg),
			Debounce: time.Duration(cfg.Dev.DebounceMs) * time.Millisecond,
			Logger:   logger,
		})
		watcher.OnChange(dev.NewReloader(app, reload, logger).Handle)
		g.Go(func() error {
			return watcher.Start(gCtx)
		})
	}

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			if isAddrInUse(err) {
				return oerrors.New("E141").
					WithDetail(fmt.Sprintf("Port %d is already in use", cfg.Port)).
					WithSuggestion("Stop the other process or pass --port").
					Wrap(err)
			}
			return oerrors.New("E142").Wrap(err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "error", err)
		}
		return nil
	})

	mode := "production"
	if cfg.Dev.Enabled {
		mode = "dev"
	}
	name := cfg.Name
	if name == "" {
		name = "app"
	}
	success("Serving %s on %s (%s)", name, cfg.URL(), mode)

	return g.Wait()
}

// reportTree logs build problems and shadowed routes.
func reportTree(logger *slog.Logger, app *oven.App) {
	for _, p := range app.Tree().Problems {
		logger.Warn("build problem", "error", p)
	}
	for _, c := range app.Conflicts() {
		logger.Warn("route conflict", "method", c.Method, "pattern", c.Pattern, "sources", c.Sources)
	}
}

func isAddrInUse(err error) bool {
	return errors.Is(err, syscall.EADDRINUSE)
}
