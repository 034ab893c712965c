package main

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oven-ttta/oven-framework"
	"github.com/oven-ttta/oven-framework/internal/config"
	"github.com/oven-ttta/oven-framework/internal/dev"
	"github.com/oven-ttta/oven-framework/pkg/middleware"
)

// loadProject finds the project containing dir and loads its config.
func loadProject(dir string) (*config.Config, error) {
	root, err := config.FindProjectRoot(dir)
	if err != nil {
		return nil, err
	}
	return config.Load(root)
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// newApp builds the application for cfg with the middleware it enables.
// access is where request lines go; nil turns access logging off.
func newApp(cfg *config.Config, logger *slog.Logger, access io.Writer) (*oven.App, error) {
	ocfg := oven.Config{
		AppDir:   cfg.AppPath(),
		BasePath: cfg.BasePath,
		Lang:     cfg.Lang,
		Logger:   logger,
	}
	if cfg.Dev.Enabled {
		ocfg.Scripts = append(ocfg.Scripts, dev.ClientScript)
	}
	app := oven.New(ocfg)

	if access != nil && cfg.AccessLog != "off" {
		format, err := middleware.ParseLogFormat(cfg.AccessLog)
		if err != nil {
			return nil, err
		}
		app.Use(middleware.Logger(middleware.LoggerOptions{
			Format: format,
			Output: access,
		}))
	}
	if cfg.Tracing.Enabled {
		app.Use(middleware.OpenTelemetry(middleware.WithTracerName("oven")))
	}
	if cfg.Metrics.Enabled {
		app.Use(middleware.Prometheus(middleware.WithNamespace(cfg.Metrics.Namespace)))
	}
	if cfg.CORS.Enabled {
		app.Use(middleware.CORS(middleware.CORSOptions{
			Origins:     cfg.CORS.Origins,
			Credentials: cfg.CORS.Credentials,
		}))
	}
	if cfg.Compress.Enabled {
		app.Use(middleware.Compress(middleware.CompressOptions{MinSize: cfg.Compress.MinSize}))
	}
	return app, nil
}

// newHandler mounts the app behind the host router: health check, metrics,
// the dev reload socket and the public directory in front of the routes.
func newHandler(cfg *config.Config, app *oven.App, reload *dev.ReloadServer) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/_oven/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler())
	}
	if reload != nil {
		r.Get(dev.ReloadPath, reload.HandleWebSocket)
	}

	static := oven.DefaultStaticConfig()
	static.Dir = cfg.PublicPath()
	static.Prefix = cfg.Static.Prefix
	if cfg.Static.CacheControl == "production" && !cfg.Dev.Enabled {
		static.CacheControl = oven.CacheControlProduction
	}
	r.Handle("/*", oven.Static(static, app))

	return r
}
