// Package middleware provides production middleware for Oven applications.
//
// This package includes:
//   - Logger: access logging in dev, short, common, combined or structured form
//   - CORS: cross-origin headers and preflight responses
//   - Compress: gzip response compression
//   - OpenTelemetry: a server span per request
//   - Prometheus: request counters, latency histograms and route table gauges
//
// Every constructor returns a router.Middleware for App.Use:
//
//	app := oven.New(oven.Config{})
//	app.Use(
//	    middleware.Logger(middleware.LoggerOptions{Format: middleware.LogDev}),
//	    middleware.OpenTelemetry(),
//	    middleware.Prometheus(middleware.WithNamespace("site")),
//	    middleware.CORS(middleware.CORSOptions{Origins: []string{"https://example.com"}}),
//	    middleware.Compress(middleware.CompressOptions{}),
//	)
//
// # Prometheus Metrics
//
// Metrics are labelled by route pattern rather than request path, so a
// route like /blog/:slug produces one series however many posts exist.
// Requests that match no route are labelled "unmatched". Expose them with
// promhttp:
//
//	http.Handle("/metrics", promhttp.Handler())
//
// # Context Propagation
//
// OpenTelemetry replaces ctx.Context() with the span context, so database
// drivers and HTTP clients called from handlers inherit the trace:
//
//	func handler(ctx *server.Ctx) (*server.Response, error) {
//	    row := db.QueryRowContext(ctx.Context(), "SELECT ...")
//	    ...
//	}
package middleware
