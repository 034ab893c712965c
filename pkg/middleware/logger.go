package middleware

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/oven-ttta/oven-framework/pkg/router"
	"github.com/oven-ttta/oven-framework/pkg/server"
)

// LogFormat selects the access log line format.
type LogFormat string

const (
	// LogDev is a colored "GET /path 200 1.23ms" line for terminals.
	LogDev LogFormat = "dev"
	// LogShort is LogDev without colors.
	LogShort LogFormat = "short"
	// LogCommon is a Common Log Format style line.
	LogCommon LogFormat = "common"
	// LogCombined is LogCommon plus referer and user agent.
	LogCombined LogFormat = "combined"
	// LogStructured logs one slog record per request through the request
	// logger instead of writing a text line.
	LogStructured LogFormat = "structured"
)

// ParseLogFormat maps a configuration string to a LogFormat.
func ParseLogFormat(s string) (LogFormat, error) {
	switch f := LogFormat(s); f {
	case LogDev, LogShort, LogCommon, LogCombined, LogStructured:
		return f, nil
	case "":
		return LogDev, nil
	default:
		return "", fmt.Errorf("middleware: unknown log format %q", s)
	}
}

// LoggerOptions configures the Logger middleware.
type LoggerOptions struct {
	// Format is the line format. Default: LogDev.
	Format LogFormat

	// Output receives text lines. Default: os.Stdout. Unused by
	// LogStructured.
	Output io.Writer

	// Skip suppresses the log entry for a request when it returns true.
	Skip func(ctx *server.Ctx, resp *server.Response) bool
}

// Terminal colors for LogDev.
const (
	colorReset  = "\x1b[0m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
	colorRed    = "\x1b[31m"
	colorCyan   = "\x1b[36m"
	colorGray   = "\x1b[90m"
)

// now is replaced in tests.
var now = time.Now

// Logger creates access logging middleware. The entry is written after the
// rest of the chain has run, so it carries the final status. A request
// whose handler failed is logged with status 500.
func Logger(opts LoggerOptions) router.Middleware {
	if opts.Format == "" {
		opts.Format = LogDev
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	var mu sync.Mutex

	return router.MiddlewareFunc(func(ctx *server.Ctx, next router.Next) (*server.Response, error) {
		start := now()
		resp, err := next()

		if opts.Skip != nil && opts.Skip(ctx, resp) {
			return resp, err
		}

		status := statusOf(resp, err)
		elapsed := now().Sub(start)

		if opts.Format == LogStructured {
			logStructured(ctx, status, elapsed, err)
			return resp, err
		}

		line := formatLine(opts.Format, ctx, status, elapsed)
		mu.Lock()
		fmt.Fprintln(opts.Output, line)
		mu.Unlock()
		return resp, err
	})
}

func logStructured(ctx *server.Ctx, status int, elapsed time.Duration, err error) {
	logger := ctx.Logger()
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []any{
		"method", ctx.Method(),
		"path", ctx.Path(),
		"status", status,
		"duration", elapsed,
	}
	if route := ctx.Route(); route != "" {
		attrs = append(attrs, "route", route)
	}
	level := slog.LevelInfo
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
		if err != nil {
			attrs = append(attrs, "error", err)
		}
	} else if status >= http.StatusBadRequest {
		level = slog.LevelWarn
	}
	logger.Log(ctx.Context(), level, "request", attrs...)
}

func formatLine(format LogFormat, ctx *server.Ctx, status int, elapsed time.Duration) string {
	method := ctx.Method()
	path := ctx.Path()
	ms := fmt.Sprintf("%.2f", float64(elapsed.Microseconds())/1000)
	timestamp := now().UTC().Format("2006-01-02T15:04:05.000Z07:00")

	switch format {
	case LogDev:
		return fmt.Sprintf("%s%s%s %s %s%d%s %s%sms%s",
			colorGray, method, colorReset, path, statusColor(status), status, colorReset, colorGray, ms, colorReset)
	case LogCommon:
		return fmt.Sprintf(`- - [%s] "%s %s" %d`, timestamp, method, path, status)
	case LogCombined:
		return fmt.Sprintf(`- - [%s] "%s %s" %d - "%s" "%s"`,
			timestamp, method, path, status, orDash(ctx.Header("Referer")), orDash(ctx.Header("User-Agent")))
	default:
		return fmt.Sprintf("%s %s %d %sms", method, path, status, ms)
	}
}

func statusColor(status int) string {
	switch {
	case status >= 500:
		return colorRed
	case status >= 400:
		return colorYellow
	case status >= 300:
		return colorCyan
	default:
		return colorGreen
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
