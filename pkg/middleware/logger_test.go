package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/oven-ttta/oven-framework/pkg/server"
)

func fixedClock(t *testing.T, step time.Duration) {
	t.Helper()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls-1) * step)
	}
	t.Cleanup(func() { now = time.Now })
}

func TestLoggerFormats(t *testing.T) {
	tests := []struct {
		format LogFormat
		want   string
	}{
		{LogShort, "GET /users 404 1.50ms\n"},
		{LogCommon, `- - [2024-03-01T12:00:00.003Z] "GET /users" 404` + "\n"},
		{LogCombined, `- - [2024-03-01T12:00:00.003Z] "GET /users" 404 - "https://ref.example" "test-agent"` + "\n"},
		{LogDev, "\x1b[90mGET\x1b[0m /users \x1b[33m404\x1b[0m \x1b[90m1.50ms\x1b[0m\n"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			fixedClock(t, 1500*time.Microsecond)
			var out bytes.Buffer
			ctx := newCtxWithHeaders(http.MethodGet, "/users/", map[string]string{
				"Referer":    "https://ref.example",
				"User-Agent": "test-agent",
			})

			mw := Logger(LoggerOptions{Format: tt.format, Output: &out})
			if _, err := mw.Handle(ctx, respond(ctx, "", server.NotFound(), nil)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := out.String(); got != tt.want {
				t.Errorf("line = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoggerErrorLoggedAs500(t *testing.T) {
	var out bytes.Buffer
	ctx := newCtx(http.MethodPost, "/api")
	_, err := Logger(LoggerOptions{Format: LogShort, Output: &out}).Handle(ctx, respond(ctx, "", nil, errTest))
	if err != errTest {
		t.Fatalf("error not propagated: %v", err)
	}
	if !strings.HasPrefix(out.String(), "POST /api 500 ") {
		t.Errorf("line = %q", out.String())
	}
}

func TestLoggerSkip(t *testing.T) {
	var out bytes.Buffer
	ctx := newCtx(http.MethodGet, "/healthz")
	mw := Logger(LoggerOptions{
		Format: LogShort,
		Output: &out,
		Skip:   func(ctx *server.Ctx, _ *server.Response) bool { return ctx.Path() == "/healthz" },
	})
	if _, err := mw.Handle(ctx, respond(ctx, "", server.Text(200, "ok"), nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("skipped request logged: %q", out.String())
	}
}

func TestLoggerStructured(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&out, nil))
	ctx := server.NewCtx(httptest.NewRequest(http.MethodGet, "/blog/x", nil), logger)

	mw := Logger(LoggerOptions{Format: LogStructured})
	if _, err := mw.Handle(ctx, respond(ctx, "/blog/:slug", server.Text(200, "ok"), nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	line := out.String()
	for _, want := range []string{"level=INFO", "msg=request", "method=GET", "path=/blog/x", "status=200", "route=/blog/:slug"} {
		if !strings.Contains(line, want) {
			t.Errorf("record %q missing %q", line, want)
		}
	}
}

func TestLoggerStructuredLevels(t *testing.T) {
	tests := []struct {
		resp *server.Response
		err  error
		want string
	}{
		{server.NotFound(), nil, "level=WARN"},
		{nil, errTest, "level=ERROR"},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		ctx := server.NewCtx(httptest.NewRequest(http.MethodGet, "/", nil), slog.New(slog.NewTextHandler(&out, nil)))
		_, _ = Logger(LoggerOptions{Format: LogStructured}).Handle(ctx, respond(ctx, "", tt.resp, tt.err))
		if !strings.Contains(out.String(), tt.want) {
			t.Errorf("record %q, want %s", out.String(), tt.want)
		}
	}
}

func TestParseLogFormat(t *testing.T) {
	for _, s := range []string{"dev", "short", "common", "combined", "structured"} {
		if got, err := ParseLogFormat(s); err != nil || string(got) != s {
			t.Errorf("ParseLogFormat(%q) = %q, %v", s, got, err)
		}
	}
	if got, err := ParseLogFormat(""); err != nil || got != LogDev {
		t.Errorf("ParseLogFormat(\"\") = %q, %v; want dev", got, err)
	}
	if _, err := ParseLogFormat("apache"); err == nil {
		t.Error("ParseLogFormat(apache) succeeded")
	}
}

func TestStatusColor(t *testing.T) {
	tests := map[int]string{200: colorGreen, 302: colorCyan, 404: colorYellow, 503: colorRed}
	for status, want := range tests {
		if got := statusColor(status); got != want {
			t.Errorf("statusColor(%d) = %q, want %q", status, got, want)
		}
	}
}
