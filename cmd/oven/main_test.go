package main

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/oven-ttta/oven-framework/internal/config"
	"github.com/oven-ttta/oven-framework/internal/dev"
)

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func site(t *testing.T, oven string) string {
	return writeProject(t, map[string]string{
		"oven.json":             oven,
		"app/layout.html":       "<main>{{.Children}}</main>",
		"app/page.html":         "<h1>Home</h1>",
		"app/about/page.html":   "<h1>About</h1>",
		"app/(a)/faq/page.html": "<p>a</p>",
		"app/(b)/faq/page.html": "<p>b</p>",
		"public/site.css":       "body{}",
	})
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("oven %s: %v", strings.Join(args, " "), err)
	}
	return out.String()
}

func TestVersionCommand(t *testing.T) {
	out := run(t, "version", "--short")
	if strings.TrimSpace(out) != version {
		t.Errorf("version --short = %q, want %q", out, version)
	}

	out = run(t, "version")
	if !strings.Contains(out, "Go version:") {
		t.Errorf("version output missing Go version:\n%s", out)
	}
}

func TestRoutesCommand(t *testing.T) {
	dir := site(t, "{}")

	out := run(t, "routes", "-C", dir)

	for _, want := range []string{"METHOD", "GET", "/about", "about/page.html", "Conflicts:", "GET /faq"} {
		if !strings.Contains(out, want) {
			t.Errorf("routes output missing %q:\n%s", want, out)
		}
	}
}

func TestRoutesCommandJSON(t *testing.T) {
	dir := site(t, "{}")

	out := run(t, "routes", "--json", "-C", filepath.Join(dir, "app"))

	var rep routesReport
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if rep.Fingerprint == "" {
		t.Error("fingerprint is empty")
	}
	patterns := map[string]bool{}
	for _, r := range rep.Routes {
		patterns[r.Pattern] = true
	}
	for _, want := range []string{"/", "/about", "/faq"} {
		if !patterns[want] {
			t.Errorf("routes missing %s: %+v", want, rep.Routes)
		}
	}
	if len(rep.Conflicts) != 1 {
		t.Errorf("conflicts = %v, want one", rep.Conflicts)
	}
}

func TestRoutesCommandNotAProject(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"routes", "-C", t.TempDir()})
	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "E140") {
		t.Errorf("err = %v, want E140", err)
	}
}

func loadSite(t *testing.T, oven string) *config.Config {
	t.Helper()
	cfg, err := loadProject(site(t, oven))
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func quiet() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestHandler(t *testing.T) {
	cfg := loadSite(t, `{"metrics": {"enabled": true}, "compress": {"enabled": true, "minSize": 1}}`)
	var access bytes.Buffer
	app, err := newApp(cfg, quiet(), &access)
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(newHandler(cfg, app, nil))
	defer srv.Close()

	get := func(path string) (*http.Response, string) {
		t.Helper()
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp, string(body)
	}

	resp, body := get("/about")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "<main><h1>About</h1></main>") {
		t.Errorf("GET /about = %d %q", resp.StatusCode, body)
	}
	if resp.Header.Get("Vary") != "Accept-Encoding" {
		t.Errorf("Vary = %q, want Accept-Encoding from the compress middleware", resp.Header.Get("Vary"))
	}

	resp, body = get("/site.css")
	if resp.StatusCode != http.StatusOK || body != "body{}" {
		t.Errorf("GET /site.css = %d %q", resp.StatusCode, body)
	}

	resp, _ = get("/_oven/health")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health = %d", resp.StatusCode)
	}

	resp, _ = get("/missing")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET /missing = %d, want 404", resp.StatusCode)
	}

	resp, body = get(cfg.Metrics.Path)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("metrics = %d", resp.StatusCode)
	}
	if !strings.Contains(body, `oven_requests_total{method="GET",route="/about",status="200"}`) {
		t.Errorf("metrics missing request counter:\n%s", body)
	}

	if !strings.Contains(access.String(), "/about") {
		t.Errorf("access log = %q, want /about entry", access.String())
	}

	resp, _ = get(dev.ReloadPath)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("reload endpoint without dev = %d, want 404", resp.StatusCode)
	}
}

func TestHandlerDev(t *testing.T) {
	cfg := loadSite(t, `{"dev": {"enabled": true}, "accessLog": "off"}`)
	app, err := newApp(cfg, quiet(), io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	rs := dev.NewReloadServer(quiet())
	defer rs.Close()

	rec := httptest.NewRecorder()
	newHandler(cfg, app, rs).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.Contains(rec.Body.String(), dev.ReloadPath) {
		t.Error("dev pages should carry the reload client")
	}

	rec = httptest.NewRecorder()
	newHandler(cfg, app, rs).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, dev.ReloadPath, nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("plain GET of reload socket = %d, want 400", rec.Code)
	}
}

func TestServeOptionsApply(t *testing.T) {
	cfg := loadSite(t, `{"dev": {"enabled": true}}`)
	cmd := serveCmd(new(string))
	if err := cmd.Flags().Parse([]string{"--dev=false", "--port", "8081", "--log-format", "json"}); err != nil {
		t.Fatal(err)
	}
	opts := serveOptions{port: 8081, dev: false, logFormat: "json"}
	if err := opts.apply(cfg, cmd); err != nil {
		t.Fatal(err)
	}
	if cfg.Dev.Enabled {
		t.Error("--dev=false should turn dev mode off")
	}
	if cfg.Port != 8081 || cfg.LogFormat != "json" {
		t.Errorf("port = %d, logFormat = %q", cfg.Port, cfg.LogFormat)
	}

	bad := serveOptions{logFormat: "xml"}
	if err := bad.apply(cfg, serveCmd(new(string))); err == nil {
		t.Error("invalid log format should fail validation")
	}
}

func TestNewLogger(t *testing.T) {
	cfg := config.New()
	cfg.LogFormat = "json"
	var buf bytes.Buffer
	newLogger(cfg, &buf).Info("hello")
	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("json logger wrote %q", buf.String())
	}

	cfg.LogLevel = "warn"
	cfg.LogFormat = "text"
	buf.Reset()
	newLogger(cfg, &buf).Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info should be filtered at warn level, got %q", buf.String())
	}
}
