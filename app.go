package oven

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/zeebo/xxh3"

	oerrors "github.com/oven-ttta/oven-framework/internal/errors"
	"github.com/oven-ttta/oven-framework/pkg/router"
	"github.com/oven-ttta/oven-framework/pkg/server"
)

// =============================================================================
// App Type
// =============================================================================

// App is the main Oven application entry point. It builds the route tree
// from the app directory, runs middleware and dispatches requests. An App
// is an http.Handler.
//
//	app := oven.New(oven.Config{AppDir: "app"})
//	app.Use(middleware.Logger(middleware.LoggerDev, nil))
//	app.Get("/health", func(ctx *server.Ctx) (*server.Response, error) {
//	    return server.Text(http.StatusOK, "ok"), nil
//	})
//	if err := app.Init(); err != nil {
//	    log.Fatal(err)
//	}
//	http.ListenAndServe(":3000", app)
type App struct {
	config  Config
	logger  *slog.Logger
	builder *router.Builder

	// mu guards registration and rebuilds. Requests never take it.
	mu         sync.Mutex
	middleware []router.Middleware
	manual     *router.Table
	dirty      bool

	snap atomic.Pointer[snapshot]
}

// snapshot is everything one request reads. It is never modified after it
// is published.
type snapshot struct {
	table      *router.Table
	tree       *router.Tree
	middleware []router.Middleware
}

// New creates an application with the given configuration. Routes are not
// built until Init.
func New(cfg Config) *App {
	cfg = cfg.withDefaults()
	return &App{
		config: cfg,
		logger: cfg.Logger,
		builder: router.NewBuilder(
			router.WithLoader(cfg.Loader),
			router.WithLogger(cfg.Logger),
			router.WithLang(cfg.Lang),
			router.WithScripts(cfg.Scripts...),
			router.WithStyleSheets(cfg.StyleSheets...),
		),
		manual: router.NewTable(),
	}
}

// =============================================================================
// Registration
// =============================================================================

// Use appends global middleware. The first middleware added is the
// outermost. Middleware added after Init applies from the next Reload.
func (a *App) Use(mw ...router.Middleware) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.middleware = append(a.middleware, mw...)
	a.dirty = true
}

// Handle registers a route served ahead of every file route. It panics if
// path is not a valid pattern, as http.ServeMux does.
func (a *App) Handle(method, path string, h router.Handler) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.manual.MustAdd(method, path, h)
	a.dirty = true
}

// Get registers a GET route.
func (a *App) Get(path string, h router.Handler) { a.Handle(http.MethodGet, path, h) }

// Post registers a POST route.
func (a *App) Post(path string, h router.Handler) { a.Handle(http.MethodPost, path, h) }

// Put registers a PUT route.
func (a *App) Put(path string, h router.Handler) { a.Handle(http.MethodPut, path, h) }

// Patch registers a PATCH route.
func (a *App) Patch(path string, h router.Handler) { a.Handle(http.MethodPatch, path, h) }

// Delete registers a DELETE route.
func (a *App) Delete(path string, h router.Handler) { a.Handle(http.MethodDelete, path, h) }

// Head registers a HEAD route.
func (a *App) Head(path string, h router.Handler) { a.Handle(http.MethodHead, path, h) }

// Options registers an OPTIONS route.
func (a *App) Options(path string, h router.Handler) { a.Handle(http.MethodOptions, path, h) }

// =============================================================================
// Build and Reload
// =============================================================================

// Init builds the route tree once. Later calls do nothing; use Reload to
// rebuild.
func (a *App) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.snap.Load() != nil {
		return nil
	}
	_, err := a.rebuild()
	return err
}

// Reload rebuilds the route tree and swaps it in for subsequent requests.
// It reports whether anything changed; an unchanged app directory with no
// new registrations keeps the current snapshot. Requests in flight finish
// on the snapshot they started with.
func (a *App) Reload() (changed bool, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rebuild()
}

func (a *App) rebuild() (bool, error) {
	var tree *router.Tree
	if a.config.AppFS != nil {
		tree = a.builder.BuildFS(a.config.AppFS)
	} else {
		tree = a.builder.Build(a.config.AppDir)
	}

	old := a.snap.Load()
	if old != nil && !a.dirty && old.tree.Fingerprint == tree.Fingerprint {
		return false, nil
	}

	table := router.NewTable()
	if err := table.Merge(a.manual, "/"); err != nil {
		return false, err
	}
	if err := table.Merge(tree.Table, a.config.BasePath); err != nil {
		return false, fmt.Errorf("oven: mount routes under %q: %w", a.config.BasePath, err)
	}

	a.snap.Store(&snapshot{
		table:      table,
		tree:       tree,
		middleware: append([]router.Middleware(nil), a.middleware...),
	})
	a.dirty = false

	a.logger.Info("routes ready",
		"routes", table.Len(),
		"problems", len(tree.Problems),
		"fingerprint", tree.Fingerprint,
	)
	return true, nil
}

// current returns the published snapshot, building it on first use.
func (a *App) current() *snapshot {
	if s := a.snap.Load(); s != nil {
		return s
	}
	if err := a.Init(); err != nil {
		a.logger.Error("route build failed", "error", err)
	}
	if s := a.snap.Load(); s != nil {
		return s
	}
	return &snapshot{table: router.NewTable(), tree: a.builder.BuildFS(emptyFS{})}
}

// Routes returns every route of the current snapshot in match order within
// each method.
func (a *App) Routes() []*router.Route {
	return a.current().table.Routes()
}

// Conflicts reports routes of the current snapshot that are shadowed by
// an earlier route with the same method and pattern.
func (a *App) Conflicts() []router.Conflict {
	return router.Conflicts(a.current().table)
}

// Tree returns the route tree of the current snapshot.
func (a *App) Tree() *router.Tree {
	return a.current().tree
}

// Config returns the app configuration.
func (a *App) Config() Config {
	return a.config
}

// =============================================================================
// http.Handler Implementation
// =============================================================================

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := a.Dispatch(r)
	if err := resp.Write(w); err != nil {
		a.logger.Debug("response write failed", "path", r.URL.Path, "error", err)
	}
}

// Handler returns the App as an http.Handler.
func (a *App) Handler() http.Handler {
	return a
}

// Dispatch runs r through middleware and the matched route and returns the
// response. It never fails: unmatched requests get a 404, and handler
// errors and panics get a 500 whose body never contains the error text.
func (a *App) Dispatch(r *http.Request) *server.Response {
	snap := a.current()
	ctx := server.NewCtx(r, a.logger)

	var matched *router.Match
	resp, err := a.run(ctx, snap, &matched)
	if err != nil {
		resp = a.fail(ctx, snap, matched, err)
	} else if resp == nil {
		resp = server.NoContent()
	}
	resp.SetCookies(ctx.Cookies().Pending())
	return resp
}

func (a *App) run(ctx *server.Ctx, snap *snapshot, matched **router.Match) (resp *server.Response, err error) {
	defer func() {
		if v := recover(); v != nil {
			if v == http.ErrAbortHandler {
				panic(v)
			}
			resp, err = nil, &panicError{value: v, stack: debug.Stack()}
		}
	}()

	return router.Compose(ctx, snap.middleware, func() (*server.Response, error) {
		m, ok := snap.table.Match(ctx.Method(), ctx.RawPath())
		if !ok {
			return a.notFound(ctx, snap), nil
		}
		*matched = m
		ctx.SetParams(m.Params)
		ctx.SetRoute(m.Route.Pattern)

		resp, err := m.Route.Handler(ctx)
		if err == nil && resp == nil {
			resp = server.NoContent()
		}
		return resp, err
	})
}

// notFound renders the deepest not-found boundary for the request path,
// or the plain 404.
func (a *App) notFound(ctx *server.Ctx, snap *snapshot) *server.Response {
	path, ok := stripBase(ctx.RawPath(), a.config.BasePath)
	if !ok {
		return server.NotFound()
	}
	bd, ok := snap.tree.Boundaries.ForPath(router.NotFound, path)
	if !ok {
		return server.NotFound()
	}
	props := router.BoundaryProps{Status: http.StatusNotFound, Path: ctx.Path()}
	html, err := renderBoundary(ctx, snap, bd, props, nil)
	if err != nil {
		e := oerrors.New("E202").WithLocation(bd.Source, 0, 0).Wrap(err)
		a.logger.Error(e.Message, "code", e.Code, "file", bd.Source, "error", err)
		return server.NotFound()
	}
	return server.HTML(http.StatusNotFound, html)
}

// fail logs err and converts it to a 500 response, rendered by the nearest
// error boundary when there is one.
func (a *App) fail(ctx *server.Ctx, snap *snapshot, matched *router.Match, err error) *server.Response {
	digest := errorDigest(ctx, err)

	e := oerrors.New("E200").Wrap(err)
	attrs := []any{"method", ctx.Method(), "path", ctx.Path(), "route", ctx.Route(), "digest", digest}
	var pe *panicError
	if asPanic(err, &pe) {
		e = oerrors.New("E201").Wrap(err)
		attrs = append(attrs, "stack", string(pe.stack))
	}
	a.logger.Error(e.Message, append([]any{"code", e.Code, "error", err}, attrs...)...)

	var (
		bd     *router.Boundary
		ok     bool
		params map[string]string
	)
	if matched != nil {
		bd, ok = snap.tree.Boundaries.ForScope(router.ErrorBoundary, matched.Route.Scope)
		params = matched.Params
	} else if path, inBase := stripBase(ctx.RawPath(), a.config.BasePath); inBase {
		bd, ok = snap.tree.Boundaries.ForPath(router.ErrorBoundary, path)
	}
	if !ok {
		return server.InternalError()
	}

	props := router.BoundaryProps{Status: http.StatusInternalServerError, Path: ctx.Path(), Digest: digest}
	html, rerr := renderBoundary(ctx, snap, bd, props, params)
	if rerr != nil {
		re := oerrors.New("E202").WithLocation(bd.Source, 0, 0).Wrap(rerr)
		a.logger.Error(re.Message, "code", re.Code, "file", bd.Source, "digest", digest, "error", rerr)
		return server.InternalError()
	}
	return server.HTML(http.StatusInternalServerError, html)
}

// renderBoundary renders bd, converting a panic in the boundary or its
// layouts into an error.
func renderBoundary(ctx *server.Ctx, snap *snapshot, bd *router.Boundary, props router.BoundaryProps, params map[string]string) (html string, err error) {
	defer func() {
		if v := recover(); v != nil {
			if v == http.ErrAbortHandler {
				panic(v)
			}
			html, err = "", &panicError{value: v, stack: debug.Stack()}
		}
	}()
	return snap.tree.RenderBoundary(ctx.Context(), bd, props, params)
}

// stripBase removes the base path from an escaped request path and reports
// whether the path lies under it.
func stripBase(path, base string) (string, bool) {
	base = strings.TrimSuffix(base, "/")
	if base == "" {
		return path, true
	}
	if path == base {
		return "/", true
	}
	if rest, ok := strings.CutPrefix(path, base+"/"); ok {
		return "/" + rest, true
	}
	return "", false
}

// errorDigest identifies a failure in the log without exposing it to the
// client. Identical failures on the same route share a digest.
func errorDigest(ctx *server.Ctx, err error) string {
	return fmt.Sprintf("%016x", xxh3.HashString(ctx.Method()+" "+ctx.Route()+" "+err.Error()))
}

// panicError is a recovered panic.
type panicError struct {
	value any
	stack []byte
}

func (p *panicError) Error() string { return fmt.Sprintf("panic: %v", p.value) }

func (p *panicError) Unwrap() error {
	if err, ok := p.value.(error); ok {
		return err
	}
	return nil
}

func asPanic(err error, target **panicError) bool {
	pe, ok := err.(*panicError)
	if ok {
		*target = pe
	}
	return ok
}

// emptyFS has no files. It backs the placeholder snapshot served when the
// first build fails.
type emptyFS struct{}

func (emptyFS) Open(name string) (fs.File, error) {
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}
