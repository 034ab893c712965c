package server

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/oven-ttta/oven-framework/pkg/routepath"
)

// Ctx is the per-request context passed through middleware to handlers.
// A Ctx is created fresh for every request and is never shared between
// requests. It is not safe for concurrent use by multiple goroutines.
type Ctx struct {
	request *http.Request
	stdCtx  context.Context
	logger  *slog.Logger

	path    string
	params  map[string]string
	query   map[string]string
	cookies *CookieJar
	route   string
	body    any
	values  map[any]any
}

// NewCtx builds the context for r. Query parameters keep the first value
// for each key; params start empty and are filled in once a route matches.
func NewCtx(r *http.Request, logger *slog.Logger) *Ctx {
	if logger == nil {
		logger = slog.Default()
	}
	query := make(map[string]string)
	for k, vs := range r.URL.Query() {
		if len(vs) > 0 {
			query[k] = vs[0]
		}
	}
	path := r.URL.Path
	if path == "" {
		path = "/"
	}
	return &Ctx{
		request: r,
		stdCtx:  r.Context(),
		logger:  logger,
		path:    routepath.TrimTrailingSlash(path),
		params:  map[string]string{},
		query:   query,
		cookies: parseCookies(r),
	}
}

// Request returns the underlying HTTP request.
func (c *Ctx) Request() *http.Request {
	return c.request
}

// Context returns the standard context for the request. Middleware may
// replace it (for example to carry a trace span) with SetContext.
func (c *Ctx) Context() context.Context {
	if c.stdCtx == nil {
		return context.Background()
	}
	return c.stdCtx
}

// SetContext replaces the standard context.
func (c *Ctx) SetContext(ctx context.Context) {
	c.stdCtx = ctx
}

// Method returns the HTTP method.
func (c *Ctx) Method() string {
	return c.request.Method
}

// Path returns the decoded request path with the trailing slash removed.
func (c *Ctx) Path() string {
	return c.path
}

// RawPath returns the escaped request path used for route matching.
func (c *Ctx) RawPath() string {
	return routepath.TrimTrailingSlash(c.request.URL.EscapedPath())
}

// Param returns a route parameter by name.
func (c *Ctx) Param(name string) string {
	return c.params[name]
}

// Params returns the route parameters of the matched route.
func (c *Ctx) Params() map[string]string {
	return c.params
}

// SetParams replaces the route parameters. Called by the dispatcher once a
// route matches.
func (c *Ctx) SetParams(params map[string]string) {
	if params == nil {
		params = map[string]string{}
	}
	c.params = params
}

// Query returns a single query parameter.
func (c *Ctx) Query(key string) string {
	return c.query[key]
}

// QueryParams returns all query parameters, first value per key.
func (c *Ctx) QueryParams() map[string]string {
	return c.query
}

// URL returns the request URL.
func (c *Ctx) URL() *url.URL {
	return c.request.URL
}

// Header returns a request header value.
func (c *Ctx) Header(key string) string {
	return c.request.Header.Get(key)
}

// Headers returns the request headers.
func (c *Ctx) Headers() http.Header {
	return c.request.Header
}

// Cookies returns the read/write cookie view for the request.
func (c *Ctx) Cookies() *CookieJar {
	return c.cookies
}

// Route returns the pattern of the matched route, or "" before matching.
func (c *Ctx) Route() string {
	return c.route
}

// SetRoute records the matched route pattern.
func (c *Ctx) SetRoute(pattern string) {
	c.route = pattern
}

// Body returns the decoded request body, if a handler wrapper parsed one.
func (c *Ctx) Body() any {
	return c.body
}

// SetBody stores a decoded request body.
func (c *Ctx) SetBody(v any) {
	c.body = v
}

// Logger returns the request-scoped logger.
func (c *Ctx) Logger() *slog.Logger {
	return c.logger
}

// SetLogger replaces the request-scoped logger.
func (c *Ctx) SetLogger(logger *slog.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// SetValue stores a request-scoped value.
func (c *Ctx) SetValue(key, value any) {
	if c.values == nil {
		c.values = make(map[any]any)
	}
	c.values[key] = value
}

// Value retrieves a request-scoped value.
func (c *Ctx) Value(key any) any {
	if c.values == nil {
		return nil
	}
	return c.values[key]
}
