package router

import (
	"context"

	"github.com/oven-ttta/oven-framework/pkg/metadata"
	"github.com/oven-ttta/oven-framework/pkg/server"
)

// Handler serves a matched route. Returning an error, like panicking,
// makes the dispatcher answer with its fixed internal error response.
type Handler func(ctx *server.Ctx) (*server.Response, error)

// Next continues a middleware chain.
type Next func() (*server.Response, error)

// Middleware wraps the rest of the chain. It may return its own response
// without calling next, change ctx before calling next, or post-process
// the response next returns.
type Middleware interface {
	Handle(ctx *server.Ctx, next Next) (*server.Response, error)
}

// MiddlewareFunc is a function adapter for Middleware.
type MiddlewareFunc func(ctx *server.Ctx, next Next) (*server.Response, error)

// Handle implements Middleware.
func (f MiddlewareFunc) Handle(ctx *server.Ctx, next Next) (*server.Response, error) {
	return f(ctx, next)
}

// PageProps is passed to page render functions.
type PageProps struct {
	Params map[string]string
	Query  map[string]string
	Ctx    *server.Ctx
}

// LayoutProps is passed to layout render functions.
type LayoutProps struct {
	Children string
	Params   map[string]string
}

// BoundaryProps is passed to loading, error and not-found render
// functions. Digest identifies a failure in the server log without
// exposing its message.
type BoundaryProps struct {
	Status int
	Path   string
	Digest string
}

// PageModule is a loaded page file.
type PageModule struct {
	// Render produces the page markup.
	Render func(ctx context.Context, props PageProps) (string, error)

	// Metadata is the static page metadata.
	Metadata *metadata.Metadata

	// GenerateMetadata, when set, computes metadata per request and takes
	// precedence over Metadata.
	GenerateMetadata func(ctx context.Context, props PageProps) (*metadata.Metadata, error)
}

// LayoutModule is a loaded layout file.
type LayoutModule struct {
	Render   func(ctx context.Context, props LayoutProps) (string, error)
	Metadata *metadata.Metadata
}

// APIFunc handles one HTTP method of an API route. A *server.Response
// result is sent as is; any other non-nil value is encoded as JSON; nil
// produces 204 No Content.
type APIFunc func(ctx *server.Ctx) (any, error)

// RouteModule is a loaded API route file, keyed by HTTP method.
type RouteModule struct {
	GET     APIFunc
	POST    APIFunc
	PUT     APIFunc
	PATCH   APIFunc
	DELETE  APIFunc
	HEAD    APIFunc
	OPTIONS APIFunc
}

// Methods returns the exported handlers in a fixed method order.
func (m *RouteModule) Methods() []MethodFunc {
	all := []MethodFunc{
		{"GET", m.GET},
		{"POST", m.POST},
		{"PUT", m.PUT},
		{"PATCH", m.PATCH},
		{"DELETE", m.DELETE},
		{"HEAD", m.HEAD},
		{"OPTIONS", m.OPTIONS},
	}
	out := all[:0]
	for _, mf := range all {
		if mf.Func != nil {
			out = append(out, mf)
		}
	}
	return out
}

// MethodFunc pairs a method with its handler.
type MethodFunc struct {
	Method string
	Func   APIFunc
}

// BoundaryModule is a loaded loading, error or not-found file.
type BoundaryModule struct {
	Render func(ctx context.Context, props BoundaryProps) (string, error)
}
