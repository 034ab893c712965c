package router

import "github.com/oven-ttta/oven-framework/pkg/server"

// Compose runs mw in order around handler. The first middleware is the
// outermost layer.
func Compose(ctx *server.Ctx, mw []Middleware, handler Next) (*server.Response, error) {
	if len(mw) == 0 {
		return handler()
	}

	// Build chain from end to start
	chain := handler
	for i := len(mw) - 1; i >= 0; i-- {
		m := mw[i]
		next := chain
		chain = func() (*server.Response, error) {
			return m.Handle(ctx, next)
		}
	}

	return chain()
}

// Chain creates a middleware that combines multiple middleware in order.
func Chain(middleware ...Middleware) Middleware {
	return MiddlewareFunc(func(ctx *server.Ctx, next Next) (*server.Response, error) {
		return Compose(ctx, middleware, next)
	})
}

// Skip bypasses mw when condition holds.
func Skip(condition func(ctx *server.Ctx) bool, mw Middleware) Middleware {
	return MiddlewareFunc(func(ctx *server.Ctx, next Next) (*server.Response, error) {
		if condition(ctx) {
			return next()
		}
		return mw.Handle(ctx, next)
	})
}

// Only runs mw only when condition holds.
func Only(condition func(ctx *server.Ctx) bool, mw Middleware) Middleware {
	return MiddlewareFunc(func(ctx *server.Ctx, next Next) (*server.Response, error) {
		if !condition(ctx) {
			return next()
		}
		return mw.Handle(ctx, next)
	})
}
