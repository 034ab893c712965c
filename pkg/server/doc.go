// Package server holds the request-side values shared by the router, the
// dispatcher and middleware: the per-request context, its cookie jar and
// the buffered Response type with its constructors.
//
// # Context
//
// A Ctx wraps the incoming *http.Request with the pieces the router fills
// in while dispatching:
//
//	func show(ctx *server.Ctx) (*server.Response, error) {
//	    id := ctx.Param("id")
//	    if v, ok := ctx.Cookies().Get("theme"); ok {
//	        ctx.Logger().Debug("theme", "value", v)
//	    }
//	    return server.JSON(http.StatusOK, map[string]string{"id": id})
//	}
//
// # Cookies
//
// Cookie writes are queued on the jar and emitted as Set-Cookie headers on
// whatever response the request finally produces.
package server
