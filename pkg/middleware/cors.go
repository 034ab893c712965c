package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/oven-ttta/oven-framework/pkg/router"
	"github.com/oven-ttta/oven-framework/pkg/server"
)

// CORSOptions configures the CORS middleware. The zero value allows every
// origin.
type CORSOptions struct {
	// Origins lists the allowed origins. Empty allows any origin ("*", or
	// the request's origin when Credentials is set).
	Origins []string

	// AllowOrigin decides dynamically. It takes precedence over Origins.
	AllowOrigin func(origin string) bool

	// Methods are advertised in preflight responses.
	// Default: GET, HEAD, PUT, PATCH, POST, DELETE.
	Methods []string

	// AllowedHeaders are advertised in preflight responses.
	// Default: Content-Type, Authorization.
	AllowedHeaders []string

	// ExposedHeaders are listed in Access-Control-Expose-Headers.
	ExposedHeaders []string

	// Credentials sets Access-Control-Allow-Credentials.
	Credentials bool

	// MaxAge is the preflight cache lifetime in seconds. Default: 86400.
	// Negative omits the header.
	MaxAge int
}

func (o CORSOptions) withDefaults() CORSOptions {
	if len(o.Methods) == 0 {
		o.Methods = []string{"GET", "HEAD", "PUT", "PATCH", "POST", "DELETE"}
	}
	if len(o.AllowedHeaders) == 0 {
		o.AllowedHeaders = []string{"Content-Type", "Authorization"}
	}
	if o.MaxAge == 0 {
		o.MaxAge = 86400
	}
	return o
}

// allowed returns the Access-Control-Allow-Origin value for origin, or ""
// when the origin is refused. Browsers reject "*" on credentialed requests,
// so with Credentials set an allowed origin is echoed instead.
func (o CORSOptions) allowed(origin string) string {
	allow := o.match(origin)
	if allow == "*" && o.Credentials {
		return origin
	}
	return allow
}

func (o CORSOptions) match(origin string) string {
	switch {
	case o.AllowOrigin != nil:
		if origin != "" && o.AllowOrigin(origin) {
			return origin
		}
		return ""
	case len(o.Origins) == 0:
		return "*"
	case slices.Contains(o.Origins, "*"):
		return "*"
	case slices.Contains(o.Origins, origin):
		return origin
	default:
		return ""
	}
}

// CORS creates middleware that answers preflight requests with 204 and adds
// CORS headers to every other response. A preflight is an OPTIONS request
// carrying Access-Control-Request-Method; plain OPTIONS requests reach the
// routes. Refused origins get no Access-Control-Allow-Origin header.
func CORS(opts CORSOptions) router.Middleware {
	opts = opts.withDefaults()
	methods := strings.Join(opts.Methods, ", ")
	allowedHeaders := strings.Join(opts.AllowedHeaders, ", ")
	exposed := strings.Join(opts.ExposedHeaders, ", ")

	return router.MiddlewareFunc(func(ctx *server.Ctx, next router.Next) (*server.Response, error) {
		origin := ctx.Header("Origin")
		allow := opts.allowed(origin)

		if ctx.Method() == http.MethodOptions && ctx.Header("Access-Control-Request-Method") != "" {
			resp := server.NoContent()
			setOrigin(resp.Header, allow)
			resp.Header.Set("Access-Control-Allow-Methods", methods)
			resp.Header.Set("Access-Control-Allow-Headers", allowedHeaders)
			if opts.MaxAge > 0 {
				resp.Header.Set("Access-Control-Max-Age", strconv.Itoa(opts.MaxAge))
			}
			if opts.Credentials {
				resp.Header.Set("Access-Control-Allow-Credentials", "true")
			}
			return resp, nil
		}

		resp, err := next()
		if err != nil {
			return resp, err
		}
		if resp == nil {
			resp = server.NoContent()
		}
		if resp.Header == nil {
			resp.Header = make(http.Header)
		}
		setOrigin(resp.Header, allow)
		if exposed != "" {
			resp.Header.Set("Access-Control-Expose-Headers", exposed)
		}
		if opts.Credentials {
			resp.Header.Set("Access-Control-Allow-Credentials", "true")
		}
		return resp, nil
	})
}

func setOrigin(h http.Header, allow string) {
	if allow == "" {
		return
	}
	h.Set("Access-Control-Allow-Origin", allow)
	if allow != "*" {
		h.Add("Vary", "Origin")
	}
}
