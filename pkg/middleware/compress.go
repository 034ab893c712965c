package middleware

import (
	"bytes"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"

	"github.com/oven-ttta/oven-framework/pkg/router"
	"github.com/oven-ttta/oven-framework/pkg/server"
)

// CompressOptions configures the Compress middleware.
type CompressOptions struct {
	// Level is the gzip level. Default: gzip.DefaultCompression.
	Level int

	// MinSize is the smallest body compressed, in bytes. Default: 1024.
	MinSize int

	// ContentTypes lists compressible media types. An entry ending in "/"
	// matches a whole top-level type.
	// Default: text/, application/json, application/javascript,
	// application/xml, image/svg+xml.
	ContentTypes []string
}

func (o CompressOptions) withDefaults() CompressOptions {
	if o.Level == 0 {
		o.Level = gzip.DefaultCompression
	}
	if o.MinSize == 0 {
		o.MinSize = 1024
	}
	if len(o.ContentTypes) == 0 {
		o.ContentTypes = []string{
			"text/",
			"application/json",
			"application/javascript",
			"application/xml",
			"image/svg+xml",
		}
	}
	return o
}

// Compress creates middleware that gzips response bodies for clients that
// accept it. Responses that are small, already encoded or of an
// incompressible type pass through unchanged.
func Compress(opts CompressOptions) router.Middleware {
	opts = opts.withDefaults()
	pool := sync.Pool{
		New: func() any {
			w, err := gzip.NewWriterLevel(nil, opts.Level)
			if err != nil {
				w = gzip.NewWriter(nil)
			}
			return w
		},
	}

	return router.MiddlewareFunc(func(ctx *server.Ctx, next router.Next) (*server.Response, error) {
		resp, err := next()
		if err != nil || resp == nil {
			return resp, err
		}
		if resp.Header == nil {
			resp.Header = make(http.Header)
		}
		if !compressible(opts, resp) {
			return resp, nil
		}
		resp.Header.Add("Vary", "Accept-Encoding")
		if !acceptsGzip(ctx.Header("Accept-Encoding")) {
			return resp, nil
		}

		var buf bytes.Buffer
		zw := pool.Get().(*gzip.Writer)
		zw.Reset(&buf)
		_, werr := zw.Write(resp.Body)
		cerr := zw.Close()
		pool.Put(zw)
		if werr != nil || cerr != nil {
			ctx.Logger().Warn("gzip failed", "path", ctx.Path(), "error", firstErr(werr, cerr))
			return resp, nil
		}

		resp.Body = buf.Bytes()
		resp.Header.Set("Content-Encoding", "gzip")
		resp.Header.Set("Content-Length", strconv.Itoa(len(resp.Body)))
		return resp, nil
	})
}

func compressible(opts CompressOptions, resp *server.Response) bool {
	if len(resp.Body) < opts.MinSize || resp.Header.Get("Content-Encoding") != "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	for _, ct := range opts.ContentTypes {
		if strings.HasSuffix(ct, "/") {
			if strings.HasPrefix(mediaType, ct) {
				return true
			}
		} else if mediaType == ct {
			return true
		}
	}
	return false
}

// acceptsGzip reports whether an Accept-Encoding header allows gzip. A
// q-value of 0 refuses it.
func acceptsGzip(header string) bool {
	for _, part := range strings.Split(header, ",") {
		coding, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		coding = strings.ToLower(strings.TrimSpace(coding))
		if coding != "gzip" && coding != "*" {
			continue
		}
		params = strings.ReplaceAll(params, " ", "")
		if q, ok := strings.CutPrefix(params, "q="); ok {
			if v, err := strconv.ParseFloat(q, 64); err == nil && v == 0 {
				return false
			}
		}
		return true
	}
	return false
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
