package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/oven-ttta/oven-framework/pkg/server"
)

func gunzip(t *testing.T, data []byte) string {
	t.Helper()
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("gzip.NewReader: %v", err)
	}
	out, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("read gzip: %v", err)
	}
	return string(out)
}

func TestCompress(t *testing.T) {
	page := strings.Repeat("<p>hello oven</p>", 200)

	tests := []struct {
		name     string
		accept   string
		resp     *server.Response
		wantGzip bool
	}{
		{"html", "gzip, deflate, br", server.HTML(200, page), true},
		{"wildcard", "*", server.HTML(200, page), true},
		{"not accepted", "br", server.HTML(200, page), false},
		{"refused by q", "gzip;q=0", server.HTML(200, page), false},
		{"small", "gzip", server.HTML(200, "<p>hi</p>"), false},
		{"binary", "gzip", server.NewResponse(200, "image/png", []byte(page)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newCtxWithHeaders(http.MethodGet, "/", map[string]string{"Accept-Encoding": tt.accept})
			resp, err := Compress(CompressOptions{}).Handle(ctx, respond(ctx, "/", tt.resp, nil))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			gzipped := resp.Header.Get("Content-Encoding") == "gzip"
			if gzipped != tt.wantGzip {
				t.Fatalf("gzipped = %v, want %v", gzipped, tt.wantGzip)
			}
			if gzipped {
				if got := gunzip(t, resp.Body); got != page {
					t.Error("decompressed body differs")
				}
				if resp.Header.Get("Vary") != "Accept-Encoding" {
					t.Errorf("Vary = %q", resp.Header.Get("Vary"))
				}
			}
		})
	}
}

func TestCompressSkipsEncodedResponses(t *testing.T) {
	body := bytes.Repeat([]byte("x"), 4096)
	resp := server.NewResponse(200, "text/plain", body)
	resp.Header.Set("Content-Encoding", "br")

	ctx := newCtxWithHeaders(http.MethodGet, "/", map[string]string{"Accept-Encoding": "gzip"})
	got, _ := Compress(CompressOptions{}).Handle(ctx, respond(ctx, "/", resp, nil))
	if got.Header.Get("Content-Encoding") != "br" || !bytes.Equal(got.Body, body) {
		t.Error("already encoded response was recompressed")
	}
}

func TestCompressMinSizeAndTypes(t *testing.T) {
	opts := CompressOptions{MinSize: 10, ContentTypes: []string{"application/json"}}
	ctx := newCtxWithHeaders(http.MethodGet, "/", map[string]string{"Accept-Encoding": "gzip"})

	resp, _ := Compress(opts).Handle(ctx, respond(ctx, "/", server.NewResponse(200, "application/json", []byte(`{"items":[1,2,3,4]}`)), nil))
	if resp.Header.Get("Content-Encoding") != "gzip" {
		t.Error("json above MinSize not compressed")
	}

	resp, _ = Compress(opts).Handle(ctx, respond(ctx, "/", server.HTML(200, strings.Repeat("a", 100)), nil))
	if resp.Header.Get("Content-Encoding") != "" {
		t.Error("html compressed though not listed")
	}
}

func TestAcceptsGzip(t *testing.T) {
	tests := map[string]bool{
		"":                  false,
		"gzip":              true,
		"GZIP":              true,
		"deflate, gzip;q=1": true,
		"gzip; q=0":         false,
		"identity":          false,
		"*;q=0.5":           true,
	}
	for header, want := range tests {
		if got := acceptsGzip(header); got != want {
			t.Errorf("acceptsGzip(%q) = %v, want %v", header, got, want)
		}
	}
}
