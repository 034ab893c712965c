package oven

import (
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/oven-ttta/oven-framework/pkg/routepath"
)

// =============================================================================
// Static File Serving
// =============================================================================

// Static returns a handler serving the files of cfg.Dir (or cfg.FS) under
// cfg.Prefix. Requests that name no file fall through to next, so the
// usual setup puts the App behind it:
//
//	http.ListenAndServe(":3000", oven.Static(oven.DefaultStaticConfig(), app))
//
// A nil next answers misses with 404. Traversal attempts are misses and
// never reach the filesystem.
func Static(cfg StaticConfig, next http.Handler) http.Handler {
	d := DefaultStaticConfig()
	if cfg.Prefix == "" {
		cfg.Prefix = d.Prefix
	}
	if cfg.Index == "" {
		cfg.Index = d.Index
	}
	fsys := cfg.FS
	if fsys == nil {
		fsys = os.DirFS(cfg.Dir)
	}
	if next == nil {
		next = http.NotFoundHandler()
	}
	return &staticHandler{cfg: cfg, fsys: fsys, next: next}
}

type staticHandler struct {
	cfg  StaticConfig
	fsys fs.FS
	next http.Handler
}

func (s *staticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rel, ok := s.relPath(r.URL.EscapedPath())
	if !ok {
		s.next.ServeHTTP(w, r)
		return
	}
	f, info, ok := s.open(rel)
	if !ok {
		s.next.ServeHTTP(w, r)
		return
	}
	defer f.Close()

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	rs, ok := f.(io.ReadSeeker)
	if !ok {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	s.applyCacheHeaders(w, rel)
	w.Header().Set("ETag", etag(rel, info))
	for key, value := range s.cfg.Headers {
		w.Header().Set(key, value)
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), rs)
}

// open returns the regular file at rel, or the index file of the
// directory at rel.
func (s *staticHandler) open(rel string) (fs.File, fs.FileInfo, bool) {
	f, info, err := stat(s.fsys, rel)
	if err != nil {
		return nil, nil, false
	}
	if !info.IsDir() {
		return f, info, true
	}
	f.Close()

	f, info, err = stat(s.fsys, path.Join(rel, s.cfg.Index))
	if err != nil {
		return nil, nil, false
	}
	if info.IsDir() {
		f.Close()
		return nil, nil, false
	}
	return f, info, true
}

func stat(fsys fs.FS, name string) (fs.File, fs.FileInfo, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return f, info, nil
}

// relPath maps an escaped request path to a file name in the static
// filesystem. Dot segments are rejected in both raw and decoded form so
// that "%2e%2e" cannot climb out of the directory.
func (s *staticHandler) relPath(escaped string) (string, bool) {
	rel, ok := stripStaticPrefix(escaped, s.cfg.Prefix)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(rel, "/") {
		return "", false
	}
	for _, seg := range strings.Split(rel, "/") {
		if seg == "." || seg == ".." {
			return "", false
		}
	}

	cleaned, err := routepath.Clean("/" + rel)
	if err != nil {
		return "", false
	}
	var parts []string
	for _, seg := range routepath.SplitPath(cleaned) {
		dec, err := routepath.DecodeSegment(seg, false)
		if err != nil || dec == "." || dec == ".." || strings.ContainsAny(dec, "\\\x00") {
			return "", false
		}
		parts = append(parts, dec)
	}
	if len(parts) == 0 {
		return ".", true
	}

	name := strings.Join(parts, "/")
	if !fs.ValidPath(name) {
		return "", false
	}
	return name, true
}

// stripStaticPrefix removes prefix from an escaped URL path. The result has
// no leading separator unless the request doubled it.
func stripStaticPrefix(urlPath, prefix string) (string, bool) {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	if urlPath+"/" == prefix {
		return "", true
	}
	rest, ok := strings.CutPrefix(urlPath, prefix)
	return rest, ok
}

// applyCacheHeaders sets Cache-Control for the configured strategy.
func (s *staticHandler) applyCacheHeaders(w http.ResponseWriter, filePath string) {
	switch s.cfg.CacheControl {
	case CacheControlNone:
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	case CacheControlProduction:
		if isFingerprinted(filePath) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
		}
	}
}

// etag is a weak validator derived from the file name, size and
// modification time.
func etag(name string, info fs.FileInfo) string {
	h := xxh3.HashString(fmt.Sprintf("%s|%d|%d", name, info.Size(), info.ModTime().UnixNano()))
	return fmt.Sprintf(`W/"%016x"`, h)
}

// isFingerprinted reports whether a file name carries a content hash, as in
// "app.a1b2c3d4.css".
func isFingerprinted(filePath string) bool {
	parts := strings.Split(path.Base(filePath), ".")
	if len(parts) < 3 {
		return false
	}

	hash := parts[len(parts)-2]
	if len(hash) < 8 {
		return false
	}
	for _, c := range hash {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}
