package routepath

import (
	"errors"
	"net/url"
	"strings"
)

// Path errors.
var (
	ErrInvalidPath           = errors.New("invalid path")
	ErrBackslashInPath       = errors.New("path contains backslash")
	ErrNullByteInPath        = errors.New("path contains null byte")
	ErrInvalidEscape         = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot       = errors.New("path escapes root via ..")
	ErrEncodedSlashInSegment = errors.New("encoded slash (%2F) in single segment")
)

// TrimTrailingSlash strips a trailing separator from non-root paths. The
// empty path and "/" both normalize to "/". A missing leading separator is
// added.
func TrimTrailingSlash(p string) string {
	if p == "" || p == "/" {
		return "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = p[:len(p)-1]
	}
	return p
}

// SplitPath returns the components of p after trailing-slash normalization.
// The root path has no components. Empty components inside the path are
// kept so that "/a//b" never matches a pattern written for "/a/b".
func SplitPath(p string) []string {
	p = TrimTrailingSlash(p)
	if p == "/" {
		return nil
	}
	return strings.Split(p[1:], "/")
}

// Ancestors returns every prefix of the logical path p from the root down
// to p itself: "/a/b" yields "/", "/a", "/a/b".
func Ancestors(p string) []string {
	parts := SplitPath(p)
	out := make([]string, 0, len(parts)+1)
	out = append(out, "/")
	for i := range parts {
		out = append(out, "/"+strings.Join(parts[:i+1], "/"))
	}
	return out
}

// Join appends path to prefix with exactly one separator between them and
// normalizes the trailing slash. Join("/api", "/") is "/api".
func Join(prefix, path string) string {
	prefix = strings.TrimSuffix(prefix, "/")
	if path == "" || path == "/" {
		return TrimTrailingSlash(prefix)
	}
	if path[0] != '/' {
		path = "/" + path
	}
	return TrimTrailingSlash(prefix + path)
}

// DecodeSegment percent-decodes one matched component. A single-segment
// parameter that decodes to something containing "/" is rejected so that
// %2F cannot smuggle a separator into it.
func DecodeSegment(segment string, isCatchAll bool) (string, error) {
	if !strings.Contains(segment, "%") {
		return segment, nil
	}
	decoded, err := url.PathUnescape(segment)
	if err != nil {
		return "", ErrInvalidEscape
	}
	if !isCatchAll && strings.Contains(decoded, "/") {
		return "", ErrEncodedSlashInSegment
	}
	return decoded, nil
}

// Clean normalizes a request path for filesystem lookups:
//   - collapse repeated separators
//   - drop "." components and resolve ".."
//   - strip the trailing separator (except root)
//
// Backslashes, NUL bytes, invalid escapes and ".." above the root are
// rejected.
func Clean(input string) (string, error) {
	if input == "" {
		return "/", nil
	}
	p, _, _ := strings.Cut(input, "?")

	if strings.Contains(p, "\\") {
		return "", ErrBackslashInPath
	}
	if strings.Contains(p, "\x00") || strings.Contains(strings.ToUpper(p), "%00") {
		return "", ErrNullByteInPath
	}
	if strings.Contains(p, "%") {
		if err := validateEscapes(p); err != nil {
			return "", err
		}
	}

	var out []string
	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(out) == 0 {
				return "", ErrPathEscapesRoot
			}
			out = out[:len(out)-1]
		default:
			out = append(out, seg)
		}
	}
	return "/" + strings.Join(out, "/"), nil
}

func validateEscapes(p string) error {
	for i := 0; i < len(p); i++ {
		if p[i] != '%' {
			continue
		}
		if i+2 >= len(p) || !isHexDigit(p[i+1]) || !isHexDigit(p[i+2]) {
			return ErrInvalidEscape
		}
		i += 2
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
