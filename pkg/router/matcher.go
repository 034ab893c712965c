package router

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/oven-ttta/oven-framework/pkg/routepath"
)

// Matcher is a compiled route pattern.
//
// Pattern components are literals, ":name" (one component), "*name" (one
// or more trailing components) and "*name?" (zero or more trailing
// components). The file-convention forms "[name]", "[...name]" and
// "[[...name]]" are accepted as well, and group components "(name)" are
// dropped. A component starting with a backslash is a literal, so `\:id`
// matches the text ":id". Literals are compared verbatim against the decoded
// request component.
type Matcher struct {
	pattern string
	segs    []routepath.Segment
	names   []string
}

// Compile parses pattern. Trailing slashes are normalized away.
func Compile(pattern string) (*Matcher, error) {
	m := &Matcher{}
	seen := make(map[string]bool)
	parts := routepath.SplitPath(pattern)

	for i, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("router: pattern %q has an empty segment", pattern)
		}
		seg := routepath.ParsePattern(part)
		switch {
		case seg.Kind == routepath.Group:
			continue
		case seg.IsParam():
			if seg.Param == "" {
				return nil, fmt.Errorf("router: pattern %q has an unnamed parameter", pattern)
			}
			if seen[seg.Param] {
				return nil, fmt.Errorf("router: pattern %q repeats parameter %q", pattern, seg.Param)
			}
			if seg.IsWildcard() && i != len(parts)-1 {
				return nil, fmt.Errorf("router: wildcard %q must be the last segment of %q", part, pattern)
			}
			seen[seg.Param] = true
			m.names = append(m.names, seg.Param)
		}
		m.segs = append(m.segs, seg)
	}
	m.pattern = routepath.JoinLogical(m.segs)
	return m, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(pattern string) *Matcher {
	m, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return m
}

// Pattern returns the canonical pattern, using ":name" and "*name" forms.
func (m *Matcher) Pattern() string {
	return m.pattern
}

// ParamNames returns the parameter names in capture order.
func (m *Matcher) ParamNames() []string {
	return m.names
}

// Depth returns the number of non-group segments.
func (m *Matcher) Depth() int {
	return len(m.segs)
}

// Match reports whether path matches the whole pattern and returns the
// captured values in ParamNames order. path is the escaped request path;
// captured values are percent-decoded.
func (m *Matcher) Match(path string) ([]string, bool) {
	return m.match(routepath.SplitPath(path), false)
}

// MatchPrefix reports whether the pattern matches a leading run of the
// components of path.
func (m *Matcher) MatchPrefix(path string) bool {
	_, ok := m.match(routepath.SplitPath(path), true)
	return ok
}

// Params is Match returning the captures keyed by parameter name.
func (m *Matcher) Params(path string) (map[string]string, bool) {
	values, ok := m.Match(path)
	if !ok {
		return nil, false
	}
	params := make(map[string]string, len(values))
	for i, name := range m.names {
		params[name] = values[i]
	}
	return params, true
}

func (m *Matcher) match(parts []string, prefix bool) ([]string, bool) {
	values := make([]string, 0, len(m.names))
	i := 0
	for _, seg := range m.segs {
		switch seg.Kind {
		case routepath.Static:
			if i >= len(parts) {
				return nil, false
			}
			v, err := routepath.DecodeSegment(parts[i], false)
			if err != nil || v != seg.Literal {
				return nil, false
			}
			i++
		case routepath.Dynamic:
			if i >= len(parts) || parts[i] == "" {
				return nil, false
			}
			v, err := routepath.DecodeSegment(parts[i], false)
			if err != nil {
				return nil, false
			}
			values = append(values, v)
			i++
		case routepath.CatchAll, routepath.OptionalCatchAll:
			rest := parts[i:]
			if len(rest) == 0 && seg.Kind == routepath.CatchAll {
				return nil, false
			}
			v, err := routepath.DecodeSegment(strings.Join(rest, "/"), true)
			if err != nil {
				return nil, false
			}
			values = append(values, v)
			i = len(parts)
		}
	}
	if i != len(parts) && !prefix {
		return nil, false
	}
	return values, true
}

// Build substitutes params into the pattern, producing an escaped path that
// Match accepts with the same values.
func (m *Matcher) Build(params map[string]string) (string, error) {
	var b strings.Builder
	for _, seg := range m.segs {
		switch seg.Kind {
		case routepath.Static:
			b.WriteByte('/')
			b.WriteString(url.PathEscape(seg.Literal))
		case routepath.Dynamic:
			v := params[seg.Param]
			if v == "" {
				return "", fmt.Errorf("router: missing value for parameter %q", seg.Param)
			}
			if strings.Contains(v, "/") {
				return "", fmt.Errorf("router: value for parameter %q contains a separator", seg.Param)
			}
			b.WriteByte('/')
			b.WriteString(url.PathEscape(v))
		case routepath.CatchAll, routepath.OptionalCatchAll:
			v := params[seg.Param]
			if v == "" {
				if seg.Kind == routepath.CatchAll {
					return "", fmt.Errorf("router: missing value for parameter %q", seg.Param)
				}
				continue
			}
			for _, part := range strings.Split(v, "/") {
				b.WriteByte('/')
				b.WriteString(url.PathEscape(part))
			}
		}
	}
	if b.Len() == 0 {
		return "/", nil
	}
	return b.String(), nil
}
