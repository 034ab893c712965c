package router

import (
	"reflect"
	"testing"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
		names   []string
	}{
		{"/", "/", nil},
		{"", "/", nil},
		{"/about", "/about", nil},
		{"/about/", "/about", nil},
		{"/blog/:slug", "/blog/:slug", []string{"slug"}},
		{"/blog/[slug]", "/blog/:slug", []string{"slug"}},
		{"/docs/*path", "/docs/*path", []string{"path"}},
		{"/docs/[...path]", "/docs/*path", []string{"path"}},
		{"/shop/[[...rest]]", "/shop/*rest?", []string{"rest"}},
		{"/shop/*rest?", "/shop/*rest?", []string{"rest"}},
		{"/(marketing)/pricing", "/pricing", nil},
		{"/users/:id/posts/:post", "/users/:id/posts/:post", []string{"id", "post"}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			m, err := Compile(tt.pattern)
			if err != nil {
				t.Fatalf("Compile(%q) error = %v", tt.pattern, err)
			}
			if m.Pattern() != tt.want {
				t.Errorf("Pattern() = %q, want %q", m.Pattern(), tt.want)
			}
			if !reflect.DeepEqual(m.ParamNames(), tt.names) {
				t.Errorf("ParamNames() = %v, want %v", m.ParamNames(), tt.names)
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	patterns := []string{
		"/a//b",
		"/*",
		"/:id/:id",
		"/[id]/[...id]",
		"/*path/more",
		"/[[...rest]]/more",
	}
	for _, p := range patterns {
		if _, err := Compile(p); err == nil {
			t.Errorf("Compile(%q) expected error", p)
		}
	}
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustCompile did not panic")
		}
	}()
	MustCompile("/:id/:id")
}

func TestMatcherMatch(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    map[string]string
		ok      bool
	}{
		{"/", "/", map[string]string{}, true},
		{"/", "/about", nil, false},
		{"/about", "/about", map[string]string{}, true},
		{"/about", "/about/", map[string]string{}, true},
		{"/about", "/About", nil, false},
		{"/about", "/about/team", nil, false},
		{"/blog/:slug", "/blog/hello", map[string]string{"slug": "hello"}, true},
		{"/blog/:slug", "/blog", nil, false},
		{"/blog/:slug", "/blog/a/b", nil, false},
		{"/blog/:slug", "/blog/hello%20world", map[string]string{"slug": "hello world"}, true},
		{"/blog/:slug", "/blog/a%2Fb", nil, false},
		{"/blog/:slug", "/blog/%zz", nil, false},
		{"/docs/*path", "/docs/a", map[string]string{"path": "a"}, true},
		{"/docs/*path", "/docs/a/b/c", map[string]string{"path": "a/b/c"}, true},
		{"/docs/*path", "/docs/a%2Fb", map[string]string{"path": "a/b"}, true},
		{"/docs/*path", "/docs", nil, false},
		{"/shop/*rest?", "/shop", map[string]string{"rest": ""}, true},
		{"/shop/*rest?", "/shop/x/y", map[string]string{"rest": "x/y"}, true},
		{"/users/:id/posts/:post", "/users/7/posts/42", map[string]string{"id": "7", "post": "42"}, true},
		{"/a b", "/a%20b", map[string]string{}, true},
		{"/c++", "/c++", map[string]string{}, true},
		{"/v1.0", "/v1x0", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.path, func(t *testing.T) {
			got, ok := MustCompile(tt.pattern).Params(tt.path)
			if ok != tt.ok {
				t.Fatalf("Params(%q) ok = %v, want %v", tt.path, ok, tt.ok)
			}
			if ok && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Params(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestMatcherMatchPrefix(t *testing.T) {
	m := MustCompile("/blog/:slug")
	for path, want := range map[string]bool{
		"/blog/x":        true,
		"/blog/x/y/z":    true,
		"/blog":          false,
		"/shop/x":        false,
		"/blog/x/extra/": true,
	} {
		if got := m.MatchPrefix(path); got != want {
			t.Errorf("MatchPrefix(%q) = %v, want %v", path, got, want)
		}
	}

	if !MustCompile("/").MatchPrefix("/anything/at/all") {
		t.Error("root pattern should prefix-match every path")
	}
}

func TestMatcherDepth(t *testing.T) {
	for pattern, want := range map[string]int{
		"/":                 0,
		"/a":                1,
		"/(group)/a/:b":     2,
		"/docs/[...path]":   2,
		"/(g)/(h)/[[...x]]": 1,
	} {
		if got := MustCompile(pattern).Depth(); got != want {
			t.Errorf("Depth(%q) = %d, want %d", pattern, got, want)
		}
	}
}

func TestMatcherBuildRoundTrip(t *testing.T) {
	tests := []struct {
		pattern string
		params  map[string]string
		want    string
	}{
		{"/", nil, "/"},
		{"/blog/:slug", map[string]string{"slug": "hello world"}, "/blog/hello%20world"},
		{"/docs/*path", map[string]string{"path": "a/b c"}, "/docs/a/b%20c"},
		{"/shop/*rest?", map[string]string{}, "/shop"},
		{"/users/:id/posts/:post", map[string]string{"id": "7", "post": "42"}, "/users/7/posts/42"},
	}

	for _, tt := range tests {
		m := MustCompile(tt.pattern)
		got, err := m.Build(tt.params)
		if err != nil {
			t.Fatalf("Build(%v) error = %v", tt.params, err)
		}
		if got != tt.want {
			t.Errorf("Build(%v) = %q, want %q", tt.params, got, tt.want)
		}
		back, ok := m.Params(got)
		if !ok {
			t.Fatalf("built path %q does not match %q", got, tt.pattern)
		}
		for name, v := range tt.params {
			if back[name] != v {
				t.Errorf("round trip %s = %q, want %q", name, back[name], v)
			}
		}
	}
}

func TestMatcherBuildErrors(t *testing.T) {
	if _, err := MustCompile("/blog/:slug").Build(nil); err == nil {
		t.Error("Build with missing param expected error")
	}
	if _, err := MustCompile("/blog/:slug").Build(map[string]string{"slug": "a/b"}); err == nil {
		t.Error("Build with separator in single segment expected error")
	}
	if _, err := MustCompile("/docs/*path").Build(nil); err == nil {
		t.Error("Build with missing catch-all expected error")
	}
}
