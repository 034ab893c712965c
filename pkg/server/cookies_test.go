package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCookieJarParse(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Cookie", "theme=dark; name=Ada%20Lovelace; empty=")

	jar := NewCtx(r, nil).Cookies()

	if v, ok := jar.Get("theme"); !ok || v != "dark" {
		t.Errorf("Get(theme) = %q, %v", v, ok)
	}
	if v, _ := jar.Get("name"); v != "Ada Lovelace" {
		t.Errorf("Get(name) = %q, want decoded value", v)
	}
	if v, ok := jar.Get("empty"); !ok || v != "" {
		t.Errorf("Get(empty) = %q, %v; want present and empty", v, ok)
	}
	if _, ok := jar.All()["empty"]; !ok {
		t.Error("All() dropped the empty cookie")
	}
	if len(jar.Pending()) != 0 {
		t.Error("parsing should not queue writes")
	}
}

func TestCookieJarSet(t *testing.T) {
	jar := NewCtx(httptest.NewRequest("GET", "/", nil), nil).Cookies()
	expires := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)

	jar.Set("session", "a b", CookieOptions{
		MaxAge:   3600,
		Expires:  expires,
		Path:     "/",
		Domain:   "example.com",
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if v, _ := jar.Get("session"); v != "a b" {
		t.Errorf("Get after Set = %q", v)
	}

	pending := jar.Pending()
	if len(pending) != 1 {
		t.Fatalf("Pending() len = %d", len(pending))
	}
	header := pending[0].String()
	for _, want := range []string{
		"session=a%20b",
		"Max-Age=3600",
		"Expires=Wed, 02 Jan 2030 03:04:05 GMT",
		"Path=/",
		"Domain=example.com",
		"Secure",
		"HttpOnly",
		"SameSite=Lax",
	} {
		if !strings.Contains(header, want) {
			t.Errorf("Set-Cookie %q missing %q", header, want)
		}
	}
}

func TestCookieJarDelete(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Cookie", "token=abc")
	jar := NewCtx(r, nil).Cookies()

	jar.Delete("token")

	if _, ok := jar.Get("token"); ok {
		t.Error("deleted cookie still readable")
	}
	header := jar.Pending()[0].String()
	if !strings.Contains(header, "token=") || !strings.Contains(header, "Max-Age=0") {
		t.Errorf("delete header = %q", header)
	}
}
