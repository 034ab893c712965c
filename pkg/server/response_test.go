package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestResponseHelpers(t *testing.T) {
	tests := []struct {
		name        string
		resp        *Response
		status      int
		contentType string
		body        string
	}{
		{"html", HTML(200, "<p>hi</p>"), 200, ContentTypeHTML, "<p>hi</p>"},
		{"text", Text(201, "ok"), 201, ContentTypeText, "ok"},
		{"not found", NotFound(), 404, ContentTypeText, "Not Found"},
		{"internal", InternalError(), 500, ContentTypeText, "Internal Server Error"},
		{"no content", NoContent(), 204, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.resp.Status != tt.status {
				t.Errorf("Status = %d, want %d", tt.resp.Status, tt.status)
			}
			if got := tt.resp.Header.Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			if string(tt.resp.Body) != tt.body {
				t.Errorf("Body = %q, want %q", tt.resp.Body, tt.body)
			}
		})
	}
}

func TestJSON(t *testing.T) {
	resp, err := JSON(200, map[string]any{"id": 1})
	if err != nil {
		t.Fatal(err)
	}
	if string(resp.Body) != `{"id":1}` {
		t.Fatalf("Body = %s", resp.Body)
	}
	if _, err := JSON(200, make(chan int)); err == nil {
		t.Fatal("expected encode error for channel")
	}
}

func TestRedirect(t *testing.T) {
	if r := Redirect("/login", 0); r.Status != http.StatusFound || r.Header.Get("Location") != "/login" {
		t.Fatalf("Redirect default = %d %q", r.Status, r.Header.Get("Location"))
	}
	if r := Redirect("/new", http.StatusPermanentRedirect); r.Status != 308 {
		t.Fatalf("Redirect 308 = %d", r.Status)
	}
	if r := Redirect("/x", 200); r.Status != http.StatusFound {
		t.Fatalf("non-redirect status should become 302, got %d", r.Status)
	}
}

func TestResponseWrite(t *testing.T) {
	resp := Text(202, "accepted")
	resp.SetCookies([]*http.Cookie{{Name: "a", Value: "1"}, {Name: "b", Value: "2"}})

	rec := httptest.NewRecorder()
	if err := resp.Write(rec); err != nil {
		t.Fatal(err)
	}
	if rec.Code != 202 || rec.Body.String() != "accepted" {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Values("Set-Cookie"); len(got) != 2 {
		t.Fatalf("Set-Cookie = %v", got)
	}
	if rec.Header().Get("Content-Length") != "8" {
		t.Fatalf("Content-Length = %q", rec.Header().Get("Content-Length"))
	}
}

func TestBindJSON(t *testing.T) {
	newCtx := func(ct, body string) *Ctx {
		r := httptest.NewRequest("POST", "/", strings.NewReader(body))
		r.Header.Set("Content-Type", ct)
		return NewCtx(r, nil)
	}

	var v struct{ Name string }
	if err := BindJSON(newCtx("application/json; charset=utf-8", `{"Name":"oven"}`), &v); err != nil {
		t.Fatal(err)
	}
	if v.Name != "oven" {
		t.Fatalf("Name = %q", v.Name)
	}

	if err := BindJSON(newCtx("application/json", `{bad`), &v); !errors.Is(err, ErrInvalidJSON) {
		t.Fatalf("malformed body err = %v", err)
	}
	if err := BindJSON(newCtx("text/plain", `{}`), &v); !errors.Is(err, ErrInvalidJSON) {
		t.Fatalf("wrong content type err = %v", err)
	}
}
