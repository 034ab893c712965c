package router

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/oven-ttta/oven-framework/pkg/server"
)

func newCtx(method, target string) *server.Ctx {
	return server.NewCtx(httptest.NewRequest(method, target, nil), nil)
}

func recordMW(order *[]string, name string) Middleware {
	return MiddlewareFunc(func(ctx *server.Ctx, next Next) (*server.Response, error) {
		*order = append(*order, name+"-before")
		resp, err := next()
		*order = append(*order, name+"-after")
		return resp, err
	})
}

func TestComposeEmpty(t *testing.T) {
	called := false
	resp, err := Compose(newCtx("GET", "/"), nil, func() (*server.Response, error) {
		called = true
		return server.NoContent(), nil
	})
	if err != nil || !called || resp.Status != http.StatusNoContent {
		t.Errorf("Compose() = %v, %v, called=%v", resp, err, called)
	}
}

func TestComposeOrder(t *testing.T) {
	var order []string
	handler := func() (*server.Response, error) {
		order = append(order, "handler")
		return server.NoContent(), nil
	}

	_, err := Compose(newCtx("GET", "/"), []Middleware{recordMW(&order, "mw1"), recordMW(&order, "mw2")}, handler)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	want := []string{"mw1-before", "mw2-before", "handler", "mw2-after", "mw1-after"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestComposeShortCircuit(t *testing.T) {
	called := false
	deny := MiddlewareFunc(func(ctx *server.Ctx, next Next) (*server.Response, error) {
		return server.Text(http.StatusForbidden, "no"), nil
	})
	resp, err := Compose(newCtx("GET", "/"), []Middleware{deny}, func() (*server.Response, error) {
		called = true
		return server.NoContent(), nil
	})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if called {
		t.Error("handler ran after middleware returned early")
	}
	if resp.Status != http.StatusForbidden {
		t.Errorf("Status = %d, want 403", resp.Status)
	}
}

func TestComposeError(t *testing.T) {
	boom := errors.New("boom")
	var order []string
	_, err := Compose(newCtx("GET", "/"), []Middleware{recordMW(&order, "mw")}, func() (*server.Response, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("Compose() error = %v, want %v", err, boom)
	}
	if len(order) != 2 {
		t.Errorf("middleware did not unwind: %v", order)
	}
}

func TestComposePostProcess(t *testing.T) {
	tag := MiddlewareFunc(func(ctx *server.Ctx, next Next) (*server.Response, error) {
		resp, err := next()
		if err == nil {
			resp.Header.Set("X-Seen", "1")
		}
		return resp, err
	})
	resp, _ := Compose(newCtx("GET", "/"), []Middleware{tag}, func() (*server.Response, error) {
		return server.Text(http.StatusOK, "hi"), nil
	})
	if resp.Header.Get("X-Seen") != "1" {
		t.Error("middleware could not post-process the response")
	}
}

func TestChain(t *testing.T) {
	var order []string
	mw := Chain(recordMW(&order, "a"), recordMW(&order, "b"))
	_, _ = mw.Handle(newCtx("GET", "/"), func() (*server.Response, error) {
		order = append(order, "handler")
		return nil, nil
	})
	want := []string{"a-before", "b-before", "handler", "b-after", "a-after"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestSkipAndOnly(t *testing.T) {
	isAPI := func(ctx *server.Ctx) bool { return ctx.Path() == "/api" }

	tests := []struct {
		name string
		mw   func(func(*server.Ctx) bool, Middleware) Middleware
		path string
		ran  bool
	}{
		{"skip matching", Skip, "/api", false},
		{"skip other", Skip, "/page", true},
		{"only matching", Only, "/api", true},
		{"only other", Only, "/page", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var order []string
			mw := tt.mw(isAPI, recordMW(&order, "mw"))
			_, _ = mw.Handle(newCtx("GET", tt.path), func() (*server.Response, error) { return nil, nil })
			if ran := len(order) > 0; ran != tt.ran {
				t.Errorf("middleware ran = %v, want %v", ran, tt.ran)
			}
		})
	}
}
