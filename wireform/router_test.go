package wireform

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRouterNormalizesDynamicPaths(t *testing.T) {
	r := NewRouter()
	err := r.Handle(http.MethodGet, "/foo/:id", func(c *Context) {
		if got := c.Param("id"); got != "123" {
			t.Fatalf("expected param id=123, got %q", got)
		}
		if c.Route != "/foo/:id" {
			t.Fatalf("expected route template /foo/:id, got %q", c.Route)
		}
		_ = c.Text(http.StatusOK, "ok")
	})
	if err != nil {
		t.Fatalf("register route: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/foo//123/", nil)
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
}

func TestRouterContextRouteReset(t *testing.T) {
	r := NewRouter()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	ctx := r.getCtx(rec, req)
	ctx.Route = "stale"
	ctx.body = []byte("stale")
	ctx.bodyRead = true
	r.putCtx(ctx)

	rec2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)

	ctx2 := r.getCtx(rec2, req2)
	if ctx2.Route != "" {
		t.Fatalf("expected empty route on pooled context, got %q", ctx2.Route)
	}
	if ctx2.bodyRead || ctx2.body != nil {
		t.Fatalf("expected body cache cleared on pooled context")
	}
	r.putCtx(ctx2)
}

func TestRouterStaticFastPath(t *testing.T) {
	r := NewRouter()
	if err := r.Handle(http.MethodGet, "/ping", func(c *Context) {
		if c.Route != "/ping" {
			t.Fatalf("expected route /ping, got %q", c.Route)
		}
		_ = c.Text(http.StatusOK, "pong")
	}); err != nil {
		t.Fatalf("register route: %v", err)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "pong" {
		t.Fatalf("unexpected response: %d %q", rr.Code, rr.Body.String())
	}
}

func TestRouterNotFound(t *testing.T) {
	r := NewRouter()
	_ = r.Handle(http.MethodGet, "/exists", func(c *Context) { _ = c.Text(http.StatusOK, "ok") })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "route not found" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestRouterMethodNotAllowed(t *testing.T) {
	r := NewRouter()
	_ = r.Handle(http.MethodGet, "/thing/:id", func(c *Context) { _ = c.Text(http.StatusOK, "ok") })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/thing/7", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}

func TestRouterUnmatchedIntermediateIs404(t *testing.T) {
	r := NewRouter()
	_ = r.Handle(http.MethodGet, "/a/b/c", func(c *Context) { _ = c.Text(http.StatusOK, "ok") })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/a/b", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for intermediate node, got %d", rr.Code)
	}
}

func TestRouterSplat(t *testing.T) {
	r := NewRouter()
	_ = r.Handle(http.MethodGet, "/files/*path", func(c *Context) {
		_ = c.Text(http.StatusOK, c.Param("path"))
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/files/a/b/c.txt", nil))
	if rr.Body.String() != "a/b/c.txt" {
		t.Fatalf("unexpected splat capture: %q", rr.Body.String())
	}
}

func TestRouterParamBeatsSplat(t *testing.T) {
	r := NewRouter()
	_ = r.Handle(http.MethodGet, "/a/:x/c", func(c *Context) {
		_ = c.Text(http.StatusOK, "param:"+c.Param("x"))
	})
	_ = r.Handle(http.MethodGet, "/a/*rest", func(c *Context) {
		_ = c.Text(http.StatusOK, "splat:"+c.Param("rest"))
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/a/b/c", nil))
	if rr.Body.String() != "param:b" {
		t.Fatalf("expected param route to win, got %q", rr.Body.String())
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/a/b", nil))
	if rr.Body.String() != "splat:b" {
		t.Fatalf("expected splat fallback, got %q", rr.Body.String())
	}
}

func TestRouterDuplicateRoute(t *testing.T) {
	r := NewRouter()
	h := func(c *Context) {}
	if err := r.Handle(http.MethodGet, "/dup", h); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := r.Handle(http.MethodGet, "/dup", h); err == nil {
		t.Fatalf("expected duplicate static route error")
	}
	if err := r.Handle(http.MethodGet, "/dyn/:id", h); err != nil {
		t.Fatalf("first dynamic register: %v", err)
	}
	if err := r.Handle(http.MethodGet, "/dyn/:id", h); err == nil {
		t.Fatalf("expected duplicate dynamic route error")
	}
}

func TestRouterGroup(t *testing.T) {
	r := NewRouter()
	tag := func(next Handler) Handler {
		return func(c *Context) {
			c.Header("X-Group", "api")
			next(c)
		}
	}
	g := r.Group("/api", tag)
	if err := g.Handle(http.MethodGet, "/status", func(c *Context) {
		_ = c.Text(http.StatusOK, "up")
	}); err != nil {
		t.Fatalf("register group route: %v", err)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "up" {
		t.Fatalf("unexpected response: %d %q", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Group") != "api" {
		t.Fatalf("expected group middleware to run")
	}
}

func TestRouterVerifyAndDump(t *testing.T) {
	r := NewRouter()
	_ = r.Handle(http.MethodGet, "/users/:id", func(c *Context) {})
	_ = r.Handle(http.MethodGet, "/files/*path", func(c *Context) {})

	if err := r.Verify(); err != nil {
		t.Fatalf("verify: %v", err)
	}
	dump := r.Dump()
	if !strings.Contains(dump, ":id") || !strings.Contains(dump, "*path") {
		t.Fatalf("dump missing registered nodes:\n%s", dump)
	}
}
