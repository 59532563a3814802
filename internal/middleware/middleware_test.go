package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/boardgame-depot/internal/config"
	"github.com/iliyamo/boardgame-depot/internal/metrics"
	"github.com/iliyamo/boardgame-depot/internal/utils"
)

const secret = "test-secret"

func token(t *testing.T, admin bool) string {
	t.Helper()
	tok, err := utils.NewAccessToken(secret, "m-1", "m@example.com", admin, time.Hour)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	return tok.Token
}

func newServer() *echo.Echo {
	e := echo.New()
	ok := func(c echo.Context) error { return c.String(http.StatusOK, ManagerID(c)) }
	e.GET("/private", ok, JWTAuth(secret))
	e.GET("/admin", ok, JWTAuth(secret), RequireAdmin())
	return e
}

func do(e *echo.Echo, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth(t *testing.T) {
	e := newServer()

	if rec := do(e, "/private", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("missing token: expected 401, got %d", rec.Code)
	}
	if rec := do(e, "/private", "garbage"); rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token: expected 401, got %d", rec.Code)
	}
	rec := do(e, "/private", token(t, false))
	if rec.Code != http.StatusOK || rec.Body.String() != "m-1" {
		t.Errorf("valid token: got %d %q", rec.Code, rec.Body.String())
	}
}

func TestRequireAdmin(t *testing.T) {
	e := newServer()

	if rec := do(e, "/admin", token(t, false)); rec.Code != http.StatusForbidden {
		t.Errorf("non-admin: expected 403, got %d", rec.Code)
	}
	if rec := do(e, "/admin", token(t, true)); rec.Code != http.StatusOK {
		t.Errorf("admin: expected 200, got %d", rec.Code)
	}
}

func TestNilRedisIsPassthrough(t *testing.T) {
	e := echo.New()
	calls := 0
	h := func(c echo.Context) error { calls++; return c.NoContent(http.StatusNoContent) }
	cacheCfg := config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}}
	rlCfg := config.RateLimitConfig{Enabled: true, Capacity: 1}
	e.GET("/x", h, NewRedisCache(cacheCfg, nil, nil), NewTokenBucket(rlCfg, nil, nil), InvalidateCache(cacheCfg, nil, nil))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	}
	if calls != 3 {
		t.Errorf("expected 3 handler calls, got %d", calls)
	}
}

func TestCacheKeyStrategies(t *testing.T) {
	e := echo.New()
	ctxFor := func(target string) echo.Context {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
		c.SetPath("/deposited-game/:id")
		return c
	}
	cfg := config.CacheConfig{Prefix: "depot:cache", KeyStrategy: "route_query"}

	a := cacheKeyFrom(cfg, ctxFor("/deposited-game/1"))
	b := cacheKeyFrom(cfg, ctxFor("/deposited-game/2"))
	if a == b {
		t.Error("route_query keys must differ per resource")
	}
	if !strings.HasPrefix(a, "depot:cache:") {
		t.Errorf("missing prefix in %q", a)
	}

	cfg.KeyStrategy = "route"
	if cacheKeyFrom(cfg, ctxFor("/deposited-game/1")) != cacheKeyFrom(cfg, ctxFor("/deposited-game/2")) {
		t.Error("route keys should collapse to the pattern")
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"ok":true}`))
	if err != nil {
		t.Fatalf("encodePayload: %v", err)
	}
	status, got, body, ok := decodePayload(bs)
	if !ok || status != http.StatusOK || got.Get("Content-Type") != "application/json" || string(body) != `{"ok":true}` {
		t.Fatalf("unexpected decode: %d %v %q %v", status, got, body, ok)
	}
	if _, _, _, ok := decodePayload([]byte{0, 0}); ok {
		t.Error("short payload must not decode")
	}
}

func TestCaptureWriterLimit(t *testing.T) {
	cw := &captureWriter{ResponseWriter: httptest.NewRecorder(), limit: 4}
	_, _ = cw.Write([]byte("abc"))
	_, _ = cw.Write([]byte("def"))
	if cw.buf.String() != "abcd" || !cw.truncated() {
		t.Errorf("expected truncated capture, got %q", cw.buf.String())
	}
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/auth/login")

	cfg := config.RateLimitConfig{Prefix: "depot:rl", KeyStrategy: "ip_route"}
	if got, want := buildRateKey(cfg, c), "depot:rl:ip:10.0.0.1:route:POST /auth/login"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	cfg.KeyStrategy = "user"
	if got := buildRateKey(cfg, c); got != "depot:rl:user:anon" {
		t.Errorf("got %q", got)
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	for ms, want := range map[int64]int{0: 0, 1: 1, 1000: 1, 1001: 2, -5: 0} {
		if got := retryAfterSeconds(ms); got != want {
			t.Errorf("retryAfterSeconds(%d) = %d, want %d", ms, got, want)
		}
	}
}

func TestMetricsMiddleware(t *testing.T) {
	rec := metrics.NewRecorder()
	e := echo.New()
	e.Use(Metrics(rec))
	e.GET("/seller/:id", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/seller/abc", nil))

	out := httptest.NewRecorder()
	rec.Handler().ServeHTTP(out, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(out.Body)
	if !bytes.Contains(body, []byte(`route="/seller/:id",status="204"`)) {
		t.Errorf("route pattern not recorded:\n%s", body)
	}
}
