package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/andybalholm/brotli"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/stemsi/campus-portal/internal/access"
	"github.com/stemsi/campus-portal/internal/config"
	"github.com/stemsi/campus-portal/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestMemoryLimiterRefills(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewMemoryLimiter(ctx, 2, time.Minute)
	clock := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	for i := 0; i < 2; i++ {
		if ok, _ := rl.Allow(ctx, "10.0.0.1"); !ok {
			t.Fatalf("attempt %d rejected", i+1)
		}
	}
	if ok, _ := rl.Allow(ctx, "10.0.0.1"); ok {
		t.Fatal("third attempt allowed")
	}
	if ok, _ := rl.Allow(ctx, "10.0.0.2"); !ok {
		t.Fatal("other client throttled")
	}

	clock = clock.Add(time.Minute)
	if ok, _ := rl.Allow(ctx, "10.0.0.1"); !ok {
		t.Fatal("bucket did not refill")
	}
}

func TestRateLimitRejects(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := gin.New()
	r.POST("/login", RateLimit(NewMemoryLimiter(ctx, 1, time.Hour), nil, zerolog.Nop()), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	codes := make([]int, 2)
	for i := range codes {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes[i] = w.Code
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}
}

func TestBrotliCompressesLargeHTML(t *testing.T) {
	body := strings.Repeat("<p>attendance</p>", 200)
	r := gin.New()
	r.Use(Brotli())
	r.GET("/page", func(c *gin.Context) { c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(body)) })
	r.GET("/small", func(c *gin.Context) { c.Data(http.StatusOK, "text/html", []byte("hi")) })
	r.GET("/bin", func(c *gin.Context) { c.Data(http.StatusOK, "application/octet-stream", []byte(body)) })

	req := httptest.NewRequest(http.MethodGet, "/page", nil)
	req.Header.Set("Accept-Encoding", "gzip, br;q=1.0")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Header().Get("Content-Encoding") != "br" {
		t.Fatalf("Content-Encoding = %q", w.Header().Get("Content-Encoding"))
	}
	plain, err := io.ReadAll(brotli.NewReader(bytes.NewReader(w.Body.Bytes())))
	if err != nil {
		t.Fatal(err)
	}
	if string(plain) != body {
		t.Fatal("round trip mismatch")
	}

	for _, path := range []string{"/small", "/bin"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Accept-Encoding", "br")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Header().Get("Content-Encoding") != "" {
			t.Errorf("%s should not be compressed", path)
		}
		if w.Body.Len() == 0 {
			t.Errorf("%s lost its body", path)
		}
	}
}

func TestRequestIDEchoed(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("request id = %q", got)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if len(w.Header().Get(RequestIDHeader)) != 36 {
		t.Fatalf("generated id = %q", w.Header().Get(RequestIDHeader))
	}
}

type staticGateway struct{ users map[string]*model.User }

func (g staticGateway) Login(context.Context, model.Credentials) (string, error) { return "", nil }

func (g staticGateway) Me(_ context.Context, token string) (*model.User, error) {
	if u, ok := g.users[token]; ok {
		return u, nil
	}
	return nil, errors.New("unknown token")
}

// guardedEngine serves /admin behind the guard and /set to plant a token.
func guardedEngine() *gin.Engine {
	gw := staticGateway{users: map[string]*model.User{
		"tok-admin":   {ID: 1, Role: model.RoleAdmin},
		"tok-student": {ID: 2, Role: model.RoleStudent},
	}}
	r := gin.New()
	r.Use(sessions.Sessions(SessionCookie, cookie.NewStore([]byte("test-secret"))))
	r.Use(Session(gw, nil, zerolog.Nop()))
	r.GET("/set", func(c *gin.Context) {
		s := sessions.Default(c)
		s.Set(TokenKey, c.Query("token"))
		_ = s.Save()
		c.Status(http.StatusNoContent)
	})
	r.GET(access.PathAdmin, RequireRoute(access.PathAdmin), func(c *gin.Context) {
		c.String(http.StatusOK, "admin for %d", GetUser(c).ID)
	})
	return r
}

func cookieFor(t *testing.T, r *gin.Engine, token string) string {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/set?token="+token, nil))
	c := w.Header().Get("Set-Cookie")
	if c == "" {
		t.Fatal("no session cookie issued")
	}
	return strings.SplitN(c, ";", 2)[0]
}

func TestRequireRoute(t *testing.T) {
	r := guardedEngine()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, access.PathAdmin, nil))
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != access.PathLogin {
		t.Fatalf("anonymous: %d %q", w.Code, w.Header().Get("Location"))
	}

	for token, want := range map[string]int{"tok-admin": http.StatusOK, "tok-student": http.StatusSeeOther, "bogus": http.StatusSeeOther} {
		req := httptest.NewRequest(http.MethodGet, access.PathAdmin, nil)
		req.Header.Set("Cookie", cookieFor(t, r, token))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != want {
			t.Errorf("%s: status %d, want %d", token, w.Code, want)
		}
	}
}

func TestMetricsLabelsByRouteTemplate(t *testing.T) {
	r := gin.New()
	r.Use(Metrics("metrics-test"))
	r.GET("/courses/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", MetricsHandler())

	for _, path := range []string{"/courses/1", "/courses/2", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()

	for _, want := range []string{
		`campus_http_requests_total{method="GET",route="/courses/:id",service="metrics-test",status="204"} 2`,
		`campus_http_requests_total{method="GET",route="unmatched",service="metrics-test",status="404"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %s", want)
		}
	}
}

func TestRedisLimiterWindowExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	ctx := context.Background()

	rl := NewRedisLimiter(rdb, 2, time.Minute)
	key := config.CacheKey.LoginAttemptsKey("10.0.0.9")

	for i, want := range []bool{true, true, false} {
		ok, err := rl.Allow(ctx, "10.0.0.9")
		if err != nil {
			t.Fatal(err)
		}
		if ok != want {
			t.Fatalf("attempt %d: allowed = %v, want %v", i+1, ok, want)
		}
		if ttl := mr.TTL(key); ttl <= 0 || ttl > time.Minute {
			t.Fatalf("attempt %d: counter ttl = %s", i+1, ttl)
		}
	}

	// Later attempts must not push the window out.
	mr.FastForward(40 * time.Second)
	_, _ = rl.Allow(ctx, "10.0.0.9")
	if ttl := mr.TTL(key); ttl > 20*time.Second {
		t.Fatalf("window extended: ttl = %s", ttl)
	}

	mr.FastForward(21 * time.Second)
	if ok, err := rl.Allow(ctx, "10.0.0.9"); err != nil || !ok {
		t.Fatalf("after the window: allowed = %v, err = %v", ok, err)
	}
}
