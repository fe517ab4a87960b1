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

	"github.com/gin-gonic/gin"
	gojwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"optimus-k/backend/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ── fakes ──

type fakeParser struct {
	claims *jwt.Claims
	err    error
}

func (f *fakeParser) ParseToken(string) (*jwt.Claims, error) { return f.claims, f.err }

type fakeRevocation struct {
	hit bool
	err error
}

func (f *fakeRevocation) IsRevoked(context.Context, string) (bool, error) { return f.hit, f.err }

type fakeLimiter struct {
	allowed   bool
	remaining int
	err       error
	gotKey    string
}

func (f *fakeLimiter) Allow(_ context.Context, key string, _ int, _ time.Duration) (bool, int, error) {
	f.gotKey = key
	return f.allowed, f.remaining, f.err
}

var tokenExpiry = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

func memberClaims() *jwt.Claims {
	return &jwt.Claims{
		AppRole:          "member",
		OrganizationID:   "org-1",
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   "user-1",
			ID:        "jti-1",
			ExpiresAt: gojwt.NewNumericDate(tokenExpiry),
		},
	}
}

func authRouter(parser TokenParser, revoked RevocationChecker) *gin.Engine {
	r := gin.New()
	r.Use(JWTAuth(parser, revoked, zap.NewNop()))
	r.GET("/me", func(c *gin.Context) {
		exp, _ := c.Get(CtxTokenExpiresAt)
		expAt, _ := exp.(time.Time)
		c.String(http.StatusOK, c.GetString(CtxUserID)+"|"+c.GetString(CtxAppRole)+"|"+c.GetString(CtxOrganizationID)+
			"|"+c.GetString(CtxTokenID)+"|"+expAt.UTC().Format(time.RFC3339))
	})
	return r
}

func get(r *gin.Engine, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ═══════════════════════════════════════════════════════════
// JWTAuth
// ═══════════════════════════════════════════════════════════

func TestJWTAuth_InjectsClaims(t *testing.T) {
	r := authRouter(&fakeParser{claims: memberClaims()}, nil)

	w := get(r, "/me", "bearer token-abc")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "user-1|member|org-1|jti-1|2030-01-01T00:00:00Z" {
		t.Errorf("上下文注入不符: %s", w.Body.String())
	}
}

func TestJWTAuth_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		parser *fakeParser
		auth   string
	}{
		{"缺少认证头", &fakeParser{claims: memberClaims()}, ""},
		{"格式错误", &fakeParser{claims: memberClaims()}, "Token abc"},
		{"无 token", &fakeParser{claims: memberClaims()}, "Bearer"},
		{"解析失败", &fakeParser{err: jwt.ErrTokenInvalid}, "Bearer abc"},
	}
	for _, tc := range cases {
		w := get(authRouter(tc.parser, nil), "/me", tc.auth)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", tc.name, w.Code)
		}
	}
}

func TestJWTAuth_Revocation(t *testing.T) {
	w := get(authRouter(&fakeParser{claims: memberClaims()}, &fakeRevocation{hit: true}), "/me", "Bearer abc")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("已吊销 expected 401, got %d", w.Code)
	}

	// 吊销名单不可用时降级放行
	w = get(authRouter(&fakeParser{claims: memberClaims()}, &fakeRevocation{err: errors.New("redis down")}), "/me", "Bearer abc")
	if w.Code != http.StatusOK {
		t.Errorf("降级 expected 200, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// RoleAuth
// ═══════════════════════════════════════════════════════════

func TestRoleAuth(t *testing.T) {
	build := func(role string, authed bool) *gin.Engine {
		r := gin.New()
		r.Use(func(c *gin.Context) {
			if authed {
				c.Set(CtxUserID, "user-1")
				c.Set(CtxAppRole, role)
			}
			c.Next()
		})
		r.GET("/x", RoleAuth("admin", "leader"), func(c *gin.Context) { c.Status(http.StatusNoContent) })
		return r
	}

	if w := get(build("leader", true), "/x", ""); w.Code != http.StatusNoContent {
		t.Errorf("leader expected 204, got %d", w.Code)
	}
	if w := get(build("member", true), "/x", ""); w.Code != http.StatusForbidden {
		t.Errorf("member expected 403, got %d", w.Code)
	}
	if w := get(build("", false), "/x", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("未认证 expected 401, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// RateLimit
// ═══════════════════════════════════════════════════════════

func limitRouter(l Limiter) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(CtxUserID, "user-1"); c.Next() })
	r.GET("/slots", RateLimit(l, 10, time.Minute, zap.NewNop()), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRateLimit(t *testing.T) {
	l := &fakeLimiter{allowed: true, remaining: 9}
	w := get(limitRouter(l), "/slots", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if l.gotKey != "user-1:/slots" {
		t.Errorf("限流 key 不符: %s", l.gotKey)
	}
	if w.Header().Get("X-RateLimit-Remaining") != "9" {
		t.Errorf("X-RateLimit-Remaining 不符: %s", w.Header().Get("X-RateLimit-Remaining"))
	}

	w = get(limitRouter(&fakeLimiter{allowed: false}), "/slots", "")
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("超限 expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") != "60" {
		t.Errorf("Retry-After 不符: %s", w.Header().Get("Retry-After"))
	}

	w = get(limitRouter(&fakeLimiter{err: errors.New("redis down")}), "/slots", "")
	if w.Code != http.StatusOK {
		t.Errorf("降级 expected 200, got %d", w.Code)
	}

	w = get(limitRouter(nil), "/slots", "")
	if w.Code != http.StatusOK {
		t.Errorf("未配置限流 expected 200, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// BodyLimit / RequestID
// ═══════════════════════════════════════════════════════════

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(16))
	r.POST("/echo", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			if IsBodyTooLarge(err) {
				c.Status(http.StatusRequestEntityTooLarge)
				return
			}
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})

	post := func(body io.Reader, length int64) int {
		req := httptest.NewRequest("POST", "/echo", body)
		req.ContentLength = length
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := post(strings.NewReader("small"), 5); code != http.StatusOK {
		t.Errorf("小请求体 expected 200, got %d", code)
	}
	if code := post(bytes.NewReader(make([]byte, 64)), 64); code != http.StatusRequestEntityTooLarge {
		t.Errorf("Content-Length 超限 expected 413, got %d", code)
	}
	// 未声明长度（分块传输）时由 MaxBytesReader 拦截
	if code := post(bytes.NewReader(make([]byte, 64)), -1); code != http.StatusRequestEntityTooLarge {
		t.Errorf("分块超限 expected 413, got %d", code)
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(requestIDKey)) })

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(requestIDHeader, "rid-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "rid-123" || w.Header().Get(requestIDHeader) != "rid-123" {
		t.Errorf("应沿用外部 Request-ID，实际=%s", w.Body.String())
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set(requestIDHeader, strings.Repeat("x", 100))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); len(got) != 36 {
		t.Errorf("超长 Request-ID 应重新生成 uuid，实际=%s", got)
	}
}

// ═══════════════════════════════════════════════════════════
// CORS / SecurityHeaders
// ═══════════════════════════════════════════════════════════

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://app.optimus-k.io/"}), SecurityHeaders())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.OPTIONS("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(method, origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/x", nil)
		req.Header.Set("Origin", origin)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := send("GET", "https://app.optimus-k.io")
	if w.Header().Get("Access-Control-Allow-Origin") != "https://app.optimus-k.io" {
		t.Errorf("白名单来源应回写 Origin，实际=%q", w.Header().Get("Access-Control-Allow-Origin"))
	}
	if !strings.Contains(w.Header().Get("Access-Control-Expose-Headers"), "Retry-After") {
		t.Error("应暴露限流响应头")
	}

	w = send("GET", "https://evil.example")
	if w.Code != http.StatusOK || w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Errorf("非白名单普通请求不应带 CORS 头")
	}

	if w := send("OPTIONS", "https://app.optimus-k.io"); w.Code != http.StatusNoContent {
		t.Errorf("白名单预检 expected 204, got %d", w.Code)
	}
	if w := send("OPTIONS", "https://evil.example"); w.Code != http.StatusForbidden {
		t.Errorf("非白名单预检 expected 403, got %d", w.Code)
	}
	if w.Header().Get("Cache-Control") != "no-store" {
		t.Error("缺少 Cache-Control: no-store")
	}
}
