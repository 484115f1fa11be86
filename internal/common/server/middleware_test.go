package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ParkWise/ParkWise/internal/common/auth"
	"github.com/ParkWise/ParkWise/internal/common/config"
	"github.com/gin-gonic/gin"
)

func newAuthEngine(t *testing.T, cfg config.AuthConfig) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWTAuthMiddleware(cfg, nil), func(c *gin.Context) {
		ai, ok := AuthFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "missing auth info"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"subject": ai.Subject, "staff": ai.IsStaff()})
	})
	return r
}

func TestJWTAuthMiddleware(t *testing.T) {
	cfg := config.AuthConfig{
		Enabled:   true,
		JWTSecret: "test-secret",
		Issuer:    "parkwise",
		Audience:  "parkwise",
	}
	r := newAuthEngine(t, cfg)

	token, _, err := auth.GenerateAccessToken(cfg, "o-1", []string{"user", "staff"}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}

	// 缺少 Authorization 应被拒绝
	req2 := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req2)
	if w2.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w2.Code)
	}

	// 错误签名应被拒绝
	bad, _, err := auth.GenerateAccessToken(config.AuthConfig{JWTSecret: "other-secret", Issuer: "parkwise", Audience: "parkwise"}, "o-1", nil, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	req3 := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req3.Header.Set("Authorization", "Bearer "+bad)
	w3 := httptest.NewRecorder()
	r.ServeHTTP(w3, req3)
	if w3.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w3.Code)
	}
}

func TestJWTAuthMiddlewarePublicPaths(t *testing.T) {
	cfg := config.AuthConfig{
		Enabled:     true,
		JWTSecret:   "test-secret",
		PublicPaths: []string{"/open"},
	}
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/open/ping", JWTAuthMiddleware(cfg, nil), func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	// 配置的免鉴权前缀不带 token 也放行
	req := httptest.NewRequest(http.MethodGet, "/open/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for public path, got %d", w.Code)
	}
}

func TestAuthInfoIsStaff(t *testing.T) {
	if (AuthInfo{Roles: []string{"user"}}).IsStaff() {
		t.Fatalf("expected not staff")
	}
	if !(AuthInfo{Roles: []string{"user", "Staff"}}).IsStaff() {
		t.Fatalf("expected staff")
	}
}
