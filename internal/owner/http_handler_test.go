package owner

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ParkWise/ParkWise/internal/common/config"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Owner{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newOwnerEngine(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewHTTPHandler(db, config.AuthConfig{
		Enabled:   true,
		JWTSecret: "test-secret",
		Issuer:    "parkwise",
		Audience:  "parkwise",
	})
	r := gin.New()
	h.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterDuplicateUsername(t *testing.T) {
	r := newOwnerEngine(t, newTestDB(t))

	body := `{"username":"alice","password":"p@ssw0rd"}`
	if w := postJSON(t, r, "/api/v1/owners/register", body); w.Code != http.StatusCreated {
		t.Fatalf("first register: expected 201, got %d body=%s", w.Code, w.Body.String())
	}
	// 唯一索引兜底：重复用户名必须 409，不能漏成 500
	if w := postJSON(t, r, "/api/v1/owners/register", body); w.Code != http.StatusConflict {
		t.Fatalf("second register: expected 409, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestRegisterThenLogin(t *testing.T) {
	r := newOwnerEngine(t, newTestDB(t))

	if w := postJSON(t, r, "/api/v1/owners/register", `{"username":"bob","password":"secret"}`); w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d body=%s", w.Code, w.Body.String())
	}

	w := postJSON(t, r, "/api/v1/owners/login", `{"username":"bob","password":"secret"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "access_token") {
		t.Fatalf("expected access_token in response, got %s", w.Body.String())
	}

	if w := postJSON(t, r, "/api/v1/owners/login", `{"username":"bob","password":"wrong"}`); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: expected 401, got %d", w.Code)
	}
}
