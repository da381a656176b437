package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Abroon25/ideax/internal/config"
	"github.com/Abroon25/ideax/internal/repo"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), fmt.Sprintf("router_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := config.Config{
		GinMode:     gin.TestMode,
		APIBasePath: "/api/v1",
		RateRPS:     1000,
		RateBurst:   1000,
	}
	cfg.Auth.JWTSecret = "router-test-secret"
	cfg.Auth.AccessTTL = 15 * time.Minute
	cfg.Auth.RefreshTTL = 720 * time.Hour
	cfg.OTEL.ServiceName = "ideax-test"

	r := gin.New()
	RegisterRoutes(r, db, cfg)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_HealthAndFallbacks(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/health", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("/health = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/nope", nil, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown route = %d", w.Code)
	}
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["code"] != "not_found" {
		t.Fatalf("404 envelope wrong: %v", body)
	}

	w = doJSON(t, r, http.MethodDelete, "/health", nil, "")
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("bad method = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/metrics", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("/metrics = %d", w.Code)
	}
}

func TestRouter_AuthFlow(t *testing.T) {
	r := newTestRouter(t)

	// Protected endpoints reject anonymous callers.
	w := doJSON(t, r, http.MethodGet, "/api/v1/auth/me", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous /auth/me = %d", w.Code)
	}

	signup := map[string]string{
		"email":    "router@example.com",
		"phone":    "9876501234",
		"username": "routerfan",
		"password": "long-enough-pass",
	}
	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/signup", signup, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("signup = %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		Tokens struct {
			AccessToken string `json:"access_token"`
		} `json:"tokens"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil || created.Tokens.AccessToken == "" {
		t.Fatalf("signup response missing tokens: %s", w.Body.String())
	}

	// Duplicate signup conflicts.
	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/signup", signup, "")
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate signup = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/auth/me", nil, created.Tokens.AccessToken)
	if w.Code != http.StatusOK {
		t.Fatalf("/auth/me = %d: %s", w.Code, w.Body.String())
	}
	var me struct {
		Username string `json:"username"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &me)
	if me.Username != "routerfan" {
		t.Fatalf("wrong identity: %s", w.Body.String())
	}

	login := map[string]string{"identifier": "routerfan", "password": "wrong"}
	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/login", login, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login = %d", w.Code)
	}
	login["password"] = "long-enough-pass"
	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/login", login, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login = %d: %s", w.Code, w.Body.String())
	}
}

func TestRouter_PublicEndpointsOpen(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/genres", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("/genres = %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, "/api/v1/tiers", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("/tiers = %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, "/api/v1/ideas/feed", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("/ideas/feed = %d", w.Code)
	}
}
