package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"gopos/models"
	"gopos/pkg/token"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// setupTestServer wires the whole stack against a throwaway sqlite database.
func setupTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg = &Config{
		JWT: JWTConfig{
			AccessSecret:      "test-access-secret",
			RefreshSecret:     "test-refresh-secret",
			AccessTTLSeconds:  900,
			RefreshTTLSeconds: 604800,
		},
	}
	codec = token.NewCodec(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTTL(), cfg.JWT.RefreshTTL())

	if err := initDB(DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "test.db")}); err != nil {
		t.Fatalf("init db: %v", err)
	}
	sessions = NewSessionStore(db)
	users = NewUserStore(db)
	invalidateSettingsCache()

	r := gin.New()
	setupRoutes(r)
	return r
}

// performRequest mirrors how clients call the API. A non-empty bearer token
// puts the request in bearer mode; cookies are attached as given.
func performRequest(r http.Handler, method, path string, body io.Reader, bearer string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewReader(b)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

// loginBearer logs in over header transport and returns the token pair.
func loginBearer(t *testing.T, r http.Handler, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	rec := performRequest(r, http.MethodPost, "/auth/login",
		jsonBody(t, map[string]string{"email": email, "password": password}), "x")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed status=%d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	accessToken, _ = body["accessToken"].(string)
	refreshToken, _ = body["refreshToken"].(string)
	if accessToken == "" || refreshToken == "" {
		t.Fatalf("missing tokens in bearer-mode login response: %v", body)
	}
	return accessToken, refreshToken
}

func createTestUser(t *testing.T, email, name, password, roleName string) *models.User {
	t.Helper()
	var role models.Role
	if err := db.Where("name = ?", roleName).First(&role).Error; err != nil {
		t.Fatalf("role %q missing: %v", roleName, err)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	rid := role.ID
	u := models.User{Email: email, Name: name, PasswordHash: hashed, IsActive: true, RoleID: &rid}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &u
}

func setTestSetting(t *testing.T, key, value string) {
	t.Helper()
	if err := db.Model(&models.Setting{}).Where("key = ?", key).Update("value", value).Error; err != nil {
		t.Fatalf("update setting %s: %v", key, err)
	}
	invalidateSettingsCache()
}

func refreshCookie(value string) *http.Cookie {
	return &http.Cookie{Name: refreshCookieName, Value: value, Path: authCookiePath}
}

func accessCookie(value string) *http.Cookie {
	return &http.Cookie{Name: accessCookieName, Value: value, Path: "/"}
}
