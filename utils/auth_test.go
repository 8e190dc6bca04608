package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"stylemanager-backend/config"
	"stylemanager-backend/gate"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func setupAuthConfig(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	prevApp, prevCache, prevDB := config.App, config.AppCache, config.DB
	config.App.Auth.JWTSecret = "test-secret"
	config.App.Auth.ExpiryHours = 1
	config.AppCache = config.NewCache(nil)
	config.DB = nil
	t.Cleanup(func() {
		config.App, config.AppCache, config.DB = prevApp, prevCache, prevDB
	})
}

// setupAccounts opens an in-memory users table holding id -> (role, active).
func setupAccounts(t *testing.T) {
	t.Helper()
	if err := config.ConnectDB(config.DBConfig{Driver: "sqlite", URL: "file::memory:"}); err != nil {
		t.Fatalf("connect: %v", err)
	}
	db := config.DB
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := db.Exec(`CREATE TABLE users (id TEXT PRIMARY KEY, role TEXT NOT NULL, is_active BOOLEAN NOT NULL)`).Error; err != nil {
		t.Fatalf("create users: %v", err)
	}
}

func insertAccount(t *testing.T, id, role string, active bool) {
	t.Helper()
	if err := config.DB.Exec(`INSERT INTO users (id, role, is_active) VALUES (?, ?, ?)`, id, role, active).Error; err != nil {
		t.Fatalf("insert account: %v", err)
	}
}

func newProtectedRouter() *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware())
	r.GET("/whoami", func(c *gin.Context) {
		s := CurrentSession(c)
		c.String(http.StatusOK, string(s.Role))
	})
	r.GET("/reports", RequireView(gate.ViewReports), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.POST("/logout", func(c *gin.Context) {
		RevokeToken(c, CurrentClaims(c))
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGenerateAndParseToken(t *testing.T) {
	setupAuthConfig(t)
	token, claims, err := GenerateToken("user-1", "ana@salon.com", "admin")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	parsed, err := ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if parsed.Subject != "user-1" || parsed.Role != "admin" || parsed.ID != claims.ID {
		t.Fatalf("unexpected claims %+v", parsed)
	}
}

func TestGenerateTokenWithoutSecret(t *testing.T) {
	setupAuthConfig(t)
	config.App.Auth.JWTSecret = ""
	if _, _, err := GenerateToken("u", "e", "user"); err == nil {
		t.Fatalf("expected error without secret")
	}
}

func TestAuthMiddlewareRejectsMissingAndBadTokens(t *testing.T) {
	setupAuthConfig(t)
	r := newProtectedRouter()
	if w := do(r, http.MethodGet, "/whoami", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: status %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/whoami", "not-a-token"); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status %d", w.Code)
	}
}

func TestAuthMiddlewareDefaultsRole(t *testing.T) {
	setupAuthConfig(t)
	r := newProtectedRouter()
	token, _, _ := GenerateToken("user-1", "bia@salon.com", "")
	w := do(r, http.MethodGet, "/whoami", token)
	if w.Code != http.StatusOK || w.Body.String() != "user" {
		t.Fatalf("got %d %q, want 200 user", w.Code, w.Body.String())
	}
}

func TestRequireView(t *testing.T) {
	setupAuthConfig(t)
	r := newProtectedRouter()

	userToken, _, _ := GenerateToken("user-1", "bia@salon.com", "user")
	if w := do(r, http.MethodGet, "/reports", userToken); w.Code != http.StatusForbidden {
		t.Fatalf("user on reports: status %d", w.Code)
	}
	adminToken, _, _ := GenerateToken("admin-1", "ana@salon.com", "admin")
	if w := do(r, http.MethodGet, "/reports", adminToken); w.Code != http.StatusNoContent {
		t.Fatalf("admin on reports: status %d", w.Code)
	}
}

func TestRevokedTokenIsRejected(t *testing.T) {
	setupAuthConfig(t)
	r := newProtectedRouter()
	token, _, _ := GenerateToken("user-1", "bia@salon.com", "user")

	if w := do(r, http.MethodPost, "/logout", token); w.Code != http.StatusNoContent {
		t.Fatalf("logout: status %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/whoami", token); w.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token: status %d", w.Code)
	}
}

func TestRoleChangedOutsideServerReachesExistingTokens(t *testing.T) {
	setupAuthConfig(t)
	setupAccounts(t)
	r := newProtectedRouter()

	id := uuid.NewString()
	insertAccount(t, id, "admin", true)
	token, _, _ := GenerateToken(id, "ana@salon.com", "admin")
	if w := do(r, http.MethodGet, "/reports", token); w.Code != http.StatusNoContent {
		t.Fatalf("admin on reports: status %d", w.Code)
	}

	// a demotion written straight to the table, as the promote command does
	if err := config.DB.Exec(`UPDATE users SET role = ? WHERE id = ?`, "user", id).Error; err != nil {
		t.Fatalf("demote: %v", err)
	}
	if w := do(r, http.MethodGet, "/reports", token); w.Code != http.StatusForbidden {
		t.Fatalf("demoted admin on reports: status %d, want 403", w.Code)
	}
	if w := do(r, http.MethodGet, "/whoami", token); w.Body.String() != "user" {
		t.Fatalf("role = %q, want user", w.Body.String())
	}
}

func TestDeactivatedAccountIsRejected(t *testing.T) {
	setupAuthConfig(t)
	setupAccounts(t)
	r := newProtectedRouter()

	id := uuid.NewString()
	insertAccount(t, id, "user", false)
	token, _, _ := GenerateToken(id, "bia@salon.com", "user")
	if w := do(r, http.MethodGet, "/whoami", token); w.Code != http.StatusForbidden {
		t.Fatalf("inactive account: status %d, want 403", w.Code)
	}
}

func TestTokenForUnknownAccountIsRejected(t *testing.T) {
	setupAuthConfig(t)
	setupAccounts(t)
	r := newProtectedRouter()

	token, _, _ := GenerateToken(uuid.NewString(), "ghost@salon.com", "admin")
	if w := do(r, http.MethodGet, "/whoami", token); w.Code != http.StatusUnauthorized {
		t.Fatalf("unknown account: status %d, want 401", w.Code)
	}
}

func TestRequireConfirmation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.DELETE("/thing", func(c *gin.Context) {
		if !RequireConfirmation(c, "Tem certeza?") {
			return
		}
		c.Status(http.StatusNoContent)
	})
	if w := do(r, http.MethodDelete, "/thing", ""); w.Code != http.StatusPreconditionRequired {
		t.Fatalf("unconfirmed delete: status %d", w.Code)
	}
	if w := do(r, http.MethodDelete, "/thing?confirm=true", ""); w.Code != http.StatusNoContent {
		t.Fatalf("confirmed delete: status %d", w.Code)
	}
}
