package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"streamhub/internal/config"
	"streamhub/pkg/utils"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupConfig(t *testing.T) {
	t.Helper()

	yaml := `
app:
  name: streamhub-test
jwt:
  secret: test-secret
  access_expire_hours: 1
  refresh_expire_hours: 24
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := config.Load(path); err != nil {
		t.Fatalf("load config: %v", err)
	}
}

func newAuthRouter(mw gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/protected", mw, func(c *gin.Context) {
		userID, ok := GetCurrentUserID(c)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"user_id": int64(0)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	return r
}

func TestAuthRequiredMissingToken(t *testing.T) {
	setupConfig(t)
	r := newAuthRouter(AuthRequired())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 got %d", rec.Code)
	}
}

func TestAuthRequiredInvalidToken(t *testing.T) {
	setupConfig(t)
	r := newAuthRouter(AuthRequired())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 got %d", rec.Code)
	}
}

func TestAuthRequiredBearerHeader(t *testing.T) {
	setupConfig(t)
	r := newAuthRouter(AuthRequired())

	token, err := utils.GenerateAccessToken(99)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthRequiredCookie(t *testing.T) {
	setupConfig(t)
	r := newAuthRouter(AuthRequired())

	token, err := utils.GenerateAccessToken(7)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: CookieAccessToken, Value: token})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthRequiredRejectsRefreshToken(t *testing.T) {
	setupConfig(t)
	r := newAuthRouter(AuthRequired())

	token, err := utils.GenerateRefreshToken(7)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("refresh token must not authenticate, got %d", rec.Code)
	}
}

func TestOptionalAuthWithoutToken(t *testing.T) {
	setupConfig(t)
	r := newAuthRouter(OptionalAuth())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("optional auth should pass without token, got %d", rec.Code)
	}
}

func TestOptionalAuthWithToken(t *testing.T) {
	setupConfig(t)
	r := newAuthRouter(OptionalAuth())

	token, err := utils.GenerateAccessToken(5)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
	if body := rec.Body.String(); body != `{"user_id":5}` {
		t.Fatalf("expected user id injected, got %s", body)
	}
}
