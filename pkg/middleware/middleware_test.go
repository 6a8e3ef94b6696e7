package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/nmxlabs/marketplace-api/internal/auth"
	"github.com/nmxlabs/marketplace-api/pkg/middleware"
)

const testSecret = "middleware-test-secret"

func router(guard gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/guarded", guard, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"client_id": c.GetString("clientID")})
	})
	return r
}

func issueToken(t *testing.T, permissions ...string) string {
	t.Helper()
	service := auth.NewService(testSecret)
	service.RegisterAPICredentials("key", "secret", permissions...)
	token, err := service.GenerateToken(auth.Credentials{APIKey: "key", APISecret: "secret"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token.Token
}

func request(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	r := router(middleware.JWTAuth(testSecret))
	token := issueToken(t, "settle")

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"malformed header", "Token " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := request(r, tt.header); w.Code != tt.wantStatus {
				t.Fatalf("status=%d, expected %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestJWTAuthRejectsForeignSecret(t *testing.T) {
	r := router(middleware.JWTAuth("a-different-secret"))
	token := issueToken(t, "settle")

	if w := request(r, "Bearer "+token); w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d for a foreign-secret token, expected 401", w.Code)
	}
}

func TestAdminAuthRequiresPermission(t *testing.T) {
	r := router(middleware.AdminAuth(testSecret))

	settleOnly := issueToken(t, "settle")
	if w := request(r, "Bearer "+settleOnly); w.Code != http.StatusForbidden {
		t.Fatalf("status=%d for a settle-only token, expected 403", w.Code)
	}

	admin := issueToken(t, "settle", "admin")
	if w := request(r, "Bearer "+admin); w.Code != http.StatusOK {
		t.Fatalf("status=%d for an admin token, expected 200: %s", w.Code, w.Body.String())
	}
}
