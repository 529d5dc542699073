package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func testRouter(adminKey, superadminKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(APIKeyMiddleware(adminKey, superadminKey))
	r.GET("/open", func(c *gin.Context) {
		role, _ := c.Get(ContextRole)
		c.JSON(http.StatusOK, gin.H{"role": role})
	})
	r.GET("/super", RequireSuperadmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doRequest(r *gin.Engine, path, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAPIKeyMiddleware(t *testing.T) {
	r := testRouter("admin-secret", "super-secret")

	tests := []struct {
		name string
		path string
		key  string
		want int
	}{
		{"missing key", "/open", "", http.StatusUnauthorized},
		{"wrong key", "/open", "nope", http.StatusForbidden},
		{"admin key", "/open", "admin-secret", http.StatusOK},
		{"superadmin key", "/open", "super-secret", http.StatusOK},
		{"admin blocked from superadmin route", "/super", "admin-secret", http.StatusForbidden},
		{"superadmin allowed", "/super", "super-secret", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := doRequest(r, tt.path, tt.key).Code; got != tt.want {
				t.Errorf("status = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAPIKeyMiddlewareDisabled(t *testing.T) {
	r := testRouter("", "")

	// No keys configured: everything runs as superadmin.
	if got := doRequest(r, "/open", "").Code; got != http.StatusOK {
		t.Errorf("open route status = %d, want 200", got)
	}
	if got := doRequest(r, "/super", "").Code; got != http.StatusOK {
		t.Errorf("superadmin route status = %d, want 200", got)
	}
}
