package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"callintake-platform/internal/auth"

	"github.com/gin-gonic/gin"
)

func doRequest(t *testing.T, role string, allowed ...string) int {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if role != "" {
			c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), "u1", role))
		}
		c.Next()
	})
	r.GET("/x", RequireAnyRole(allowed...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRequireAnyRole(t *testing.T) {
	if got := doRequest(t, RoleReviewer, RoleReviewer); got != http.StatusOK {
		t.Fatalf("reviewer should pass, got %d", got)
	}
	if got := doRequest(t, RoleAgent, RoleReviewer); got != http.StatusForbidden {
		t.Fatalf("agent should be forbidden, got %d", got)
	}
	if got := doRequest(t, RoleAdmin, RoleReviewer); got != http.StatusOK {
		t.Fatalf("admin should bypass, got %d", got)
	}
	if got := doRequest(t, "", RoleReviewer); got != http.StatusUnauthorized {
		t.Fatalf("missing role should be unauthorized, got %d", got)
	}
}
