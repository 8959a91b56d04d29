package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/voltera/site-backend/internal/platform/logger"
)

func adminRouter(t *testing.T, auth *AdminAuth) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", auth.RequireAdmin(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("admin_subject"))
	})
	return r
}

func callAdmin(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAdminAuthAcceptsIssuedToken(t *testing.T) {
	auth, err := NewAdminAuth(logger.Nop(), "s3cret", "voltera-site")
	if err != nil {
		t.Fatalf("NewAdminAuth: %v", err)
	}
	token, err := auth.Issue("ops@voltera.example", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	rec := callAdmin(adminRouter(t, auth), token)
	if rec.Code != http.StatusOK || rec.Body.String() != "ops@voltera.example" {
		t.Fatalf("status=%d body=%q", rec.Code, rec.Body.String())
	}
}

func TestAdminAuthRejects(t *testing.T) {
	auth, _ := NewAdminAuth(logger.Nop(), "s3cret", "voltera-site")
	other, _ := NewAdminAuth(logger.Nop(), "different", "voltera-site")
	r := adminRouter(t, auth)

	forged, _ := other.Issue("mallory", time.Hour)
	expired, _ := auth.Issue("ops", -time.Minute)
	viewer, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, AdminClaims{
		Role: "viewer",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "voltera-site",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("s3cret"))

	cases := map[string]struct {
		token string
		want  int
	}{
		"missing": {"", http.StatusUnauthorized},
		"forged":  {forged, http.StatusUnauthorized},
		"expired": {expired, http.StatusUnauthorized},
		"viewer":  {viewer, http.StatusForbidden},
	}
	for name, tc := range cases {
		if rec := callAdmin(r, tc.token); rec.Code != tc.want {
			t.Fatalf("%s: status=%d want=%d", name, rec.Code, tc.want)
		}
	}
}

func TestNewAdminAuthRequiresSecret(t *testing.T) {
	if _, err := NewAdminAuth(logger.Nop(), "  ", ""); err == nil {
		t.Fatalf("expected error")
	}
}
