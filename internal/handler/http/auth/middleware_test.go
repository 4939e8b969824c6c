package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-jwt-secret-for-middleware"

func signToken(t *testing.T, role string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "admin@example.com",
		"role": role,
		"exp":  exp.Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthz_PublicEndpointsBypass(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	paths := []string{"/healthz", "/readyz", "/livez", "/metrics", "/auth/token", "/internal/cron/poll"}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()
			Authz(okHandler()).ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Errorf("status = %d, want 200 without token", rec.Code)
			}
		})
	}
}

func TestAuthz_MissingToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	req := httptest.NewRequest(http.MethodGet, "/articles", nil)
	rec := httptest.NewRecorder()
	Authz(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthz_ValidAdminToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	req := httptest.NewRequest(http.MethodDelete, "/feeds/1", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, RoleAdmin, time.Now().Add(time.Hour)))
	rec := httptest.NewRecorder()
	Authz(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestAuthz_ViewerReadOnly(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{name: "viewer can read articles", method: "GET", path: "/articles", want: http.StatusOK},
		{name: "viewer can read one article", method: "GET", path: "/articles/42", want: http.StatusOK},
		{name: "viewer can read feeds", method: "GET", path: "/feeds", want: http.StatusOK},
		{name: "viewer cannot create feeds", method: "POST", path: "/feeds", want: http.StatusForbidden},
		{name: "viewer cannot delete articles", method: "DELETE", path: "/articles/42", want: http.StatusForbidden},
		{name: "viewer cannot patch articles", method: "PATCH", path: "/articles/42", want: http.StatusForbidden},
	}

	token := signToken(t, RoleViewer, time.Now().Add(time.Hour))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			Authz(okHandler()).ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestAuthz_ExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	req := httptest.NewRequest(http.MethodGet, "/articles", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, RoleAdmin, time.Now().Add(-time.Hour)))
	rec := httptest.NewRecorder()
	Authz(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for expired token", rec.Code)
	}
}

func TestAuthz_WrongSigningKey(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "admin@example.com",
		"role": RoleAdmin,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, _ := token.SignedString([]byte("a-completely-different-secret"))

	req := httptest.NewRequest(http.MethodGet, "/articles", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	Authz(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for forged token", rec.Code)
	}
}

func TestAuthz_UnknownRole(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	req := httptest.NewRequest(http.MethodGet, "/articles", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "superuser", time.Now().Add(time.Hour)))
	rec := httptest.NewRecorder()
	Authz(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 for unknown role", rec.Code)
	}
}
