package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lotwire-systems/lotwire-relay/relay/pkg/tokens"
)

const testSecret = "test-jwt-secret-that-is-long-enough-for-hs256"

func protectedHandler(t *testing.T, called *bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		*called = true
		if claims := ClaimsFromContext(r.Context()); claims == nil {
			t.Error("claims should be in the request context")
		}
		w.WriteHeader(http.StatusOK)
	}
}

func TestRequireAdmin_ValidToken(t *testing.T) {
	token, err := tokens.Generate(testSecret, "ops@lotwire", []string{tokens.RoleAdmin}, time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	called := false
	handler := NewAdminAuth(testSecret).RequireAdmin(protectedHandler(t, &called))

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/dlq", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !called {
		t.Error("handler should have been called")
	}
}

func TestRequireAdmin_Failures(t *testing.T) {
	adminToken, err := tokens.Generate(testSecret, "ops@lotwire", []string{tokens.RoleAdmin}, time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	viewerToken, err := tokens.Generate(testSecret, "intern@lotwire", []string{"viewer"}, time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	wrongSecretToken, err := tokens.Generate("some-other-secret-entirely", "ops@lotwire", []string{tokens.RoleAdmin}, time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	expiredToken, err := tokens.Generate(testSecret, "ops@lotwire", []string{tokens.RoleAdmin}, -time.Minute)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	tests := []struct {
		name       string
		secret     string
		authHeader string
		wantStatus int
	}{
		{
			name:       "no secret configured",
			secret:     "",
			authHeader: "Bearer " + adminToken,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "missing header",
			secret:     testSecret,
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header",
			secret:     testSecret,
			authHeader: "Token " + adminToken,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong secret",
			secret:     testSecret,
			authHeader: "Bearer " + wrongSecretToken,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token",
			secret:     testSecret,
			authHeader: "Bearer " + expiredToken,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing admin role",
			secret:     testSecret,
			authHeader: "Bearer " + viewerToken,
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := NewAdminAuth(tt.secret).RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
				called = true
			})

			req := httptest.NewRequest(http.MethodGet, "/v1/admin/dlq", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if called {
				t.Error("handler should not have been called")
			}
		})
	}
}

func TestClaimsFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if claims := ClaimsFromContext(req.Context()); claims != nil {
		t.Errorf("claims = %v, want nil outside an authenticated request", claims)
	}
}
