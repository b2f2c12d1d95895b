package tokens

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-key-that-is-long-enough"

func TestGenerate(t *testing.T) {
	token, err := Generate(testSecret, "ops@lotwire", []string{RoleAdmin}, time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if token == "" {
		t.Fatal("Generate() returned empty token")
	}
	if parts := strings.Split(token, "."); len(parts) != 3 {
		t.Errorf("token has %d parts, want 3", len(parts))
	}
}

func TestGenerateValidateRoundTrip(t *testing.T) {
	token, err := Generate(testSecret, "ops@lotwire", []string{RoleAdmin, "viewer"}, time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	claims, err := Validate(testSecret, token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if claims.Subject != "ops@lotwire" {
		t.Errorf("Subject = %q, want ops@lotwire", claims.Subject)
	}
	if claims.Issuer != Issuer {
		t.Errorf("Issuer = %q, want %q", claims.Issuer, Issuer)
	}
	if !claims.HasRole(RoleAdmin) {
		t.Error("claims should carry the admin role")
	}
	if claims.HasRole("superuser") {
		t.Error("claims should not carry unlisted roles")
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	token, err := Generate(testSecret, "ops@lotwire", []string{RoleAdmin}, time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := Validate("some-other-secret", token); err == nil {
		t.Error("Validate() with wrong secret should fail")
	}
}

func TestValidate_Expired(t *testing.T) {
	token, err := Generate(testSecret, "ops@lotwire", []string{RoleAdmin}, -time.Minute)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := Validate(testSecret, token); err == nil {
		t.Error("Validate() of expired token should fail")
	}
}

func TestValidate_Tampered(t *testing.T) {
	token, err := Generate(testSecret, "ops@lotwire", []string{"viewer"}, time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	parts := strings.Split(token, ".")
	parts[1] = strings.Repeat("A", len(parts[1]))
	if _, err := Validate(testSecret, strings.Join(parts, ".")); err == nil {
		t.Error("Validate() of tampered token should fail")
	}
}

func TestValidate_RejectsUnsignedAlgorithm(t *testing.T) {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Roles: []string{RoleAdmin},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ops@lotwire",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing with none: %v", err)
	}

	if _, err := Validate(testSecret, token); err == nil {
		t.Error("Validate() should reject the none algorithm")
	}
}

func TestValidate_Garbage(t *testing.T) {
	if _, err := Validate(testSecret, "not.a.token"); err == nil {
		t.Error("Validate() of garbage should fail")
	}
}
