package domain

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"
)

func tokenWithClaims(t *testing.T, claims map[string]any) string {
	t.Helper()
	header, err := json.Marshal(map[string]any{"alg": "HS256", "typ": "JWT"})
	if err != nil {
		t.Fatal(err)
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatal(err)
	}
	enc := base64.RawURLEncoding
	return enc.EncodeToString(header) + "." + enc.EncodeToString(payload) + ".sig"
}

func TestParseClaimsReadsSubjectRoleAndExpiry(t *testing.T) {
	t.Parallel()

	exp := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	token := tokenWithClaims(t, map[string]any{
		"sub":  "user@example.com",
		"role": "USER",
		"exp":  exp.Unix(),
	})

	claims, err := ParseClaims(token)
	if err != nil {
		t.Fatalf("ParseClaims: %v", err)
	}
	if claims.Subject != "user@example.com" || claims.Role != "USER" {
		t.Fatalf("claims = %+v", claims)
	}
	if !claims.ExpiresAt.Equal(exp) {
		t.Fatalf("expiresAt = %v, want %v", claims.ExpiresAt, exp)
	}
}

func TestParseClaimsRequiresExp(t *testing.T) {
	t.Parallel()

	token := tokenWithClaims(t, map[string]any{"sub": "user@example.com"})
	if _, err := ParseClaims(token); err == nil {
		t.Fatal("want error for a token without exp")
	}
}

func TestParseClaimsRejectsMalformedToken(t *testing.T) {
	t.Parallel()

	for _, token := range []string{"", "not-a-token", "a.b", "ey.garbage.sig"} {
		if _, err := ParseClaims(token); err == nil {
			t.Fatalf("ParseClaims(%q) succeeded, want error", token)
		}
	}
}

func TestExpired(t *testing.T) {
	t.Parallel()

	exp := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	claims := Claims{ExpiresAt: exp}
	if claims.Expired(exp.Add(-time.Minute)) {
		t.Fatal("expired before exp")
	}
	if !claims.Expired(exp.Add(time.Minute)) {
		t.Fatal("not expired after exp")
	}
}
