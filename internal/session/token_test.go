// ABOUTME: Tests for local bearer-token inspection
// ABOUTME: Covers claim extraction, malformed tokens and expiry checks

package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("failed to build token: %v", err)
	}
	return token
}

func TestInspectToken_ExtractsClaims(t *testing.T) {
	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signedToken(t, jwt.MapClaims{
		"sub": "doc@example.org",
		"exp": expiry.Unix(),
	})

	info, ok := InspectToken(token)
	if !ok {
		t.Fatal("expected a well-formed token to parse")
	}
	if info.Subject != "doc@example.org" {
		t.Errorf("expected subject doc@example.org, got %q", info.Subject)
	}
	if !info.Expiry.Equal(expiry) {
		t.Errorf("expected expiry %v, got %v", expiry, info.Expiry)
	}
}

func TestInspectToken_MissingClaims(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{})

	info, ok := InspectToken(token)
	if !ok {
		t.Fatal("expected token without claims to still parse")
	}
	if info.Subject != "" {
		t.Errorf("expected empty subject, got %q", info.Subject)
	}
	if !info.Expiry.IsZero() {
		t.Errorf("expected zero expiry, got %v", info.Expiry)
	}
}

func TestInspectToken_Malformed(t *testing.T) {
	for _, token := range []string{"", "not-a-jwt", "a.b"} {
		if _, ok := InspectToken(token); ok {
			t.Errorf("expected %q to be rejected", token)
		}
	}
}

func TestTokenInfo_Expired(t *testing.T) {
	tests := []struct {
		name   string
		expiry time.Time
		want   bool
	}{
		{"future expiry", time.Now().Add(time.Hour), false},
		{"past expiry", time.Now().Add(-time.Hour), true},
		{"no expiry claim", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := TokenInfo{Expiry: tt.expiry}
			if got := info.Expired(); got != tt.want {
				t.Errorf("Expired = %t, want %t", got, tt.want)
			}
		})
	}
}
