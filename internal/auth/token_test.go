package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	token, expiresAt, err := tm.GenerateToken("identity-1", "jane@client.test")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if time.Until(expiresAt) < 55*time.Minute {
		t.Fatalf("expiry %v too close", expiresAt)
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "identity-1" {
		t.Fatalf("subject %q", claims.Subject)
	}
	if claims.Email != "jane@client.test" {
		t.Fatalf("email %q", claims.Email)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	other := NewTokenManager("different", time.Hour)

	token, _, err := tm.GenerateToken("identity-1", "jane@client.test")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := other.ParseToken(token); err == nil {
		t.Fatal("token verified with wrong secret")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	token, _, err := tm.GenerateTokenWithTTL("identity-1", "jane@client.test", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tm.ParseToken(token); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestBearerToken(t *testing.T) {
	if got := bearerToken("Bearer abc"); got != "abc" {
		t.Fatalf("got %q", got)
	}
	if got := bearerToken("bearer abc"); got != "abc" {
		t.Fatalf("case-insensitive scheme: got %q", got)
	}
	for _, header := range []string{"", "abc", "Basic abc"} {
		if got := bearerToken(header); got != "" {
			t.Fatalf("header %q: got %q, want empty", header, got)
		}
	}
}
