package auth

import (
	"testing"
	"time"
)

var secret = []byte("test-secret")

func TestMintParse_RoundTrip(t *testing.T) {
	token, err := Mint(secret, "u1", "USER", "PREMIUM", time.Minute)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	claims, err := Parse(secret, token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Subject != "u1" || claims.Role != "USER" || claims.Tier != "PREMIUM" {
		t.Fatalf("claims unexpected: %+v", claims)
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) > time.Minute {
		t.Fatalf("expiry not bounded by ttl: %v", claims.ExpiresAt)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	token, err := Mint(secret, "u1", "USER", "FREE", time.Minute)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if _, err := Parse([]byte("other-secret"), token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParse_Expired(t *testing.T) {
	token, err := Mint(secret, "u1", "USER", "FREE", -time.Minute)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if _, err := Parse(secret, token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestParse_Garbage(t *testing.T) {
	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := Parse(secret, tok); err != ErrInvalidToken {
			t.Fatalf("Parse(%q): expected ErrInvalidToken, got %v", tok, err)
		}
	}
}

func TestParse_EmptySubjectRejected(t *testing.T) {
	token, err := Mint(secret, "", "USER", "FREE", time.Minute)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if _, err := Parse(secret, token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for empty subject, got %v", err)
	}
}
