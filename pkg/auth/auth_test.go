package auth

import (
	"strings"
	"testing"
	"time"
)

var secret = []byte("test-secret")

func TestGenerateAndParseToken(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken(secret, "ci-bot", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := ParseToken(secret, tok)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.Subject != "ci-bot" {
		t.Errorf("expected subject ci-bot, got %q", claims.Subject)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken(secret, "x", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := ParseToken([]byte("other-secret"), tok); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken(secret, "x", time.Nanosecond)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, err := ParseToken(secret, tok); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestParseToken_Garbage(t *testing.T) {
	t.Parallel()

	for _, tok := range []string{"", "not-a-jwt", strings.Repeat("a.b.c", 3)} {
		if _, err := ParseToken(secret, tok); err == nil {
			t.Errorf("expected error for token %q", tok)
		}
	}
}

func TestGenerateToken_EmptySecret(t *testing.T) {
	t.Parallel()

	if _, err := GenerateToken(nil, "x", time.Hour); err == nil {
		t.Error("expected error for empty secret")
	}
}
