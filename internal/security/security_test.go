package security

import (
	"testing"
	"time"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "s3cret" {
		t.Error("Hash should not equal the plaintext password")
	}
	if !CheckPassword(hash, "s3cret") {
		t.Error("Correct password should verify")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("Wrong password should not verify")
	}
}

func TestCSRFTokenRoundTrip(t *testing.T) {
	g := NewCSRFGenerator("test-secret")

	token, err := g.GenerateToken("session-1")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if !g.ValidateToken("session-1", token) {
		t.Error("Token should validate for its own session")
	}
	if g.ValidateToken("session-2", token) {
		t.Error("Token should not validate for another session")
	}
	if g.ValidateToken("session-1", "forged") {
		t.Error("Forged token should not validate")
	}
	if _, err := g.GenerateToken(""); err == nil {
		t.Error("Empty session ID should be rejected")
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("Request %d should be allowed", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Error("Fourth request in the window should be blocked")
	}
	if !rl.Allow("5.6.7.8") {
		t.Error("A different client should not be affected")
	}
}
