package privacy

import (
	"strings"
	"testing"
)

func TestHashIP(t *testing.T) {
	hash := HashIP("192.168.1.1", DefaultSalt)

	if len(hash) != 64 {
		t.Errorf("Expected 64-character hex digest, got %d characters", len(hash))
	}
	if hash == "192.168.1.1" || strings.Contains(hash, "192.168") {
		t.Error("Expected hash to not contain the raw address")
	}

	// Deterministic for the same salt
	if HashIP("192.168.1.1", DefaultSalt) != hash {
		t.Error("Expected hashing to be deterministic")
	}

	// Different salt produces a different digest
	if HashIP("192.168.1.1", "other_salt") == hash {
		t.Error("Expected different salts to produce different digests")
	}

	// Different addresses produce different digests
	if HashIP("192.168.1.2", DefaultSalt) == hash {
		t.Error("Expected different addresses to produce different digests")
	}
}

func TestHashIdentifierNormalizes(t *testing.T) {
	a := HashIdentifier("John@Example.com", DefaultSalt)
	b := HashIdentifier("  john@example.com ", DefaultSalt)
	if a != b {
		t.Error("Expected identifier hashing to normalize case and whitespace")
	}
}

func TestSanitizeUserAgent(t *testing.T) {
	if got := SanitizeUserAgent(""); got != "unknown" {
		t.Errorf("Expected empty user agent to become %q, got %q", "unknown", got)
	}
	if got := SanitizeUserAgent("   "); got != "unknown" {
		t.Errorf("Expected blank user agent to become %q, got %q", "unknown", got)
	}

	long := strings.Repeat("M", 300)
	if got := SanitizeUserAgent(long); len(got) != 200 {
		t.Errorf("Expected truncation to 200 characters, got %d", len(got))
	}

	if got := SanitizeUserAgent("Mozilla/5.0\x00\x1f(compatible)"); strings.ContainsAny(got, "\x00\x1f") {
		t.Errorf("Expected control characters to be removed, got %q", got)
	}

	normal := "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"
	if got := SanitizeUserAgent(normal); got != normal {
		t.Errorf("Expected normal user agent to pass through, got %q", got)
	}
}

func TestNewCSRFToken(t *testing.T) {
	token, err := NewCSRFToken()
	if err != nil {
		t.Fatalf("Expected token generation to succeed, got %v", err)
	}

	if len(token) != 32 {
		t.Errorf("Expected 32-character token, got %d characters", len(token))
	}
	for _, r := range token {
		if !strings.ContainsRune(tokenAlphabet, r) {
			t.Errorf("Expected alphanumeric token, found %q", r)
		}
	}

	other, err := NewCSRFToken()
	if err != nil {
		t.Fatalf("Expected token generation to succeed, got %v", err)
	}
	if token == other {
		t.Error("Expected consecutive tokens to differ")
	}
}

func TestTokensEqual(t *testing.T) {
	if !TokensEqual("abc123", "abc123") {
		t.Error("Expected equal tokens to compare equal")
	}
	if TokensEqual("abc123", "abc124") {
		t.Error("Expected different tokens to compare unequal")
	}
	if TokensEqual("abc123", "") {
		t.Error("Expected empty token to compare unequal")
	}
}
