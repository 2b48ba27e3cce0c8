package privacy

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
)

// DefaultSalt is the fallback hashing salt. Deployments override it through
// configuration; it only exists so a misconfigured instance never stores raw
// addresses.
const DefaultSalt = "corporate_website_salt_2025"

// maxUserAgentLength caps stored user agent strings.
const maxUserAgentLength = 200

// csrfTokenLength is the length of issued CSRF tokens.
const csrfTokenLength = 32

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// HashIP returns the hex SHA-256 of the address concatenated with the salt.
// Only this hash is ever stored, logged, or audited; the raw address stays in
// request memory.
func HashIP(ip, salt string) string {
	sum := sha256.Sum256([]byte(ip + salt))
	return hex.EncodeToString(sum[:])
}

// HashIdentifier hashes user identifiers such as email addresses the same
// way, normalized to lower case, for use in audit payloads.
func HashIdentifier(identifier, salt string) string {
	return HashIP(strings.ToLower(strings.TrimSpace(identifier)), salt)
}

// SanitizeUserAgent truncates a user agent to 200 characters and maps control
// characters to spaces. Empty input becomes "unknown".
func SanitizeUserAgent(userAgent string) string {
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		return "unknown"
	}

	userAgent = strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return ' '
		}
		return r
	}, userAgent)

	runes := []rune(userAgent)
	if len(runes) > maxUserAgentLength {
		userAgent = string(runes[:maxUserAgentLength])
	}
	return userAgent
}

// NewCSRFToken returns a 32-character alphanumeric token from crypto/rand.
func NewCSRFToken() (string, error) {
	buf := make([]byte, csrfTokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	for i, b := range buf {
		buf[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}
	return string(buf), nil
}

// TokensEqual compares two tokens in constant time.
func TokensEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
