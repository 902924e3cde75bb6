package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
)

// csrfTokenLength is the token size in bytes before hex encoding
const csrfTokenLength = 32

// NewCSRFToken generates a cryptographically random anti-forgery token
func NewCSRFToken() (string, error) {
	b := make([]byte, csrfTokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// VerifyCSRFToken reports whether candidate matches the issued token. The
// comparison is constant time; a missing issued token always fails.
func VerifyCSRFToken(issued, candidate string) bool {
	if issued == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(issued), []byte(candidate)) == 1
}
