// Package auth provides the credential-verification primitives: password
// hashing and the per-session CSRF guard.
package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a password using bcrypt. The salt is generated per
// call and embedded in the returned hash.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword verifies a plain text password against a bcrypt hash. A
// malformed hash verifies as false rather than returning an error.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
