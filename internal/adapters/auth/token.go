// Package auth generates and fingerprints the administrator bearer token.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

const (
	tokenBytes        = 32
	fingerprintLength = 12
)

// NewAdminToken returns a random URL-safe token.
func NewAdminToken() (string, error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate admin token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Fingerprint identifies a token in logs without revealing it.
func Fingerprint(token string) string {
	hash := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(hash[:])[:fingerprintLength]
}
