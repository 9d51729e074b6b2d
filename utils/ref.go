package utils

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
)

// generateSecureToken returns a base32 encoded random string (without padding)
// truncated to the desired length.
func generateSecureToken(length int) (string, error) {
	numBytes := (length*5 + 7) / 8
	randomBytes := make([]byte, numBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	token := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes)
	if len(token) > length {
		token = token[:length]
	}
	return token, nil
}

// NewBookingRef generates a human-shareable booking identifier, e.g. "MV-7KQ2NX".
// Base32 keeps it unambiguous when read over the phone.
func NewBookingRef() (string, error) {
	token, err := generateSecureToken(6)
	if err != nil {
		return "", err
	}
	return "MV-" + token, nil
}
