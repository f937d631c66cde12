package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// newID returns the prefix plus 12 hex characters from a CSPRNG. Evidence
// references are derived from transaction ids, so ids must not be guessable
// from one another.
func newID(prefix string) (string, error) {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return prefix + hex.EncodeToString(b), nil
}
