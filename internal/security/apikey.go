package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// API key entropy in bytes. The long variant is the fallback after repeated
// uniqueness collisions; its extra length makes a further collision
// practically impossible.
const (
	apiKeyBytes     = 32
	apiKeyLongBytes = 48
)

// GenerateAPIKey returns a new URL-safe random API key.
func GenerateAPIKey() (string, error) {
	return randomKey(apiKeyBytes)
}

// GenerateLongAPIKey returns a longer random API key.
func GenerateLongAPIKey() (string, error) {
	return randomKey(apiKeyLongBytes)
}

func randomKey(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate key material: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
