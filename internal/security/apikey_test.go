package security_test

import (
	"regexp"
	"testing"

	"github.com/promptdeck/promptdeck/internal/security"
)

var urlSafe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func TestGenerateAPIKey(t *testing.T) {
	key, err := security.GenerateAPIKey()
	if err != nil {
		t.Fatalf("failed to generate api key: %v", err)
	}

	// 32 bytes of entropy, base64url without padding
	if len(key) != 43 {
		t.Errorf("key length mismatch: got %d, want 43", len(key))
	}

	if !urlSafe.MatchString(key) {
		t.Errorf("key contains non-URL-safe characters: %s", key)
	}

	other, err := security.GenerateAPIKey()
	if err != nil {
		t.Fatalf("failed to generate api key: %v", err)
	}
	if key == other {
		t.Error("two generated keys are equal")
	}
}

func TestGenerateLongAPIKey(t *testing.T) {
	key, err := security.GenerateLongAPIKey()
	if err != nil {
		t.Fatalf("failed to generate api key: %v", err)
	}

	// 48 bytes of entropy, base64url without padding
	if len(key) != 64 {
		t.Errorf("key length mismatch: got %d, want 64", len(key))
	}

	if !urlSafe.MatchString(key) {
		t.Errorf("key contains non-URL-safe characters: %s", key)
	}
}
