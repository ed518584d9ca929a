package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/promptdeck/promptdeck/internal/domain"
)

const (
	apiKeyCachePrefix = "apikey:"
	apiKeyCacheTTL    = 5 * time.Minute
)

// APIKeyCache caches API-key-to-user resolution for the tool-call surface.
// Keys are stored under a digest so the plaintext credential never appears in
// the keyspace.
type APIKeyCache struct {
	client *Client
}

// NewAPIKeyCache creates a new API key cache.
func NewAPIKeyCache(client *Client) *APIKeyCache {
	return &APIKeyCache{client: client}
}

// Get retrieves the cached user for an API key. A miss returns nil, nil.
func (c *APIKeyCache) Get(ctx context.Context, apiKey string) (*domain.User, error) {
	data, err := c.client.rdb.Get(ctx, cacheKey(apiKey)).Bytes()
	if err != nil {
		return nil, nil // Cache miss
	}

	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached user: %w", err)
	}

	return &user, nil
}

// Set caches the user resolved from an API key.
func (c *APIKeyCache) Set(ctx context.Context, apiKey string, user *domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	return c.client.rdb.Set(ctx, cacheKey(apiKey), data, apiKeyCacheTTL).Err()
}

// Invalidate removes a cached API key entry, e.g. after key replacement.
func (c *APIKeyCache) Invalidate(ctx context.Context, apiKey string) error {
	return c.client.rdb.Del(ctx, cacheKey(apiKey)).Err()
}

func cacheKey(apiKey string) string {
	sum := sha256.Sum256([]byte(apiKey))
	return apiKeyCachePrefix + hex.EncodeToString(sum[:16])
}
