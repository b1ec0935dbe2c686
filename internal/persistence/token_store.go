package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrTokenNotFound is returned when a refresh token is unknown, expired
// or already consumed.
var ErrTokenNotFound = errors.New("refresh token not found")

// TokenPurpose namespaces stored tokens so a password-reset token can
// never be replayed as a session refresh token.
type TokenPurpose string

const (
	TokenPurposeRefresh       TokenPurpose = "refresh"
	TokenPurposePasswordReset TokenPurpose = "pwreset"
)

// TokenStore keeps opaque refresh tokens in Redis, keyed by token value
// with the identity id as payload. Expiry is handled by Redis TTLs.
type TokenStore struct {
	client *redis.Client
}

// NewTokenStore wraps the given Redis client.
func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

// Save stores a token for the identity with the given lifetime.
func (s *TokenStore) Save(ctx context.Context, purpose TokenPurpose, token, identityID string, ttl time.Duration) error {
	return s.client.Set(ctx, s.key(purpose, token), identityID, ttl).Err()
}

// Consume returns the identity id and deletes the token in one step,
// making every token single-use.
func (s *TokenStore) Consume(ctx context.Context, purpose TokenPurpose, token string) (string, error) {
	identityID, err := s.client.GetDel(ctx, s.key(purpose, token)).Result()
	if err == redis.Nil {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("token consume: %w", err)
	}
	return identityID, nil
}

// Revoke drops a token regardless of its state.
func (s *TokenStore) Revoke(ctx context.Context, purpose TokenPurpose, token string) error {
	return s.client.Del(ctx, s.key(purpose, token)).Err()
}

func (s *TokenStore) key(purpose TokenPurpose, token string) string {
	return fmt.Sprintf("token:%s:%s", purpose, token)
}
