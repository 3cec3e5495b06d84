package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// Session is the state carried by a signed-in browser
type Session struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// SessionStore persists sessions with a TTL
type SessionStore interface {
	// Create stores the session and returns its opaque token.
	Create(ctx context.Context, s Session, ttl time.Duration) (string, error)

	// Get returns the session for a token, or nil when absent or expired.
	Get(ctx context.Context, token string) (*Session, error)

	// Destroy removes the session. Unknown tokens are a no-op.
	Destroy(ctx context.Context, token string) error
}

// RedisSessionStore implements SessionStore on Redis. Expiry is delegated to
// the key TTL, so expired sessions read back as absent.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore creates a session store over an existing Redis client
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

// Create stores a new session and returns its token
func (s *RedisSessionStore) Create(ctx context.Context, sess Session, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	data, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKeyPrefix+token, data, ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

// Get loads the session for a token
func (s *RedisSessionStore) Get(ctx context.Context, token string) (*Session, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+token).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &sess, nil
}

// Destroy removes the session for a token
func (s *RedisSessionStore) Destroy(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
