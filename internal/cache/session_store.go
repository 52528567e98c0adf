package cache

import (
	"context"
	"fmt"
	"time"
)

// SessionStore tracks revoked sessions in Redis. A revoked profile id stays
// blacklisted for the maximum token lifetime, after which any surviving token
// has expired on its own.
type SessionStore struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewSessionStore creates a SessionStore. ttl should match the session token
// lifetime.
func NewSessionStore(redis *RedisClient, ttl time.Duration) *SessionStore {
	return &SessionStore{redis: redis, ttl: ttl}
}

func (s *SessionStore) key(profileID string) string {
	return fmt.Sprintf("session:revoked:%s", profileID)
}

// RevokeSession blacklists every token of the given identity. Implements
// guard.Revoker.
func (s *SessionStore) RevokeSession(ctx context.Context, profileID string) error {
	return s.redis.Set(ctx, s.key(profileID), "1", s.ttl)
}

// IsRevoked reports whether the identity's sessions have been terminated.
func (s *SessionStore) IsRevoked(ctx context.Context, profileID string) (bool, error) {
	return s.redis.Exists(ctx, s.key(profileID))
}

// ClearRevocation re-admits an identity after a fresh sign-in.
func (s *SessionStore) ClearRevocation(ctx context.Context, profileID string) error {
	return s.redis.Delete(ctx, s.key(profileID))
}
