// internal/pkg/session/redis_store.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is the authoritative shared-store implementation. Session
// records are JSON values keyed by token; a per-subject set indexes tokens
// so DeleteAll does not need a key scan.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, namespace string) *RedisStore {
	prefix := "session:"
	if namespace != "" {
		prefix = namespace + ":" + prefix
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
	}
}

func (r *RedisStore) key(token string) string {
	return r.prefix + token
}

func (r *RedisStore) subjectKey(subject string) string {
	return r.prefix + "subject:" + subject
}

func (r *RedisStore) Create(ctx context.Context, subject string, roles []string, ttl time.Duration) (*Session, error) {
	if subject == "" {
		return nil, fmt.Errorf("session: missing subject")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session: ttl must be positive")
	}

	token, err := NewToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	s := &Session{
		Token:     token,
		Subject:   subject,
		Roles:     roles,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("session: failed to marshal: %w", err)
	}

	if err := r.client.Set(ctx, r.key(token), data, ttl).Err(); err != nil {
		return nil, fmt.Errorf("session: failed to store: %w", err)
	}

	// Index for DeleteAll. The set outlives individual members; stale tokens
	// resolve to absent records on the Get path.
	if err := r.client.SAdd(ctx, r.subjectKey(subject), token).Err(); err == nil {
		r.client.Expire(ctx, r.subjectKey(subject), ttl)
	}

	return s, nil
}

func (r *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}

	val, err := r.client.Get(ctx, r.key(token)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: failed to read: %w", err)
	}

	var s Session
	if err := json.Unmarshal(val, &s); err != nil {
		// Corrupt record reads as absent.
		return nil, nil
	}

	if s.Expired(time.Now()) {
		return nil, nil
	}

	return &s, nil
}

func (r *RedisStore) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return r.client.Del(ctx, r.key(token)).Err()
}

func (r *RedisStore) DeleteAll(ctx context.Context, subject string) error {
	tokens, err := r.client.SMembers(ctx, r.subjectKey(subject)).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("session: failed to list subject sessions: %w", err)
	}

	for _, token := range tokens {
		if err := r.client.Del(ctx, r.key(token)).Err(); err != nil {
			return fmt.Errorf("session: failed to delete %s: %w", token, err)
		}
	}

	return r.client.Del(ctx, r.subjectKey(subject)).Err()
}
