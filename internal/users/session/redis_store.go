package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "teamhub:session:" // teamhub:session:{user_token} -> Session JSON
	sessionIndexKey  = "teamhub:sessions" // set of live user tokens
)

// RedisStore keeps sessions in redis so they survive restarts and are shared
// between replicas.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) sessionKey(token string) string {
	return sessionKeyPrefix + token
}

func (r *RedisStore) Add(ctx context.Context, userID, credential string) (*Session, error) {
	s := &Session{UserID: userID, Credential: credential}

	for attempt := 0; attempt < 3; attempt++ {
		s.UserToken = newToken()
		data, err := json.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal session: %w", err)
		}

		ok, err := r.client.SetNX(ctx, r.sessionKey(s.UserToken), data, 0).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to store session: %w", err)
		}
		if !ok {
			continue
		}

		if err := r.client.SAdd(ctx, sessionIndexKey, s.UserToken).Err(); err != nil {
			return nil, fmt.Errorf("failed to index session: %w", err)
		}
		return s, nil
	}

	return nil, fmt.Errorf("failed to allocate a unique session token")
}

func (r *RedisStore) Get(ctx context.Context, userToken string) (*Session, error) {
	data, err := r.client.Get(ctx, r.sessionKey(userToken)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var s Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) Remove(ctx context.Context, userToken string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.sessionKey(userToken))
	pipe.SRem(ctx, sessionIndexKey, userToken)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

func (r *RedisStore) Reset(ctx context.Context) error {
	tokens, err := r.client.SMembers(ctx, sessionIndexKey).Result()
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, t := range tokens {
		keys = append(keys, r.sessionKey(t))
	}
	keys = append(keys, sessionIndexKey)

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to reset sessions: %w", err)
	}
	return nil
}

func (r *RedisStore) Count(ctx context.Context) (int, error) {
	n, err := r.client.SCard(ctx, sessionIndexKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return int(n), nil
}

// Ping reports whether redis is reachable.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
