package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "pvptrainer:session:"

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 24 * time.Hour

// RedisConfig configures a RedisStore.
type RedisConfig struct {
	Client redis.UniversalClient
	TTL    time.Duration
}

// Validate ensures all required dependencies are provided.
func (c *RedisConfig) Validate() error {
	if c.Client == nil {
		return errors.New("redis client is required")
	}
	if c.TTL < 0 {
		return errors.New("session ttl must not be negative")
	}
	return nil
}

// RedisStore keeps sessions as JSON values with a TTL.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

// NewRedisClient builds a client for a single Redis endpoint. A redis:// URL is
// also accepted.
func NewRedisClient(addr string) (*redis.Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("redis: endpoint is required")
	}
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		opts, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return redis.NewClient(opts), nil
	}
	return redis.NewClient(&redis.Options{Addr: addr}), nil
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: cfg.Client, ttl: ttl}, nil
}

// Get returns the state stored under id.
func (s *RedisStore) Get(ctx context.Context, id string) (State, error) {
	data, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return State{}, ErrNotFound
		}
		return State{}, fmt.Errorf("failed to get session: %w", err)
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return state, nil
}

// Save replaces the state stored under id and refreshes its TTL.
func (s *RedisStore) Save(ctx context.Context, id string, state State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+id, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Delete removes the state stored under id.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
