package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yourusername/floodgate/core"
)

const redisKeyPrefix = "floodgate:user:"

// RedisStore keeps user state in Redis as JSON with a TTL, so limiter
// state (bans included) survives process restarts. Per-user atomicity
// still relies on the controller's in-process critical section; running
// several limiter processes against one Redis can over-admit during the
// get/set race and is not a supported way to get distributed limits.
type RedisStore struct {
	client *redis.Client
	ctx    context.Context
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

// RedisConfig configures a RedisStore.
type RedisConfig struct {
	Addr     string        // Redis address (e.g., "localhost:6379")
	Password string        // Redis password (empty for no auth)
	DB       int           // Redis database number
	TTL      time.Duration // TTL for user state (default: 24 hours)
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(config RedisConfig) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	ttl := config.TTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}

	return &RedisStore{
		client: client,
		ctx:    context.Background(),
		ttl:    ttl,
	}
}

// Get returns the deserialized state for a user, or nil when absent or
// unreadable.
func (s *RedisStore) Get(userID string) *core.UserState {
	val, err := s.client.Get(s.ctx, redisKeyPrefix+userID).Result()
	if err != nil {
		return nil
	}

	var state core.UserState
	if err := json.Unmarshal([]byte(val), &state); err != nil {
		return nil
	}
	if state.Requests == nil {
		state.Requests = make(map[string][]time.Time)
	}
	return &state
}

// Set stores the serialized state for a user.
func (s *RedisStore) Set(userID string, state *core.UserState) {
	data, err := json.Marshal(state)
	if err != nil {
		return
	}
	s.client.Set(s.ctx, redisKeyPrefix+userID, data, s.ttl)
}

// Delete removes a user's state.
func (s *RedisStore) Delete(userID string) {
	s.client.Del(s.ctx, redisKeyPrefix+userID)
}

// Clear removes all floodgate user keys.
func (s *RedisStore) Clear() {
	iter := s.client.Scan(s.ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(s.ctx) {
		s.client.Del(s.ctx, iter.Val())
	}
}

// Count returns the number of tracked users.
func (s *RedisStore) Count() int {
	count := 0
	iter := s.client.Scan(s.ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(s.ctx) {
		count++
	}
	return count
}

// ForEach visits every tracked user via SCAN.
func (s *RedisStore) ForEach(fn func(userID string, state *core.UserState)) {
	iter := s.client.Scan(s.ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(s.ctx) {
		key := iter.Val()
		userID := key[len(redisKeyPrefix):]
		if state := s.Get(userID); state != nil {
			fn(userID, state)
		}
	}
}

// Cleanup removes users idle since before cutoff. Redis also expires
// untouched keys via the TTL; this pass exists so explicit cleanup calls
// behave the same across backends.
func (s *RedisStore) Cleanup(cutoff time.Time) int {
	removed := 0
	iter := s.client.Scan(s.ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(s.ctx) {
		key := iter.Val()
		userID := key[len(redisKeyPrefix):]
		state := s.Get(userID)
		if state != nil && state.LastRequest.Before(cutoff) {
			s.client.Del(s.ctx, key)
			removed++
		}
	}
	return removed
}

// Ping checks if the Redis connection is alive.
func (s *RedisStore) Ping() error {
	return s.client.Ping(s.ctx).Err()
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
