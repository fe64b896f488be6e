package otp

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "prepkart.otp."

// failScript increments the attempt counter only while the record exists so
// an expired key is never recreated without a TTL.
var failScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return 0
end
return redis.call("HINCRBY", KEYS[1], "attempts", 1)
`)

// RedisStore keeps records as Redis hashes with a key expiry.
type RedisStore struct {
	client *redis.Client
}

// NewRedisClient creates a Redis client and checks the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Put stores rec under key with ttl as the Redis expiry.
func (s *RedisStore) Put(ctx context.Context, key string, rec Record, ttl time.Duration) error {
	k := keyPrefix + key
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, k)
		pipe.HSet(ctx, k,
			"code", rec.Code,
			"phone", rec.Phone,
			"username", rec.Username,
			"attempts", rec.Attempts,
		)
		pipe.Expire(ctx, k, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store otp record: %w", err)
	}
	return nil
}

// Get returns the record under key, or nil when it is missing or expired.
func (s *RedisStore) Get(ctx context.Context, key string) (*Record, error) {
	fields, err := s.client.HGetAll(ctx, keyPrefix+key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read otp record: %w", err)
	}
	if len(fields) == 0 || fields["code"] == "" {
		return nil, nil
	}

	attempts, _ := strconv.Atoi(fields["attempts"])
	return &Record{
		Code:     fields["code"],
		Phone:    fields["phone"],
		Username: fields["username"],
		Attempts: attempts,
	}, nil
}

// Fail counts a wrong code against key and returns the new attempt count.
func (s *RedisStore) Fail(ctx context.Context, key string) (int, error) {
	n, err := failScript.Run(ctx, s.client, []string{keyPrefix + key}).Int()
	if err != nil {
		return 0, fmt.Errorf("failed to record otp attempt: %w", err)
	}
	return n, nil
}

// Delete drops the record under key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete otp record: %w", err)
	}
	return nil
}
