// Package database provides the Redis cache layer shared by the pricing
// services: quote storage, zone configuration caching, and the locks that
// guard configuration refreshes.
package database

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host        string
	Port        int
	Password    string
	DB          int
	TLSEnabled  bool
	PoolSize    int
	MinIdleConn int
}

// DefaultRedisConfig returns sensible defaults.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Port:        6380, // Azure Redis uses 6380 for TLS
		DB:          0,
		TLSEnabled:  true,
		PoolSize:    100,
		MinIdleConn: 10,
	}
}

// RedisClient wraps the Redis client.
type RedisClient struct {
	client *redis.Client
	config RedisConfig
}

// NewRedisClient creates a new Redis client and verifies the connection.
func NewRedisClient(ctx context.Context, config RedisConfig) (*RedisClient, error) {
	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)

	opts := &redis.Options{
		Addr:         addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConn,
	}

	if config.TLSEnabled {
		opts.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{
		client: client,
		config: config,
	}, nil
}

// Client returns the underlying redis client.
func (r *RedisClient) Client() *redis.Client {
	return r.client
}

// Ping checks the connection.
func (r *RedisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the client.
func (r *RedisClient) Close() error {
	return r.client.Close()
}

// String operations

// Get retrieves a string value.
func (r *RedisClient) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrKeyNotFound
	}
	return val, err
}

// Set sets a string value with optional expiration.
func (r *RedisClient) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	return r.client.Set(ctx, key, value, expiration).Err()
}

// SetNX sets a value only if the key doesn't exist (for distributed locks).
func (r *RedisClient) SetNX(ctx context.Context, key, value string, expiration time.Duration) (bool, error) {
	return r.client.SetNX(ctx, key, value, expiration).Result()
}

// Delete deletes keys.
func (r *RedisClient) Delete(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

// Exists checks if keys exist.
func (r *RedisClient) Exists(ctx context.Context, keys ...string) (int64, error) {
	return r.client.Exists(ctx, keys...).Result()
}

// Expire sets an expiration on a key.
func (r *RedisClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return r.client.Expire(ctx, key, expiration).Err()
}

// TTL returns the time to live of a key.
func (r *RedisClient) TTL(ctx context.Context, key string) (time.Duration, error) {
	return r.client.TTL(ctx, key).Result()
}

// JSON operations

// GetJSON retrieves and unmarshals a JSON value.
func (r *RedisClient) GetJSON(ctx context.Context, key string, dest interface{}) error {
	val, err := r.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

// SetJSON marshals and sets a JSON value.
func (r *RedisClient) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return r.Set(ctx, key, string(data), expiration)
}

// Hash operations (per-zone quote counters, config metadata)

// HGet gets a hash field.
func (r *RedisClient) HGet(ctx context.Context, key, field string) (string, error) {
	val, err := r.client.HGet(ctx, key, field).Result()
	if err == redis.Nil {
		return "", ErrKeyNotFound
	}
	return val, err
}

// HSet sets hash fields.
func (r *RedisClient) HSet(ctx context.Context, key string, values ...interface{}) error {
	return r.client.HSet(ctx, key, values...).Err()
}

// HGetAll gets all hash fields.
func (r *RedisClient) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return r.client.HGetAll(ctx, key).Result()
}

// HDel deletes hash fields.
func (r *RedisClient) HDel(ctx context.Context, key string, fields ...string) error {
	return r.client.HDel(ctx, key, fields...).Err()
}

// HIncrBy increments a hash field by a specific amount.
func (r *RedisClient) HIncrBy(ctx context.Context, key, field string, incr int64) (int64, error) {
	return r.client.HIncrBy(ctx, key, field, incr).Result()
}

// Increment operations

// Incr increments a key.
func (r *RedisClient) Incr(ctx context.Context, key string) (int64, error) {
	return r.client.Incr(ctx, key).Result()
}

// IncrBy increments a key by a specific amount.
func (r *RedisClient) IncrBy(ctx context.Context, key string, value int64) (int64, error) {
	return r.client.IncrBy(ctx, key, value).Result()
}

// Decr decrements a key.
func (r *RedisClient) Decr(ctx context.Context, key string) (int64, error) {
	return r.client.Decr(ctx, key).Result()
}

// Common errors
var ErrKeyNotFound = fmt.Errorf("key not found")

// Distributed Lock

// Lock represents a distributed lock.
type Lock struct {
	client *RedisClient
	key    string
	value  string
	ttl    time.Duration
}

// AcquireLock attempts to acquire a distributed lock.
func (r *RedisClient) AcquireLock(ctx context.Context, key string, ttl time.Duration) (*Lock, error) {
	value := fmt.Sprintf("%d", time.Now().UnixNano())
	acquired, err := r.SetNX(ctx, key, value, ttl)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrLockNotAcquired
	}
	return &Lock{
		client: r,
		key:    key,
		value:  value,
		ttl:    ttl,
	}, nil
}

// Release releases the lock.
func (l *Lock) Release(ctx context.Context) error {
	// Only release if we still hold the lock
	script := `
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("del", KEYS[1])
		else
			return 0
		end
	`
	return l.client.client.Eval(ctx, script, []string{l.key}, l.value).Err()
}

// Extend extends the lock TTL.
func (l *Lock) Extend(ctx context.Context, ttl time.Duration) error {
	script := `
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("pexpire", KEYS[1], ARGV[2])
		else
			return 0
		end
	`
	return l.client.client.Eval(ctx, script, []string{l.key}, l.value, int64(ttl.Milliseconds())).Err()
}

var ErrLockNotAcquired = fmt.Errorf("lock not acquired")

// Retry-enabled operations for production resilience

// GetWithRetry retrieves a string value with retry logic.
func (r *RedisClient) GetWithRetry(ctx context.Context, key string) (string, error) {
	var result string
	err := RetryRedisOperation(ctx, func() error {
		var getErr error
		result, getErr = r.Get(ctx, key)
		return getErr
	})
	return result, err
}

// SetWithRetry sets a string value with retry logic.
func (r *RedisClient) SetWithRetry(ctx context.Context, key, value string, expiration time.Duration) error {
	return RetryRedisOperation(ctx, func() error {
		return r.Set(ctx, key, value, expiration)
	})
}

// SetNXWithRetry sets a value with retry logic if the key doesn't exist.
func (r *RedisClient) SetNXWithRetry(ctx context.Context, key, value string, expiration time.Duration) (bool, error) {
	var result bool
	err := RetryRedisOperation(ctx, func() error {
		var setErr error
		result, setErr = r.SetNX(ctx, key, value, expiration)
		return setErr
	})
	return result, err
}

// DeleteWithRetry deletes keys with retry logic.
func (r *RedisClient) DeleteWithRetry(ctx context.Context, keys ...string) error {
	return RetryRedisOperation(ctx, func() error {
		return r.Delete(ctx, keys...)
	})
}

// GetJSONWithRetry retrieves and unmarshals a JSON value with retry logic.
func (r *RedisClient) GetJSONWithRetry(ctx context.Context, key string, dest interface{}) error {
	return RetryRedisOperation(ctx, func() error {
		return r.GetJSON(ctx, key, dest)
	})
}

// SetJSONWithRetry marshals and sets a JSON value with retry logic.
func (r *RedisClient) SetJSONWithRetry(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return RetryRedisOperation(ctx, func() error {
		return r.SetJSON(ctx, key, value, expiration)
	})
}

// HGetAllWithRetry gets all hash fields with retry logic.
func (r *RedisClient) HGetAllWithRetry(ctx context.Context, key string) (map[string]string, error) {
	var result map[string]string
	err := RetryRedisOperation(ctx, func() error {
		var getErr error
		result, getErr = r.HGetAll(ctx, key)
		return getErr
	})
	return result, err
}

// IncrWithRetry increments a key with retry logic.
func (r *RedisClient) IncrWithRetry(ctx context.Context, key string) (int64, error) {
	var result int64
	err := RetryRedisOperation(ctx, func() error {
		var incrErr error
		result, incrErr = r.Incr(ctx, key)
		return incrErr
	})
	return result, err
}

// AcquireLockWithRetry attempts to acquire a distributed lock with retry logic.
func (r *RedisClient) AcquireLockWithRetry(ctx context.Context, key string, ttl time.Duration, maxAttempts int) (*Lock, error) {
	var lock *Lock
	config := RetryConfig{
		MaxRetries:   maxAttempts - 1,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     1 * time.Second,
		Multiplier:   1.5,
		Jitter:       0.3,
	}

	err := Retry(ctx, config, func() error {
		var lockErr error
		lock, lockErr = r.AcquireLock(ctx, key, ttl)
		return lockErr
	})

	return lock, err
}

// PingWithRetry checks the connection with retry logic.
func (r *RedisClient) PingWithRetry(ctx context.Context) error {
	return RetryRedisOperation(ctx, func() error {
		return r.Ping(ctx)
	})
}
