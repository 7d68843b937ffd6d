package notify

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/smokyabdulrahman/adhan/internal/prayer"
)

// DefaultRedisChannel is the channel used when none is configured.
const DefaultRedisChannel = "adhan"

// LastEventKey holds the most recent event.
const LastEventKey = "adhan:last"

// KV is the part of a Redis client the sink needs.
type KV interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Set(ctx context.Context, key string, payload []byte) error
}

// Redis publishes each event on a channel and stores it under LastEventKey.
type Redis struct {
	kv      KV
	channel string
}

// NewRedis wraps an existing store.
func NewRedis(kv KV, channel string) *Redis {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	return &Redis{kv: kv, channel: channel}
}

func (r *Redis) Notify(ctx context.Context, e prayer.Event) error {
	payload, err := encode(e)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", e.Name, err)
	}
	if err := r.kv.Set(ctx, LastEventKey, payload); err != nil {
		return fmt.Errorf("storing %s: %w", e.Name, err)
	}
	if err := r.kv.Publish(ctx, r.channel, payload); err != nil {
		return fmt.Errorf("publishing %s: %w", e.Name, err)
	}
	return nil
}

// RedisClient adapts a go-redis client to KV.
type RedisClient struct {
	rdb *redis.Client
}

// DialRedis creates a client for addr and pings it.
func DialRedis(ctx context.Context, addr, username, password string) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connecting to redis %s: %w", addr, err)
	}
	return &RedisClient{rdb: rdb}, nil
}

func (c *RedisClient) Publish(ctx context.Context, channel string, payload []byte) error {
	return c.rdb.Publish(ctx, channel, payload).Err()
}

func (c *RedisClient) Set(ctx context.Context, key string, payload []byte) error {
	return c.rdb.Set(ctx, key, payload, 0).Err()
}

// Close closes the underlying connection pool.
func (c *RedisClient) Close() error {
	return c.rdb.Close()
}
