/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "frameguess:prefs:"
	redisTTL       = 180 * 24 * time.Hour
)

// Redis keeps one hash per player. Hashes expire after redisTTL without a write.
type Redis struct {
	client *redis.Client
}

// OpenRedis connects using a redis:// or rediss:// URL.
func OpenRedis(ctx context.Context, url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Redis{client: client}, nil
}

func (r *Redis) Get(ctx context.Context, player, key string) (string, error) {
	if err := checkArgs(player, key); err != nil {
		return "", err
	}

	v, err := r.client.HGet(ctx, redisKeyPrefix+player, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return v, nil
}

func (r *Redis) Set(ctx context.Context, player, key, value string) error {
	if err := checkArgs(player, key); err != nil {
		return err
	}

	hash := redisKeyPrefix + player

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, hash, key, value)
	pipe.Expire(ctx, hash, redisTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
