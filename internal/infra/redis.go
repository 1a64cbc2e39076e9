package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions tunes the client built by NewRedisClient. Zero values keep
// go-redis defaults.
type RedisOptions struct {
	ClientName string
	// Timeout bounds dialing and every read/write on a connection.
	Timeout time.Duration
}

// NewRedisClient builds a client from a redis:// URL, applies opts on top of
// the URL settings and verifies connectivity.
func NewRedisClient(ctx context.Context, url string, opts RedisOptions) (*redis.Client, error) {
	if url == "" {
		return nil, fmt.Errorf("redis url is required")
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	applyRedisOptions(opt, opts)

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opt.Addr, err)
	}

	return client, nil
}

func applyRedisOptions(opt *redis.Options, opts RedisOptions) {
	if opts.ClientName != "" && opt.ClientName == "" {
		opt.ClientName = opts.ClientName
	}
	if opts.Timeout > 0 {
		opt.DialTimeout = opts.Timeout
		opt.ReadTimeout = opts.Timeout
		opt.WriteTimeout = opts.Timeout
	}
}
