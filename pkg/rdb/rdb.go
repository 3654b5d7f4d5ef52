package rdb

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Connect parses a redis:// URI and pings the server before returning the client.
func Connect(ctx context.Context, uri string) (*redis.Client, error) {
	// Get Redis options
	rdbOpts, err := redis.ParseURL(uri)
	if err != nil {
		return nil, err
	}

	// Create Redis client
	client := redis.NewClient(rdbOpts)

	// Ping Redis
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}
