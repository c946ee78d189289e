package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	pingTimeout = 5 * time.Second

	// Session reads and writes are single-key commands; anything slower than
	// this is treated as the store being unavailable.
	commandTimeout = time.Second
)

// Config holds the connection settings for the session store.
type Config struct {
	Addr     string
	Password string
	DB       int
	PoolSize int // 0 keeps the go-redis default of 10 per CPU
}

// Connect opens the session store client and pings it once. The client is
// closed again when the ping fails.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		ReadTimeout:  commandTimeout,
		WriteTimeout: commandTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("session store %s: %w", cfg.Addr, err)
	}
	return client, nil
}
