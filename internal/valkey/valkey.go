// Package valkey provides Valkey (Redis-compatible) client initialization
// and the token denylist used to revoke credentials on logout.
package valkey

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Connect creates a Valkey client and verifies the connection with a ping.
func Connect(addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("valkey ping: %w", err)
	}

	log.Info().Str("addr", addr).Msg("valkey connected")
	return client, nil
}
