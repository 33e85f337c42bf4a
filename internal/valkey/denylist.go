// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package valkey

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// revokedKeyPrefix namespaces revoked token ids.
const revokedKeyPrefix = "revoked:"

// Denylist records revoked token ids until the token would have expired
// anyway, after which Valkey drops the key on its own.
type Denylist struct {
	client *redis.Client
}

// NewDenylist creates a denylist backed by the given Valkey client.
func NewDenylist(client *redis.Client) *Denylist {
	return &Denylist{client: client}
}

// Revoke marks id as revoked until the given expiry. Tokens that already
// expired are not recorded.
func (d *Denylist) Revoke(ctx context.Context, id string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, revokedKeyPrefix+id, 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether id was revoked and has not yet expired.
func (d *Denylist) IsRevoked(ctx context.Context, id string) (bool, error) {
	n, err := d.client.Exists(ctx, revokedKeyPrefix+id).Result()
	if err != nil && err != redis.Nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return n > 0, nil
}
