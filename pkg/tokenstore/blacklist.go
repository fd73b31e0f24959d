package tokenstore

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"rental-service/pkg/config"
)

// Blacklist holds revoked JWT token IDs until their natural expiry.
// A nil Blacklist is valid and revokes nothing, so the service can run
// without Redis in development.
type Blacklist struct {
	client *redis.Client
}

var store *Blacklist

const keyPrefix = "revoked_token:"

// Initialize connects the package-level blacklist to Redis
func Initialize(redisConfig *config.RedisConfig) {
	store = &Blacklist{
		client: redis.NewClient(&redis.Options{
			Addr:     redisConfig.Addr,
			Password: redisConfig.Password,
			DB:       redisConfig.DB,
		}),
	}
}

// GetStore returns the package-level blacklist, possibly nil
func GetStore() *Blacklist {
	return store
}

// Revoke marks a token ID as revoked for the given remaining lifetime
func (b *Blacklist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if b == nil || b.client == nil {
		return nil
	}
	if ttl <= 0 {
		// Token already expired, nothing to store
		return nil
	}
	return b.client.Set(ctx, keyPrefix+tokenID, "1", ttl).Err()
}

// IsRevoked reports whether a token ID has been blacklisted
func (b *Blacklist) IsRevoked(ctx context.Context, tokenID string) bool {
	if b == nil || b.client == nil {
		return false
	}
	n, err := b.client.Exists(ctx, keyPrefix+tokenID).Result()
	if err != nil {
		// Fail open: an unreachable Redis must not lock every user out
		return false
	}
	return n > 0
}
