package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduper decides whether a (user, title) notification may be sent, enforcing
// the anti-spam window. Keying is on title only: two different messages with
// the same title inside the window collide, which mirrors the product's
// intended "don't nag twice about the same thing" behaviour.
type Deduper interface {
	Allow(ctx context.Context, userID, title string) (bool, error)
}

const dedupPrefix = "notif_dedup:"

// redisDeduper uses SET NX EX, so the check and the claim are a single atomic
// operation; concurrent duplicate triggers cannot both pass.
type redisDeduper struct {
	rdb    *redis.Client
	window time.Duration
}

func NewRedisDeduper(rdb *redis.Client, window time.Duration) Deduper {
	return &redisDeduper{rdb: rdb, window: window}
}

func (d *redisDeduper) Allow(ctx context.Context, userID, title string) (bool, error) {
	sum := sha256.Sum256([]byte(title))
	key := fmt.Sprintf("%s%s:%s", dedupPrefix, userID, hex.EncodeToString(sum[:8]))
	ok, err := d.rdb.SetNX(ctx, key, 1, d.window).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}
