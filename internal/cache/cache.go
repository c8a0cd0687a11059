// Package cache regroupe les usages Redis : cache des utilisateurs et compteurs de limitation.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter compte les requêtes par clé sur une fenêtre fixe.
type Limiter struct {
	rdb    *redis.Client
	prefix string
}

func NewLimiter(rdb *redis.Client) *Limiter {
	return &Limiter{rdb: rdb, prefix: "ratelimit:"}
}

// Allow incrémente le compteur de key. La fenêtre démarre au premier hit ;
// la création de la clé avec son TTL et l'incrément partent dans un même MULTI.
func (l *Limiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int, error) {
	k := l.prefix + key

	var incr *redis.IntCmd
	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, k, 0, window)
		incr = pipe.Incr(ctx, k)
		return nil
	})
	if err != nil {
		return true, limit, err
	}
	n := incr.Val()

	count := int(n)
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= limit, remaining, nil
}
