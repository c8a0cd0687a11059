package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storefront_back_end/internal/models"
)

const (
	UserCacheTTL = 5 * time.Minute
	// staleTTL couvre la durée d'une lecture en base faite avant une invalidation.
	staleTTL = 30 * time.Second
)

// setUnlessStale n'écrit la copie que si aucune invalidation récente n'a posé de marqueur.
var setUnlessStale = redis.NewScript(`
if redis.call('EXISTS', KEYS[2]) == 1 then
	return 0
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
return 1
`)

// UserCache garde une copie courte durée des utilisateurs lus par le contrôle d'accès.
// Les erreurs Redis sont journalisées et traitées comme un cache vide.
type UserCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewUserCache(rdb *redis.Client) *UserCache {
	return &UserCache{rdb: rdb, ttl: UserCacheTTL}
}

func userKey(id string) string { return "user:" + id }

func staleKey(id string) string { return "user:" + id + ":stale" }

func (c *UserCache) Get(ctx context.Context, id string) (*models.User, bool) {
	data, err := c.rdb.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			zap.L().Warn("lecture cache utilisateur", zap.String("user_id", id), zap.Error(err))
		}
		return nil, false
	}
	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, false
	}
	return &user, true
}

// Set met l'utilisateur en cache, sauf si une invalidation a eu lieu pendant
// les staleTTL dernières secondes : la copie lue pourrait être antérieure.
func (c *UserCache) Set(ctx context.Context, user *models.User) {
	data, err := json.Marshal(user)
	if err != nil {
		return
	}
	err = setUnlessStale.Run(ctx, c.rdb, []string{userKey(user.ID), staleKey(user.ID)}, data, c.ttl.Milliseconds()).Err()
	if err != nil {
		zap.L().Warn("écriture cache utilisateur", zap.String("user_id", user.ID), zap.Error(err))
	}
}

// Invalidate supprime la copie et pose un marqueur qui bloque les écritures
// de lectures concurrentes.
func (c *UserCache) Invalidate(ctx context.Context, id string) {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, staleKey(id), 1, staleTTL)
		pipe.Del(ctx, userKey(id))
		return nil
	})
	if err != nil {
		zap.L().Warn("invalidation cache utilisateur", zap.String("user_id", id), zap.Error(err))
	}
}
