package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/utils"
)

type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int, error)
}

// Limit est une règle de limitation : au plus Max requêtes par Window.
type Limit struct {
	Name   string
	Max    int
	Window time.Duration
	Key    func(c *gin.Context) string
}

func byIP(c *gin.Context) string { return c.ClientIP() }

func byUser(c *gin.Context) string {
	if id := c.GetString("user_id"); id != "" {
		return id
	}
	return c.ClientIP()
}

var (
	LoginLimit    = Limit{Name: "login", Max: 5, Window: 15 * time.Minute, Key: byIP}
	RegisterLimit = Limit{Name: "register", Max: 3, Window: 30 * time.Minute, Key: byIP}
	CartLimit     = Limit{Name: "cart", Max: 20, Window: time.Minute, Key: byUser}
	APILimit      = Limit{Name: "api", Max: 100, Window: time.Minute, Key: byIP}
)

// RateLimit applique l. Sans limiteur, ou si Redis ne répond pas, la requête passe.
func RateLimit(limiter RateLimiter, l Limit) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		allowed, remaining, err := limiter.Allow(c.Request.Context(), l.Name+":"+l.Key(c), l.Max, l.Window)
		if err != nil {
			zap.L().Warn("limiteur indisponible", zap.String("limit", l.Name), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(l.Max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(l.Window.Seconds())))
			utils.Fail(c, apperr.New(apperr.CodeRateLimited, "too many requests, retry later"))
			return
		}
		c.Next()
	}
}
