package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/utils"
)

func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		if id := c.GetString("user_id"); id != "" {
			fields = append(fields, zap.String("user_id", id))
		}
		switch status := c.Writer.Status(); {
		case status >= 500:
			log.Error("requête", fields...)
		case status >= 400:
			log.Warn("requête", fields...)
		default:
			log.Info("requête", fields...)
		}
	}
}

// Recovery transforme un panic en réponse 500 dans l'enveloppe habituelle.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		log.Error("panic", zap.Any("recovered", recovered), zap.String("path", c.Request.URL.Path), zap.Stack("stack"))
		utils.Fail(c, apperr.New(apperr.CodeInternal, "Internal service error"))
	})
}
