package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/utils"
)

const auditTimeout = 5 * time.Second

type AuditSink interface {
	RecordAudit(ctx context.Context, entry models.AuditLog) error
}

// SetAuditResource permet à un handler de création de renseigner l'id de la ressource.
func SetAuditResource(c *gin.Context, id string) {
	c.Set("audit_resource_id", id)
}

// Audit enregistre l'action une fois la requête traitée, sans bloquer la réponse.
func Audit(sink AuditSink, action, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if sink == nil {
			return
		}

		resourceID := c.Param("id")
		if id := c.GetString("audit_resource_id"); id != "" {
			resourceID = id
		}
		status := c.Writer.Status()
		var errMsg string
		if len(c.Errors) > 0 {
			errMsg = c.Errors.String()
		} else if status >= 400 {
			errMsg = http.StatusText(status)
		}
		entry := utils.NewAuditLog(c, action, resource, resourceID, status < 400, errMsg)

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
			defer cancel()
			if err := sink.RecordAudit(ctx, entry); err != nil {
				zap.L().Warn("log d'audit", zap.String("action", action), zap.Error(err))
			}
		}()
	}
}
