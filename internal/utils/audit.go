package utils

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"storefront_back_end/internal/models"
)

// NewAuditLog construit l'entrée d'audit d'une requête à partir du contexte Gin.
func NewAuditLog(c *gin.Context, action, resource, resourceID string, success bool, errorMsg string) models.AuditLog {
	return models.AuditLog{
		ID:         gocql.TimeUUID(),
		UserID:     c.GetString("user_id"),
		UserEmail:  c.GetString("email"),
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		IPAddress:  c.ClientIP(),
		UserAgent:  c.GetHeader("User-Agent"),
		Success:    success,
		ErrorMsg:   errorMsg,
		Timestamp:  time.Now().UTC(),
	}
}
