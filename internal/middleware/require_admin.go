package middleware

import (
	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/utils"
)

// RequireAdmin vérifie que l'utilisateur a le rôle "admin"
func RequireAdmin(c *gin.Context) {
	if c.GetString("role") != string(models.RoleAdmin) {
		utils.Fail(c, apperr.Forbidden("admin resource, access denied"))
		return
	}
	c.Next()
}
