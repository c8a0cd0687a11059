package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/ledger"
	"storefront_back_end/internal/utils"
)

// AuditLogs liste le journal d'audit, filtrable par utilisateur, action,
// ressource et issue.
func (h *Handler) AuditLogs(c *gin.Context) {
	if h.ledger == nil {
		utils.Fail(c, apperr.NotFound("audit log is not configured"))
		return
	}
	var query struct {
		UserID   string `form:"user_id"`
		Action   string `form:"action"`
		Resource string `form:"resource"`
		Success  *bool  `form:"success"`
		Limit    int    `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.Fail(c, apperr.Validation("invalid query parameters"))
		return
	}

	logs, err := h.ledger.AuditLogs(c.Request.Context(), ledger.AuditFilter{
		UserID:   query.UserID,
		Action:   query.Action,
		Resource: query.Resource,
		Success:  query.Success,
	}, query.Limit)
	if err != nil {
		utils.Fail(c, apperr.Internal(err))
		return
	}
	utils.OK(c, http.StatusOK, logs)
}
