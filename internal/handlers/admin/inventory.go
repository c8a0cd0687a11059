package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/utils"
)

// StockMovements lit l'historique des mouvements d'un produit, du plus récent au plus ancien.
func (h *Handler) StockMovements(c *gin.Context) {
	if h.ledger == nil {
		utils.Fail(c, apperr.NotFound("stock ledger is not configured"))
		return
	}
	var query struct {
		ProductID string `form:"productId" binding:"required"`
		Limit     int    `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.Fail(c, apperr.Validation("productId is required"))
		return
	}

	movements, err := h.ledger.Movements(c.Request.Context(), query.ProductID, query.Limit)
	if err != nil {
		utils.Fail(c, apperr.Internal(err))
		return
	}
	utils.OK(c, http.StatusOK, movements)
}
