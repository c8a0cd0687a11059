package product

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/shop"
	"storefront_back_end/internal/utils"
)

// SearchFilters applique le premier filtre présent : query, category puis price.
func (h *Handler) SearchFilters(c *gin.Context) {
	var filters shop.Filters
	if err := c.ShouldBindJSON(&filters); err != nil {
		utils.Fail(c, apperr.Validation("invalid filters"))
		return
	}
	products, err := h.catalog.Filter(c.Request.Context(), filters)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, http.StatusOK, products)
}
