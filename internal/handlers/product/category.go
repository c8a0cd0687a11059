package product

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/utils"
)

// 🟢 Créer une catégorie
func (h *Handler) CreateCategory(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, apperr.Validation("invalid request body"))
		return
	}
	category, err := h.catalog.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	middleware.SetAuditResource(c, category.ID)
	utils.OK(c, http.StatusCreated, category)
}

// 🔵 Lister les catégories
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, http.StatusOK, categories)
}

// 🔴 Supprimer une catégorie
func (h *Handler) DeleteCategory(c *gin.Context) {
	if err := h.catalog.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.NoContent(c)
}
