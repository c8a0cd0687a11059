package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/utils"
)

type cartRequest struct {
	Cart []models.CartItem `json:"cart"`
}

// SaveCart remplace le panier de l'utilisateur par le contenu envoyé.
func (h *Handler) SaveCart(c *gin.Context) {
	var req cartRequest
	if !bindJSON(c, &req) {
		return
	}
	if len(req.Cart) == 0 {
		utils.Fail(c, apperr.Validation("cart must contain at least one product"))
		return
	}

	cart, err := h.carts.Build(c.Request.Context(), middleware.CurrentClaims(c).ID, req.Cart)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, http.StatusCreated, cart)
}

func (h *Handler) GetCart(c *gin.Context) {
	cart, found, err := h.carts.Get(c.Request.Context(), middleware.CurrentClaims(c).ID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if !found {
		utils.Fail(c, apperr.NotFound("cart is empty"))
		return
	}
	utils.OK(c, http.StatusOK, cart)
}

func (h *Handler) EmptyCart(c *gin.Context) {
	if _, err := h.carts.Empty(c.Request.Context(), middleware.CurrentClaims(c).ID); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.NoContent(c)
}
