package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/utils"
)

// SaveOrder transforme le panier courant en commande.
func (h *Handler) SaveOrder(c *gin.Context) {
	order, err := h.orders.Place(c.Request.Context(), middleware.CurrentClaims(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, http.StatusCreated, order)
}

func (h *Handler) GetOrders(c *gin.Context) {
	orders, found, err := h.orders.ForUser(c.Request.Context(), middleware.CurrentClaims(c).ID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if !found {
		utils.Fail(c, apperr.NotFound("no orders"))
		return
	}
	utils.OK(c, http.StatusOK, orders)
}
