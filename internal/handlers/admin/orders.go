package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/utils"
)

func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.orders.All(c.Request.Context())
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, http.StatusOK, orders)
}

// StatusTable renvoie, pour chaque statut, les statuts atteignables.
func (h *Handler) StatusTable(c *gin.Context) {
	utils.OK(c, http.StatusOK, h.orders.StatusTable())
}

func (h *Handler) ChangeOrderStatus(c *gin.Context) {
	var req struct {
		OrderID     string             `json:"orderId"`
		OrderStatus models.OrderStatus `json:"orderStatus"`
	}
	if !bindJSON(c, &req) {
		return
	}
	middleware.SetAuditResource(c, req.OrderID)

	order, err := h.orders.ChangeStatus(c.Request.Context(), req.OrderID, req.OrderStatus)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, http.StatusOK, order)
}
