// Package user regroupe les routes de l'acheteur : compte, panier, adresse et commandes.
package user

import (
	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/shop"
	"storefront_back_end/internal/utils"
)

type Handler struct {
	accounts *shop.Accounts
	carts    *shop.Carts
	orders   *shop.Orders
}

func New(accounts *shop.Accounts, carts *shop.Carts, orders *shop.Orders) *Handler {
	return &Handler{accounts: accounts, carts: carts, orders: orders}
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.Fail(c, apperr.Validation("invalid request body"))
		return false
	}
	return true
}
