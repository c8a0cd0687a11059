// Package admin regroupe les routes réservées au rôle admin.
package admin

import (
	"context"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/ledger"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/shop"
	"storefront_back_end/internal/utils"
)

// LedgerReader lit le journal de stock et le journal d'audit. Nil quand ScyllaDB
// n'est pas configuré.
type LedgerReader interface {
	Movements(ctx context.Context, productID string, limit int) ([]models.StockMovement, error)
	AuditLogs(ctx context.Context, f ledger.AuditFilter, limit int) ([]models.AuditLog, error)
}

type Handler struct {
	accounts *shop.Accounts
	orders   *shop.Orders
	ledger   LedgerReader
}

func New(accounts *shop.Accounts, orders *shop.Orders, ledger LedgerReader) *Handler {
	return &Handler{accounts: accounts, orders: orders, ledger: ledger}
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.Fail(c, apperr.Validation("invalid request body"))
		return false
	}
	return true
}
