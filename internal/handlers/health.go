// Package handlers contient les routes transverses ; les routes métier sont
// dans les sous-paquets user, product et admin.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/utils"
)

// Pinger est implémenté par les backends interrogés par /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health répond 200 quand PostgreSQL répond, 503 sinon.
func Health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, utils.Envelope{Status: false, Message: "database unavailable"})
			return
		}
		utils.Message(c, http.StatusOK, "ok")
	}
}
