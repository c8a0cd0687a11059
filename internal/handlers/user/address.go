package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/utils"
)

func (h *Handler) SaveAddress(c *gin.Context) {
	var req struct {
		Address string `json:"address"`
	}
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.accounts.SaveAddress(c.Request.Context(), middleware.CurrentClaims(c).ID, req.Address)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, http.StatusOK, user)
}
