package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/utils"
)

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.accounts.Users(c.Request.Context())
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, http.StatusOK, users)
}

// ChangeStatus active ou désactive un compte.
func (h *Handler) ChangeStatus(c *gin.Context) {
	var req struct {
		ID      string `json:"id"`
		Enabled *bool  `json:"enabled"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if req.ID == "" || req.Enabled == nil {
		utils.Fail(c, apperr.Validation("id and enabled are required"))
		return
	}
	middleware.SetAuditResource(c, req.ID)

	user, err := h.accounts.ChangeStatus(c.Request.Context(), req.ID, *req.Enabled)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, http.StatusOK, user)
}

func (h *Handler) ChangeRole(c *gin.Context) {
	var req struct {
		ID   string      `json:"id"`
		Role models.Role `json:"role"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if req.ID == "" {
		utils.Fail(c, apperr.Validation("id is required"))
		return
	}
	middleware.SetAuditResource(c, req.ID)

	user, err := h.accounts.ChangeRole(c.Request.Context(), req.ID, req.Role)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, http.StatusOK, user)
}
