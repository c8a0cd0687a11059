package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/utils"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Register crée un compte client actif.
func (h *Handler) Register(c *gin.Context) {
	var req credentials
	if !bindJSON(c, &req) {
		return
	}
	if _, err := h.accounts.Register(c.Request.Context(), req.Email, req.Password, req.Name); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Message(c, http.StatusCreated, "Register success")
}

// Login renvoie {payload, token}.
func (h *Handler) Login(c *gin.Context) {
	var req credentials
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, http.StatusOK, res)
}

// CurrentUser sert aussi /current-admin, le rôle étant vérifié en amont.
func (h *Handler) CurrentUser(c *gin.Context) {
	user, err := h.accounts.Current(c.Request.Context(), middleware.CurrentClaims(c).ID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, http.StatusOK, user)
}
