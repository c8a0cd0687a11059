package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront_back_end/internal/apperr"
)

// Envelope est la forme commune de toutes les réponses JSON.
type Envelope struct {
	Status  bool        `json:"status"`
	Message string      `json:"message,omitempty"`
	Code    apperr.Code `json:"code,omitempty"`
	Data    any         `json:"data,omitempty"`
}

func OK(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{Status: true, Data: data})
}

func Message(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Status: true, Message: message})
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Fail écrit l'erreur dans l'enveloppe et interrompt la chaîne. Le détail
// des erreurs internes est journalisé, jamais renvoyé.
func Fail(c *gin.Context, err error) {
	e := apperr.As(err)
	status := apperr.HTTPStatus(e.Code)
	if status >= http.StatusInternalServerError {
		zap.L().Error("erreur interne",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(status, Envelope{Status: false, Message: e.Message, Code: e.Code})
}
