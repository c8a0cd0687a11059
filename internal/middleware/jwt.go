package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/utils"
)

type TokenParser interface {
	Parse(token string) (*models.Claims, error)
}

// IdentityLookup relit l'utilisateur ; son rôle et son statut font foi,
// pas ceux du jeton.
type IdentityLookup interface {
	Identity(ctx context.Context, id string) (*models.User, error)
}

func AuthRequired(tokens TokenParser, users IdentityLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Fail(c, apperr.Unauthorized("missing bearer token"))
			return
		}
		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			utils.Fail(c, apperr.Unauthorized("invalid authorization header"))
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(token))
		if err != nil {
			utils.Fail(c, apperr.Unauthorized("invalid or expired token"))
			return
		}

		user, err := users.Identity(c.Request.Context(), claims.ID)
		if err != nil {
			if apperr.Is(err, apperr.CodeNotFound) {
				utils.Fail(c, apperr.Unauthorized("user no longer exists"))
				return
			}
			utils.Fail(c, err)
			return
		}
		if !user.Enabled {
			utils.Fail(c, apperr.Forbidden("account disabled"))
			return
		}

		c.Set("user_id", user.ID)
		c.Set("email", user.Email)
		c.Set("role", string(user.Role))
		c.Next()
	}
}

// CurrentClaims lit l'identité posée par AuthRequired.
func CurrentClaims(c *gin.Context) models.Claims {
	return models.Claims{
		ID:    c.GetString("user_id"),
		Email: c.GetString("email"),
		Role:  models.Role(c.GetString("role")),
	}
}
