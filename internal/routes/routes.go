package routes

import (
	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/handlers/admin"
	"storefront_back_end/internal/handlers/product"
	"storefront_back_end/internal/handlers/user"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/models"
)

// Deps regroupe ce dont les routes ont besoin. Limiter et Audit peuvent être
// nil : les limites et l'audit sont alors désactivés.
type Deps struct {
	Tokens   middleware.TokenParser
	Identity middleware.IdentityLookup
	Limiter  middleware.RateLimiter
	Audit    middleware.AuditSink
	Health   handlers.Pinger

	User    *user.Handler
	Product *product.Handler
	Admin   *admin.Handler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/healthz", handlers.Health(d.Health))

	api := r.Group("/api", middleware.RateLimit(d.Limiter, middleware.APILimit))
	auth := middleware.AuthRequired(d.Tokens, d.Identity)
	audit := func(action, resource string) gin.HandlerFunc {
		return middleware.Audit(d.Audit, action, resource)
	}

	// Auth
	api.POST("/register", middleware.RateLimit(d.Limiter, middleware.RegisterLimit), d.User.Register)
	api.POST("/login", middleware.RateLimit(d.Limiter, middleware.LoginLimit), d.User.Login)
	api.POST("/current-user", auth, d.User.CurrentUser)
	api.POST("/current-admin", auth, middleware.RequireAdmin, d.User.CurrentUser)

	// Acheteur
	me := api.Group("/user", auth)
	{
		me.POST("/cart", middleware.RateLimit(d.Limiter, middleware.CartLimit), d.User.SaveCart)
		me.GET("/cart", d.User.GetCart)
		me.DELETE("/cart", d.User.EmptyCart)
		me.POST("/address", d.User.SaveAddress)
		me.POST("/order", d.User.SaveOrder)
		me.GET("/order", d.User.GetOrders)
	}

	// Catalogue public
	api.GET("/category", d.Product.ListCategories)
	api.GET("/products/:count", d.Product.List)
	api.GET("/product/:id", d.Product.Read)
	api.POST("/search/filters", d.Product.SearchFilters)

	// Administration
	adm := api.Group("", auth, middleware.RequireAdmin)
	{
		adm.GET("/users", d.Admin.ListUsers)
		adm.POST("/change-status", audit(models.ActionUserStatus, models.ResourceUser), d.Admin.ChangeStatus)
		adm.POST("/change-role", audit(models.ActionUserRole, models.ResourceUser), d.Admin.ChangeRole)

		adm.GET("/admin/orders", d.Admin.ListOrders)
		adm.GET("/admin/order-status", d.Admin.StatusTable)
		adm.PUT("/admin/order-status", audit(models.ActionOrderStatus, models.ResourceOrder), d.Admin.ChangeOrderStatus)
		adm.GET("/admin/stock-movements", d.Admin.StockMovements)
		adm.GET("/admin/audit-logs", d.Admin.AuditLogs)

		adm.POST("/category", audit(models.ActionCategoryCreate, models.ResourceCategory), d.Product.CreateCategory)
		adm.DELETE("/category/:id", audit(models.ActionCategoryDelete, models.ResourceCategory), d.Product.DeleteCategory)

		adm.POST("/product", audit(models.ActionProductCreate, models.ResourceProduct), d.Product.Create)
		adm.PUT("/product/:id", audit(models.ActionProductUpdate, models.ResourceProduct), d.Product.Update)
		adm.DELETE("/product/:id", audit(models.ActionProductDelete, models.ResourceProduct), d.Product.Delete)
	}
}
