// Package shop contient les règles métier de la boutique : panier, commande,
// catalogue et comptes. Les dépendances sont déclarées ici sous forme d'interfaces.
package shop

import (
	"context"
	"errors"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"
)

// Transactor exécute fn dans une transaction portée par le contexte.
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
	LockUser(ctx context.Context, userID string) error
}

type CartStore interface {
	Transactor
	ProductStock(ctx context.Context, id string) (*models.ProductStock, error)
	CreateCart(ctx context.Context, cart *models.Cart) error
	FindCart(ctx context.Context, userID string, details bool) (*models.Cart, error)
	DeleteCart(ctx context.Context, userID string) (int, error)
}

type OrderStore interface {
	CartStore
	CreateOrder(ctx context.Context, order *models.Order) error
	DecrementStock(ctx context.Context, productID string, n int) (bool, error)
	IncrementStock(ctx context.Context, productID string, n int) error
	OrdersByUser(ctx context.Context, userID string) ([]models.Order, error)
	AllOrders(ctx context.Context) ([]models.Order, error)
	FindOrder(ctx context.Context, id string) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error
}

type CatalogStore interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
	CreateProduct(ctx context.Context, product *models.Product) error
	FindProduct(ctx context.Context, id string) (*models.Product, error)
	ListNewest(ctx context.Context, limit int) ([]models.Product, error)
	SearchByTitle(ctx context.Context, query string) ([]models.Product, error)
	SearchByCategories(ctx context.Context, categoryIDs []string) ([]models.Product, error)
	SearchByPriceRange(ctx context.Context, min, max int64) ([]models.Product, error)
	FindProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error)
	UpdateProduct(ctx context.Context, id string, fields map[string]any) error
	ReplaceImages(ctx context.Context, productID string, images []models.Image) ([]models.Image, error)
	DeleteProduct(ctx context.Context, id string) ([]models.Image, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	ListCategories(ctx context.Context) ([]models.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id string, fields map[string]any) error
}

// StockLedger reçoit les mouvements de stock une fois la transaction validée.
type StockLedger interface {
	RecordMovements(ctx context.Context, movements []models.StockMovement) error
}

type OrderMailer interface {
	SendOrderConfirmation(ctx context.Context, to string, order *models.Order) error
}

// notFound traduit store.ErrNotFound en erreur métier, et le reste en erreur interne.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(format, args...)
	}
	return apperr.Internal(err)
}

// passThrough laisse remonter les erreurs métier déjà typées.
func passThrough(err error) error {
	var e *apperr.Error
	if errors.As(err, &e) {
		return e
	}
	return apperr.Internal(err)
}
