package shop

import (
	"context"
	"errors"
	"math"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"
)

type Carts struct {
	store CartStore
}

func NewCarts(s CartStore) *Carts {
	return &Carts{store: s}
}

// Build remplace le panier de l'utilisateur par items. Le stock est vérifié
// sur la demande cumulée par produit. Pas de fusion : le dernier appel gagne.
func (c *Carts) Build(ctx context.Context, userID string, items []models.CartItem) (*models.Cart, error) {
	demand := make(map[string]int, len(items))
	var order []string
	for _, it := range items {
		if it.ProductID == "" {
			return nil, apperr.Validation("productId is required")
		}
		if it.Count < 1 {
			return nil, apperr.Validation("count must be at least 1")
		}
		if it.Price < 0 {
			return nil, apperr.Validation("price must not be negative")
		}
		if _, seen := demand[it.ProductID]; !seen {
			order = append(order, it.ProductID)
		}
		if demand[it.ProductID] > math.MaxInt-it.Count {
			return nil, apperr.Validation("count overflows")
		}
		demand[it.ProductID] += it.Count
	}

	cart := &models.Cart{OrderedByID: userID, Lines: make([]models.CartLine, 0, len(items))}
	for _, it := range items {
		if it.Price > 0 && int64(it.Count) > math.MaxInt64/it.Price {
			return nil, apperr.Validation("cart total overflows")
		}
		amount := int64(it.Count) * it.Price
		if cart.CartTotal > math.MaxInt64-amount {
			return nil, apperr.Validation("cart total overflows")
		}
		cart.Lines = append(cart.Lines, models.CartLine{ProductID: it.ProductID, Count: it.Count, Price: it.Price})
		cart.CartTotal += amount
	}

	err := c.store.Transaction(ctx, func(ctx context.Context) error {
		if err := c.store.LockUser(ctx, userID); err != nil {
			return notFound(err, "user not found")
		}
		for _, id := range order {
			stock, err := c.store.ProductStock(ctx, id)
			if errors.Is(err, store.ErrNotFound) {
				return apperr.InsufficientStock(id)
			}
			if err != nil {
				return apperr.Internal(err)
			}
			if demand[id] > stock.Quantity {
				return apperr.InsufficientStock(stock.Title)
			}
		}

		if _, err := c.store.DeleteCart(ctx, userID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return apperr.Internal(err)
		}
		if err := c.store.CreateCart(ctx, cart); err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, passThrough(err)
	}
	return cart, nil
}

// Get renvoie le panier détaillé ; found vaut false s'il n'y en a pas.
func (c *Carts) Get(ctx context.Context, userID string) (*models.Cart, bool, error) {
	cart, err := c.store.FindCart(ctx, userID, true)
	if errors.Is(err, store.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperr.Internal(err)
	}
	return cart, true, nil
}

// Empty supprime le panier et renvoie le nombre de lignes retirées.
func (c *Carts) Empty(ctx context.Context, userID string) (int, error) {
	var removed int
	err := c.store.Transaction(ctx, func(ctx context.Context) error {
		if err := c.store.LockUser(ctx, userID); err != nil {
			return notFound(err, "user not found")
		}
		n, err := c.store.DeleteCart(ctx, userID)
		if err != nil {
			return notFound(err, "cart not found")
		}
		removed = n
		return nil
	})
	if err != nil {
		return 0, passThrough(err)
	}
	return removed, nil
}
