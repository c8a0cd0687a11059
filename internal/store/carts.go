package store

import (
	"context"

	"storefront_back_end/internal/models"
)

func (s *Store) CreateCart(ctx context.Context, cart *models.Cart) error {
	return translate(s.conn(ctx).Create(cart).Error, "create cart")
}

// FindCart renvoie le panier de l'utilisateur. Avec details, chaque ligne
// porte son produit (même supprimé) et ses images.
func (s *Store) FindCart(ctx context.Context, userID string, details bool) (*models.Cart, error) {
	q := s.conn(ctx)
	if details {
		q = q.Preload("Lines.Product", unscoped).
			Preload("Lines.Product.Images", orderedImages)
	} else {
		q = q.Preload("Lines")
	}
	var cart models.Cart
	if err := q.Where("ordered_by_id = ?", userID).Take(&cart).Error; err != nil {
		return nil, translate(err, "find cart")
	}
	return &cart, nil
}

// DeleteCart supprime les paniers de l'utilisateur et leurs lignes.
// Renvoie ErrNotFound s'il n'y en avait aucun.
func (s *Store) DeleteCart(ctx context.Context, userID string) (int, error) {
	var removed int
	err := s.Transaction(ctx, func(ctx context.Context) error {
		db := s.conn(ctx)
		var cartIDs []string
		if err := db.Model(&models.Cart{}).Where("ordered_by_id = ?", userID).Pluck("id", &cartIDs).Error; err != nil {
			return translate(err, "find carts")
		}
		if len(cartIDs) == 0 {
			return ErrNotFound
		}
		res := db.Where("cart_id IN ?", cartIDs).Delete(&models.CartLine{})
		if res.Error != nil {
			return translate(res.Error, "delete cart lines")
		}
		removed = int(res.RowsAffected)
		return translate(db.Where("id IN ?", cartIDs).Delete(&models.Cart{}).Error, "delete cart")
	})
	return removed, err
}

func (s *Store) CountCarts(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Cart{}).Where("ordered_by_id = ?", userID).Count(&n).Error
	return n, translate(err, "count carts")
}
