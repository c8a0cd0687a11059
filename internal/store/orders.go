package store

import (
	"context"

	"gorm.io/gorm"

	"storefront_back_end/internal/models"
)

func (s *Store) orderQuery(ctx context.Context) *gorm.DB {
	return s.conn(ctx).
		Preload("Lines.Product", unscoped).
		Preload("Lines.Product.Images", orderedImages)
}

func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	return translate(s.conn(ctx).Create(order).Error, "create order")
}

func (s *Store) OrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := s.orderQuery(ctx).
		Where("ordered_by_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, translate(err, "list user orders")
}

// AllOrders charge aussi l'acheteur (id, email, adresse).
func (s *Store) AllOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.orderQuery(ctx).
		Preload("OrderedBy", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "email", "address")
		}).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, translate(err, "list orders")
}

func (s *Store) FindOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := s.conn(ctx).Preload("Lines").Where("id = ?", id).Take(&order).Error; err != nil {
		return nil, translate(err, "find order")
	}
	return &order, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error {
	res := s.conn(ctx).Model(&models.Order{}).Where("id = ?", id).Update("order_status", status)
	if res.Error != nil {
		return translate(res.Error, "update order status")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
