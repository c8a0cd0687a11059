package models

import (
	"time"

	"github.com/gocql/gocql"
)

type MovementType string

const (
	MovementSale   MovementType = "sale"
	MovementReturn MovementType = "return"
)

// StockMovement est une entrée du journal de stock (ajout seul).
type StockMovement struct {
	ID        gocql.UUID   `json:"id"`
	ProductID string       `json:"productId"`
	OrderID   string       `json:"orderId"`
	UserID    string       `json:"userId"`
	Type      MovementType `json:"type"`
	Quantity  int          `json:"quantity"`
	Reason    string       `json:"reason"`
	CreatedAt time.Time    `json:"createdAt"`
}
