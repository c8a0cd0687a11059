package models

import (
	"time"

	"gorm.io/gorm"
)

// Cart est la sélection en cours d'un utilisateur ; au plus un par utilisateur.
type Cart struct {
	ID          string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrderedByID string     `gorm:"type:varchar(36);index;not null" json:"orderedById"`
	Lines       []CartLine `gorm:"constraint:OnDelete:CASCADE" json:"products"`
	CartTotal   int64      `gorm:"not null" json:"cartTotal"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (c *Cart) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

type CartLine struct {
	ID        string   `gorm:"type:varchar(36);primaryKey" json:"id"`
	CartID    string   `gorm:"type:varchar(36);index;not null" json:"cartId"`
	ProductID string   `gorm:"type:varchar(36);index;not null" json:"productId"`
	Product   *Product `json:"product,omitempty"`
	Count     int      `gorm:"not null" json:"count"`
	Price     int64    `gorm:"not null" json:"price"`
}

func (l *CartLine) BeforeCreate(*gorm.DB) error {
	ensureID(&l.ID)
	return nil
}

// CartItem est une ligne demandée lors de la construction du panier.
type CartItem struct {
	ProductID string `json:"productId"`
	Count     int    `json:"count"`
	Price     int64  `json:"price"`
}
