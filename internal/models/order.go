package models

import (
	"time"

	"gorm.io/gorm"
)

type Order struct {
	ID          string      `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrderedByID string      `gorm:"type:varchar(36);index;not null" json:"orderedById"`
	OrderedBy   *User       `json:"orderedBy,omitempty"`
	Lines       []OrderLine `gorm:"constraint:OnDelete:CASCADE" json:"products"`
	CartTotal   int64       `gorm:"not null" json:"cartTotal"`
	OrderStatus OrderStatus `gorm:"size:32;not null" json:"orderStatus"`
	CreatedAt   time.Time   `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	ensureID(&o.ID)
	return nil
}

type OrderLine struct {
	ID        string   `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrderID   string   `gorm:"type:varchar(36);index;not null" json:"orderId"`
	ProductID string   `gorm:"type:varchar(36);index;not null" json:"productId"`
	Product   *Product `json:"product,omitempty"`
	Count     int      `gorm:"not null" json:"count"`
	Price     int64    `gorm:"not null" json:"price"`
}

func (l *OrderLine) BeforeCreate(*gorm.DB) error {
	ensureID(&l.ID)
	return nil
}
