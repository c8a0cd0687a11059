package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID          string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title       string         `gorm:"size:255;not null;index" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Price       int64          `gorm:"not null;index" json:"price"`
	Quantity    int            `gorm:"not null" json:"quantity"`
	Sold        int            `gorm:"not null;default:0" json:"sold"`
	CategoryID  *string        `gorm:"type:varchar(36);index" json:"categoryId"`
	Category    *Category      `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Images      []Image        `gorm:"constraint:OnDelete:CASCADE" json:"images"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// PrimaryImage renvoie l'URL de la première image, ou "".
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}

type Image struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	ProductID string    `gorm:"type:varchar(36);index;not null" json:"productId"`
	ObjectKey string    `gorm:"size:512;not null" json:"objectKey"`
	URL       string    `gorm:"size:1024;not null" json:"url"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"createdAt"`
}

func (i *Image) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

// ProductStock est la projection utilisée pour vérifier le stock.
type ProductStock struct {
	ID       string
	Title    string
	Quantity int
}
