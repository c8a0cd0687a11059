package store

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"storefront_back_end/internal/models"
)

func (s *Store) productQuery(ctx context.Context) *gorm.DB {
	return s.conn(ctx).
		Preload("Category").
		Preload("Images", orderedImages)
}

func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	return translate(s.conn(ctx).Create(product).Error, "create product")
}

func (s *Store) FindProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := s.productQuery(ctx).Where("id = ?", id).Take(&product).Error; err != nil {
		return nil, translate(err, "find product")
	}
	return &product, nil
}

// ProductStock ne lit que l'id, le titre et la quantité.
func (s *Store) ProductStock(ctx context.Context, id string) (*models.ProductStock, error) {
	var stock models.ProductStock
	err := s.conn(ctx).Model(&models.Product{}).
		Select("id", "title", "quantity").
		Where("id = ?", id).
		Take(&stock).Error
	if err != nil {
		return nil, translate(err, "product stock")
	}
	return &stock, nil
}

func (s *Store) ListNewest(ctx context.Context, limit int) ([]models.Product, error) {
	var products []models.Product
	err := s.productQuery(ctx).Order("created_at DESC").Limit(limit).Find(&products).Error
	return products, translate(err, "list newest products")
}

func (s *Store) SearchByTitle(ctx context.Context, query string) ([]models.Product, error) {
	var products []models.Product
	err := s.productQuery(ctx).
		Where("LOWER(title) LIKE LOWER(?)", "%"+query+"%").
		Order("created_at DESC").
		Find(&products).Error
	return products, translate(err, "search products by title")
}

func (s *Store) SearchByCategories(ctx context.Context, categoryIDs []string) ([]models.Product, error) {
	var products []models.Product
	err := s.productQuery(ctx).
		Where("category_id IN ?", categoryIDs).
		Order("created_at DESC").
		Find(&products).Error
	return products, translate(err, "search products by category")
}

func (s *Store) SearchByPriceRange(ctx context.Context, min, max int64) ([]models.Product, error) {
	var products []models.Product
	err := s.productQuery(ctx).
		Where("price BETWEEN ? AND ?", min, max).
		Order("price ASC").
		Find(&products).Error
	return products, translate(err, "search products by price")
}

// FindProductsByIDs conserve l'ordre des ids fournis et ignore les ids inconnus.
func (s *Store) FindProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var found []models.Product
	if err := s.productQuery(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, translate(err, "find products")
	}
	byID := make(map[string]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	products := make([]models.Product, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			products = append(products, p)
			delete(byID, id)
		}
	}
	return products, nil
}

func (s *Store) UpdateProduct(ctx context.Context, id string, fields map[string]any) error {
	res := s.conn(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translate(res.Error, "update product")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceImages remplace les images du produit et renvoie les anciennes.
func (s *Store) ReplaceImages(ctx context.Context, productID string, images []models.Image) ([]models.Image, error) {
	db := s.conn(ctx)
	var old []models.Image
	if err := db.Where("product_id = ?", productID).Order("position ASC").Find(&old).Error; err != nil {
		return nil, translate(err, "load images")
	}
	if err := db.Where("product_id = ?", productID).Delete(&models.Image{}).Error; err != nil {
		return nil, translate(err, "delete images")
	}
	for i := range images {
		images[i].ProductID = productID
	}
	if len(images) > 0 {
		if err := db.Create(&images).Error; err != nil {
			return nil, translate(err, "create images")
		}
	}
	return old, nil
}

// DeleteProduct fait une suppression logique et renvoie les images à retirer de l'hébergeur.
func (s *Store) DeleteProduct(ctx context.Context, id string) ([]models.Image, error) {
	db := s.conn(ctx)
	var images []models.Image
	if err := db.Where("product_id = ?", id).Order("position ASC").Find(&images).Error; err != nil {
		return nil, translate(err, "load images")
	}
	res := db.Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return nil, translate(res.Error, "delete product")
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return images, nil
}

// DecrementStock retire n unités du stock et les ajoute aux ventes en une seule
// requête gardée. false signifie que le stock était insuffisant.
func (s *Store) DecrementStock(ctx context.Context, productID string, n int) (bool, error) {
	res := s.conn(ctx).Model(&models.Product{}).
		Where("id = ? AND quantity >= ?", productID, n).
		Updates(map[string]any{
			"quantity": gorm.Expr("quantity - ?", n),
			"sold":     gorm.Expr("sold + ?", n),
		})
	if res.Error != nil {
		return false, translate(res.Error, "decrement stock")
	}
	return res.RowsAffected == 1, nil
}

// IncrementStock annule une vente, y compris pour un produit supprimé.
func (s *Store) IncrementStock(ctx context.Context, productID string, n int) error {
	res := s.conn(ctx).Unscoped().Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]any{
			"quantity": gorm.Expr("quantity + ?", n),
			"sold":     gorm.Expr("sold - ?", n),
		})
	if res.Error != nil {
		return translate(res.Error, "increment stock")
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrNotFound, "product %s", productID)
	}
	return nil
}

func (s *Store) CreateCategory(ctx context.Context, category *models.Category) error {
	return translate(s.conn(ctx).Create(category).Error, "create category")
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.conn(ctx).Order("name ASC").Find(&categories).Error
	return categories, translate(err, "list categories")
}

// DeleteCategory détache les produits de la catégorie avant de la supprimer.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	return s.Transaction(ctx, func(ctx context.Context) error {
		db := s.conn(ctx)
		err := db.Unscoped().Model(&models.Product{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error
		if err != nil {
			return translate(err, "detach products")
		}
		res := db.Where("id = ?", id).Delete(&models.Category{})
		if res.Error != nil {
			return translate(res.Error, "delete category")
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
