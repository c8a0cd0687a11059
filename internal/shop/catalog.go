package shop

import (
	"context"
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/models"
)

const (
	MaxImages     = 5
	MaxImageBytes = 5 << 20
	DefaultNewest = 10
	MaxNewest     = 100
)

var allowedImageExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

type ImageHost interface {
	Upload(ctx context.Context, productID string, files []*multipart.FileHeader) ([]models.Image, error)
	RemoveQuietly(ctx context.Context, keys []string)
}

type SearchIndex interface {
	Index(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string) ([]string, error)
}

type ProductInput struct {
	Title       string
	Description string
	Price       int64
	Quantity    int
	CategoryID  string
}

func (in ProductInput) validate() error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return apperr.Validation("title is required")
	case in.Price < 0:
		return apperr.Validation("price must not be negative")
	case in.Quantity < 0:
		return apperr.Validation("quantity must not be negative")
	}
	return nil
}

// Filters correspond au corps de /search/filters. Un seul filtre est appliqué,
// dans l'ordre query, category, price.
type Filters struct {
	Query    string   `json:"query"`
	Category []string `json:"category"`
	Price    []int64  `json:"price"`
}

type Catalog struct {
	store  CatalogStore
	images ImageHost
	search SearchIndex
	log    *zap.Logger
}

// NewCatalog accepte images et search nil quand MinIO ou Elasticsearch ne sont pas configurés.
func NewCatalog(s CatalogStore, images ImageHost, search SearchIndex, log *zap.Logger) *Catalog {
	return &Catalog{store: s, images: images, search: search, log: log}
}

// ValidateImages vérifie le nombre, la taille et l'extension des fichiers envoyés.
func ValidateImages(files []*multipart.FileHeader, required bool) error {
	if required && len(files) == 0 {
		return apperr.Validation("at least one image is required")
	}
	if len(files) > MaxImages {
		return apperr.Validation("at most %d images are allowed", MaxImages)
	}
	for _, fh := range files {
		if fh.Size > MaxImageBytes {
			return apperr.Validation("image %s exceeds 5MB", fh.Filename)
		}
		if !allowedImageExt[strings.ToLower(filepath.Ext(fh.Filename))] {
			return apperr.Validation("image %s must be jpg, jpeg, png or webp", fh.Filename)
		}
	}
	return nil
}

func (c *Catalog) Get(ctx context.Context, id string) (*models.Product, error) {
	p, err := c.store.FindProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product not found")
	}
	return p, nil
}

func (c *Catalog) Newest(ctx context.Context, count int) ([]models.Product, error) {
	if count <= 0 {
		count = DefaultNewest
	}
	if count > MaxNewest {
		count = MaxNewest
	}
	products, err := c.store.ListNewest(ctx, count)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return products, nil
}

func (c *Catalog) Filter(ctx context.Context, f Filters) ([]models.Product, error) {
	var (
		products []models.Product
		err      error
	)
	switch {
	case strings.TrimSpace(f.Query) != "":
		products, err = c.searchText(ctx, strings.TrimSpace(f.Query))
	case len(f.Category) > 0:
		products, err = c.store.SearchByCategories(ctx, f.Category)
	case f.Price != nil:
		if len(f.Price) != 2 || f.Price[0] > f.Price[1] {
			return nil, apperr.Validation("price must be [min, max]")
		}
		products, err = c.store.SearchByPriceRange(ctx, f.Price[0], f.Price[1])
	default:
		return nil, apperr.NotFound("no filter provided")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return products, nil
}

// searchText interroge l'index puis retombe sur un LIKE SQL si l'index échoue.
func (c *Catalog) searchText(ctx context.Context, query string) ([]models.Product, error) {
	if c.search != nil {
		ids, err := c.search.Search(ctx, query)
		if err == nil {
			return c.store.FindProductsByIDs(ctx, ids)
		}
		c.log.Warn("recherche elastic, repli SQL", zap.String("query", query), zap.Error(err))
	}
	return c.store.SearchByTitle(ctx, query)
}

func (c *Catalog) Create(ctx context.Context, in ProductInput, files []*multipart.FileHeader) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := ValidateImages(files, true); err != nil {
		return nil, err
	}
	if c.images == nil {
		return nil, apperr.Internal(errors.New("image host not configured"))
	}

	product := &models.Product{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Price:       in.Price,
		Quantity:    in.Quantity,
	}
	if in.CategoryID != "" {
		product.CategoryID = &in.CategoryID
	}
	product.ID = uuid.NewString()

	images, err := c.images.Upload(ctx, product.ID, files)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	product.Images = images

	if err := c.store.CreateProduct(ctx, product); err != nil {
		c.images.RemoveQuietly(context.WithoutCancel(ctx), objectKeys(images))
		return nil, apperr.Internal(err)
	}

	created, err := c.store.FindProduct(ctx, product.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	c.indexQuietly(ctx, created)
	return created, nil
}

// Update modifie les champs du produit. Des images fournies remplacent les
// anciennes, qui sont retirées de l'hébergeur après validation.
func (c *Catalog) Update(ctx context.Context, id string, in ProductInput, files []*multipart.FileHeader) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := ValidateImages(files, false); err != nil {
		return nil, err
	}
	if len(files) > 0 && c.images == nil {
		return nil, apperr.Internal(errors.New("image host not configured"))
	}
	if _, err := c.store.FindProduct(ctx, id); err != nil {
		return nil, notFound(err, "product not found")
	}

	var uploaded []models.Image
	if len(files) > 0 {
		var err error
		if uploaded, err = c.images.Upload(ctx, id, files); err != nil {
			return nil, apperr.Internal(err)
		}
	}

	var category any
	if in.CategoryID != "" {
		category = in.CategoryID
	}
	fields := map[string]any{
		"title":       strings.TrimSpace(in.Title),
		"description": in.Description,
		"price":       in.Price,
		"quantity":    in.Quantity,
		"category_id": category,
	}

	var replaced []models.Image
	err := c.store.Transaction(ctx, func(ctx context.Context) error {
		if err := c.store.UpdateProduct(ctx, id, fields); err != nil {
			return notFound(err, "product not found")
		}
		if uploaded != nil {
			old, err := c.store.ReplaceImages(ctx, id, uploaded)
			if err != nil {
				return apperr.Internal(err)
			}
			replaced = old
		}
		return nil
	})
	if err != nil {
		if uploaded != nil {
			c.images.RemoveQuietly(context.WithoutCancel(ctx), objectKeys(uploaded))
		}
		return nil, passThrough(err)
	}
	if c.images != nil {
		c.images.RemoveQuietly(context.WithoutCancel(ctx), objectKeys(replaced))
	}

	updated, err := c.store.FindProduct(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	c.indexQuietly(ctx, updated)
	return updated, nil
}

// Delete masque le produit du catalogue ; l'historique des commandes reste intact.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	images, err := c.store.DeleteProduct(ctx, id)
	if err != nil {
		return notFound(err, "product not found")
	}
	if c.images != nil {
		c.images.RemoveQuietly(context.WithoutCancel(ctx), objectKeys(images))
	}
	if c.search != nil {
		if err := c.search.Delete(ctx, id); err != nil {
			c.log.Warn("désindexation produit", zap.String("product_id", id), zap.Error(err))
		}
	}
	return nil
}

func (c *Catalog) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	category := &models.Category{Name: name}
	if err := c.store.CreateCategory(ctx, category); err != nil {
		return nil, apperr.Internal(err)
	}
	return category, nil
}

func (c *Catalog) Categories(ctx context.Context) ([]models.Category, error) {
	categories, err := c.store.ListCategories(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return categories, nil
}

func (c *Catalog) DeleteCategory(ctx context.Context, id string) error {
	if err := c.store.DeleteCategory(ctx, id); err != nil {
		return notFound(err, "category not found")
	}
	return nil
}

func (c *Catalog) indexQuietly(ctx context.Context, p *models.Product) {
	if c.search == nil {
		return
	}
	if err := c.search.Index(ctx, p); err != nil {
		c.log.Warn("indexation produit", zap.String("product_id", p.ID), zap.Error(err))
	}
}

func objectKeys(images []models.Image) []string {
	keys := make([]string, 0, len(images))
	for _, img := range images {
		keys = append(keys, img.ObjectKey)
	}
	return keys
}
