// Package product expose le catalogue : produits, catégories et recherche.
package product

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/shop"
	"storefront_back_end/internal/utils"
)

type Handler struct {
	catalog *shop.Catalog
}

func New(catalog *shop.Catalog) *Handler {
	return &Handler{catalog: catalog}
}

// productForm est le corps multipart de POST /product et PUT /product/:id.
type productForm struct {
	Title       string                  `form:"title"`
	Description string                  `form:"description"`
	Price       int64                   `form:"price"`
	Quantity    int                     `form:"quantity"`
	CategoryID  string                  `form:"categoryId"`
	Images      []*multipart.FileHeader `form:"images"`
}

func (f productForm) input() shop.ProductInput {
	return shop.ProductInput{
		Title:       f.Title,
		Description: f.Description,
		Price:       f.Price,
		Quantity:    f.Quantity,
		CategoryID:  f.CategoryID,
	}
}

func bindForm(c *gin.Context) (productForm, bool) {
	var form productForm
	if err := c.ShouldBind(&form); err != nil {
		utils.Fail(c, apperr.Validation("invalid product form"))
		return form, false
	}
	return form, true
}

func (h *Handler) Create(c *gin.Context) {
	form, ok := bindForm(c)
	if !ok {
		return
	}
	product, err := h.catalog.Create(c.Request.Context(), form.input(), form.Images)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	middleware.SetAuditResource(c, product.ID)
	utils.OK(c, http.StatusCreated, product)
}

func (h *Handler) Update(c *gin.Context) {
	form, ok := bindForm(c)
	if !ok {
		return
	}
	product, err := h.catalog.Update(c.Request.Context(), c.Param("id"), form.input(), form.Images)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, http.StatusOK, product)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.NoContent(c)
}

func (h *Handler) Read(c *gin.Context) {
	product, err := h.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, http.StatusOK, product)
}

// List renvoie les :count produits les plus récents.
func (h *Handler) List(c *gin.Context) {
	var uri struct {
		Count int `uri:"count"`
	}
	if err := c.ShouldBindUri(&uri); err != nil {
		utils.Fail(c, apperr.Validation("count must be a number"))
		return
	}
	products, err := h.catalog.Newest(c.Request.Context(), uri.Count)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, http.StatusOK, products)
}
