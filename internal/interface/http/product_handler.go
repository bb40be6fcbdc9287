package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/minsuk-ha/go-shop-ddd/internal/application"
	"github.com/minsuk-ha/go-shop-ddd/internal/domain/entity"
	"github.com/minsuk-ha/go-shop-ddd/pkg/response"
	"github.com/minsuk-ha/go-shop-ddd/pkg/validation"
)

type ProductHandler struct {
	Svc    *application.ProductService
	Logger *logrus.Logger
}

func NewProductHandler(svc *application.ProductService, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{Svc: svc, Logger: logger}
}

type productRequest struct {
	Title       string   `json:"title" binding:"required"`
	Slug        string   `json:"slug"`
	Price       *int64   `json:"price"`
	Description string   `json:"description"`
	CategoryID  string   `json:"category_id"`
	Images      []string `json:"images"`
}

func productJSON(p *entity.Product) gin.H {
	return gin.H{
		"id":          p.ID,
		"title":       p.Title,
		"slug":        p.Slug,
		"price":       p.Price.Amount(),
		"description": p.Description,
		"category_id": p.CategoryID,
		"images":      p.Images,
		"created_at":  p.CreatedAt,
		"updated_at":  p.UpdatedAt,
	}
}

func productListJSON(ps []*entity.Product) []gin.H {
	out := make([]gin.H, 0, len(ps))
	for _, p := range ps {
		out = append(out, productJSON(p))
	}
	return out
}

// Register creates a product. Price and category validation failures come
// back from the service as domain errors, not binding errors.
func (h *ProductHandler) Register(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}
	p, err := h.Svc.Register(c.Request.Context(), application.ProductInput{
		Title:       req.Title,
		Slug:        req.Slug,
		Price:       req.Price,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Images:      req.Images,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	resp := response.Success(c, http.StatusCreated, productJSON(p), "product registered", nil)
	c.JSON(resp.Status, resp)
}

func (h *ProductHandler) Update(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}
	p, err := h.Svc.Update(c.Request.Context(), c.Param("id"), application.ProductInput{
		Title:       req.Title,
		Slug:        req.Slug,
		Price:       req.Price,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Images:      req.Images,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, productJSON(p), "product updated", nil)
	c.JSON(resp.Status, resp)
}

func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.Svc.Get(c.Request.Context(), c.Param("id"), c.GetString("memberID"))
	if err != nil {
		respondError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, productJSON(p), "product", nil)
	c.JSON(resp.Status, resp)
}

// List returns a product page. Supports category_id filtering and
// sort=price_asc|price_desc ordering.
func (h *ProductHandler) List(c *gin.Context) {
	offset, limit := application.ParsePage(c.Query("page"), c.Query("size"))

	var (
		ps  []*entity.Product
		err error
	)
	switch {
	case c.Query("category_id") != "":
		ps, err = h.Svc.ListByCategory(c.Request.Context(), c.Query("category_id"), offset, limit)
	case c.Query("sort") == "price_asc":
		ps, err = h.Svc.ListOrderByPrice(c.Request.Context(), true, offset, limit)
	case c.Query("sort") == "price_desc":
		ps, err = h.Svc.ListOrderByPrice(c.Request.Context(), false, offset, limit)
	default:
		ps, err = h.Svc.List(c.Request.Context(), offset, limit)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, productListJSON(ps), "products", map[string]any{"count": len(ps)})
	c.JSON(resp.Status, resp)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	resp := response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "product deleted", nil)
	c.JSON(resp.Status, resp)
}

// Search queries the product search index.
func (h *ProductHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		resp := response.Error[any](c, http.StatusBadRequest, "missing query", nil)
		c.JSON(resp.Status, resp)
		return
	}
	hits, err := h.Svc.Search(c.Request.Context(), q, 10)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
	c.JSON(resp.Status, resp)
}

// RecentlyViewed returns the signed-in member's recently viewed products.
func (h *ProductHandler) RecentlyViewed(c *gin.Context) {
	ps, err := h.Svc.RecentlyViewed(c.Request.Context(), c.GetString("memberID"))
	if err != nil {
		respondError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, productListJSON(ps), "recently viewed", map[string]any{"count": len(ps)})
	c.JSON(resp.Status, resp)
}

// UploadImage accepts a multipart file and stores it as a product image.
func (h *ProductHandler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "missing image file", nil)
		c.JSON(resp.Status, resp)
		return
	}
	f, err := fh.Open()
	if err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "unreadable image file", nil)
		c.JSON(resp.Status, resp)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadImage(c.Request.Context(), c.Param("id"), f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		respondError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, gin.H{"url": url}, "image uploaded", nil)
	c.JSON(resp.Status, resp)
}

func (h *ProductHandler) Categories(c *gin.Context) {
	cats, err := h.Svc.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]gin.H, 0, len(cats))
	for _, cat := range cats {
		out = append(out, gin.H{"id": cat.ID, "name": cat.Name})
	}
	resp := response.Success(c, http.StatusOK, out, "categories", nil)
	c.JSON(resp.Status, resp)
}
