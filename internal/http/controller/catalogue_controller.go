package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/sheets-storefront/internal/catalogue"
	"github.com/iyhunko/sheets-storefront/internal/model"
	"github.com/iyhunko/sheets-storefront/internal/service"
)

// CatalogueReader is the part of the catalogue service used by the storefront.
type CatalogueReader interface {
	Products(category string) ([]model.Product, error)
	Categories() ([]string, error)
	InquiryLink(p model.Product) string
	Inquire(ctx context.Context, code, name string) (string, error)
}

// CatalogueController handles the public storefront endpoints.
type CatalogueController struct {
	catalogue CatalogueReader
}

// NewCatalogueController creates a new CatalogueController.
func NewCatalogueController(catalogue CatalogueReader) *CatalogueController {
	return &CatalogueController{
		catalogue: catalogue,
	}
}

// ProductResponse represents a product as shown on the storefront.
type ProductResponse struct {
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	Price        float64 `json:"price"`
	PriceDisplay string  `json:"price_display"`
	Stock        int     `json:"stock"`
	Available    bool    `json:"available"`
	PhotoURL     string  `json:"photo_url"`
	InquiryURL   string  `json:"inquiry_url,omitempty"`
}

// ListProductsRequest represents the query parameters for listing products.
type ListProductsRequest struct {
	Category string `form:"category"`
}

// ListProductsResponse represents the response body for listing products.
type ListProductsResponse struct {
	Category string            `json:"category"`
	Count    int               `json:"count"`
	Products []ProductResponse `json:"products"`
}

// CategoriesResponse represents the category filter options.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// InquiryRequest represents the query parameters of an inquiry.
type InquiryRequest struct {
	Code string `form:"code"`
	Name string `form:"name"`
}

// ListProducts handles the HTTP GET request for the products of a category.
func (cc *CatalogueController) ListProducts(c *gin.Context) {
	var req ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Category == "" {
		req.Category = catalogue.AllCategory
	}

	products, err := cc.catalogue.Products(req.Category)
	if err != nil {
		writeCatalogueError(c, err)
		return
	}

	response := ListProductsResponse{
		Category: req.Category,
		Count:    len(products),
		Products: make([]ProductResponse, 0, len(products)),
	}
	for _, p := range products {
		response.Products = append(response.Products, cc.toProductResponse(p))
	}

	c.JSON(http.StatusOK, response)
}

// ListCategories handles the HTTP GET request for the category options.
func (cc *CatalogueController) ListCategories(c *gin.Context) {
	categories, err := cc.catalogue.Categories()
	if err != nil {
		writeCatalogueError(c, err)
		return
	}

	c.JSON(http.StatusOK, CategoriesResponse{Categories: categories})
}

// Inquire handles the HTTP GET request that opens a purchase inquiry and
// redirects the customer to the messaging link.
func (cc *CatalogueController) Inquire(c *gin.Context) {
	var req InquiryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	link, err := cc.catalogue.Inquire(c.Request.Context(), req.Code, req.Name)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidInquiry):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, service.ErrUnknownProduct):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, service.ErrOutOfStock):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create inquiry"})
		return
	}

	c.Redirect(http.StatusFound, link)
}

// toProductResponse leaves InquiryURL empty for products without stock.
func (cc *CatalogueController) toProductResponse(p model.Product) ProductResponse {
	resp := ProductResponse{
		Code:         p.Code,
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category,
		Price:        p.Price,
		PriceDisplay: catalogue.FormatPrice(p.Price),
		Stock:        p.Stock,
		Available:    p.Available(),
		PhotoURL:     p.PhotoURL,
	}
	if p.Available() {
		resp.InquiryURL = cc.catalogue.InquiryLink(p)
	}
	return resp
}

func writeCatalogueError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNoCatalogue) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalogue not loaded yet"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read catalogue"})
}
