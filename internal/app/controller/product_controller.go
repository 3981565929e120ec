package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/homeheartcreation/shop-backend/internal/app/service"
	"github.com/homeheartcreation/shop-backend/internal/errors"
	"github.com/shopspring/decimal"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

// ProductRequest is shared by create and update; omitted fields are left
// unchanged on update. Images are URLs returned by the upload endpoints.
type ProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Image       *string          `json:"image"`
	Images      []string         `json:"images"`
	CategoryID  *uint            `json:"categoryId"`
	Stock       *int             `json:"stock"`
	Featured    *bool            `json:"featured"`
}

func (r ProductRequest) toInput() service.ProductInput {
	images := r.Images
	if images == nil && r.Image != nil {
		images = []string{*r.Image}
	}
	return service.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Images:      images,
		CategoryID:  r.CategoryID,
		Stock:       r.Stock,
		Featured:    r.Featured,
	}
}

func parseDecimalQuery(c *gin.Context, name string) (*decimal.Decimal, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid "+name)
		return nil, false
	}
	return &d, true
}

// ListProducts returns products matching the query filters
// GET /api/products?category=&search=&minPrice=&maxPrice=&featured=&sort=
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	minPrice, ok := parseDecimalQuery(c, "minPrice")
	if !ok {
		return
	}
	maxPrice, ok := parseDecimalQuery(c, "maxPrice")
	if !ok {
		return
	}

	products, err := ctrl.productService.ListProducts(service.ProductListOptions{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Featured: c.Query("featured") == "true",
		Sort:     c.Query("sort"),
	})
	if err != nil {
		respondError(c, err, "List products")
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetFeaturedProducts
// GET /api/products/featured
func (ctrl *ProductController) GetFeaturedProducts(c *gin.Context) {
	products, err := ctrl.productService.GetFeaturedProducts()
	if err != nil {
		respondError(c, err, "List featured products")
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProduct returns a product with its category and reviews
// GET /api/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.GetProductByID(id)
	if err != nil {
		respondError(c, err, "Get product")
		return
	}
	c.JSON(http.StatusOK, product)
}

// CreateProduct
// POST /api/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := ctrl.productService.CreateProduct(req.toInput())
	if err != nil {
		respondError(c, err, "Create product")
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct
// PUT /api/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := ctrl.productService.UpdateProduct(id, req.toInput())
	if err != nil {
		respondError(c, err, "Update product")
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct
// DELETE /api/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteProduct(id); err != nil {
		respondError(c, err, "Delete product")
		return
	}
	messageResponse(c, "Product removed")
}
