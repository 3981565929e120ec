package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/homeheartcreation/shop-backend/internal/app/service"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{
		categoryService: categoryService,
	}
}

type CategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
}

func (r CategoryRequest) toInput() service.CategoryInput {
	return service.CategoryInput{
		Name:        r.Name,
		Description: r.Description,
		Image:       r.Image,
	}
}

// ListCategories
// GET /api/categories
func (ctrl *CategoryController) ListCategories(c *gin.Context) {
	categories, err := ctrl.categoryService.ListCategories()
	if err != nil {
		respondError(c, err, "List categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GetCategory
// GET /api/categories/:id
func (ctrl *CategoryController) GetCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	category, err := ctrl.categoryService.GetCategory(id)
	if err != nil {
		respondError(c, err, "Get category")
		return
	}
	c.JSON(http.StatusOK, category)
}

// CreateCategory
// POST /api/categories
func (ctrl *CategoryController) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := ctrl.categoryService.CreateCategory(req.toInput())
	if err != nil {
		respondError(c, err, "Create category")
		return
	}
	c.JSON(http.StatusCreated, category)
}

// UpdateCategory
// PUT /api/categories/:id
func (ctrl *CategoryController) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := ctrl.categoryService.UpdateCategory(id, req.toInput())
	if err != nil {
		respondError(c, err, "Update category")
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategory removes the category and uncategorizes its products
// DELETE /api/categories/:id
func (ctrl *CategoryController) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.categoryService.DeleteCategory(id); err != nil {
		respondError(c, err, "Delete category")
		return
	}
	messageResponse(c, "Category removed")
}
