package controller

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/homeheartcreation/shop-backend/internal/app/model"
	"github.com/homeheartcreation/shop-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCategoryControllerTest(t *testing.T) *controllerDeps {
	d := setupControllerTest(t)
	ctrl := NewCategoryController(d.categoryService)

	d.router.GET("/categories", ctrl.ListCategories)
	d.router.GET("/categories/:id", ctrl.GetCategory)
	d.router.POST("/categories", ctrl.CreateCategory)
	d.router.PUT("/categories/:id", ctrl.UpdateCategory)
	d.router.DELETE("/categories/:id", ctrl.DeleteCategory)

	return d
}

func TestCategoryController_CRUD(t *testing.T) {
	d := setupCategoryControllerTest(t)

	w := d.perform(http.MethodPost, "/categories", gin.H{"name": "Textiles", "description": "Handwoven"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created model.Category
	decodeJSON(t, w, &created)
	assert.Equal(t, "Textiles", created.Name)
	path := "/categories/" + uintToString(created.ID)

	w = d.perform(http.MethodPost, "/categories", gin.H{"name": "Textiles"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, errors.CategoryNameExists, errorCode(t, w))

	w = d.perform(http.MethodPost, "/categories", gin.H{"description": "no name"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = d.perform(http.MethodPut, path, gin.H{"description": "Handwoven cotton"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated model.Category
	decodeJSON(t, w, &updated)
	assert.Equal(t, "Textiles", updated.Name)
	assert.Equal(t, "Handwoven cotton", updated.Description)

	w = d.perform(http.MethodGet, "/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []model.Category
	decodeJSON(t, w, &list)
	assert.Len(t, list, 1)

	w = d.perform(http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	decodeJSON(t, w, &body)
	assert.Equal(t, "Category removed", body["message"])

	w = d.perform(http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, errors.CategoryNotFound, errorCode(t, w))
}

func TestCategoryController_DeleteUncategorizesProducts(t *testing.T) {
	d := setupCategoryControllerTest(t)

	category := &model.Category{Name: "Pottery"}
	require.NoError(t, d.db.Create(category).Error)
	product := d.createProduct(t, "Jug", "700", 1)
	require.NoError(t, d.db.Model(product).Update("category_id", category.ID).Error)

	w := d.perform(http.MethodDelete, "/categories/"+uintToString(category.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded model.Product
	require.NoError(t, d.db.First(&reloaded, product.ID).Error)
	assert.Nil(t, reloaded.CategoryID)
}
