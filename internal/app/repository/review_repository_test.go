package repository

import (
	"testing"

	"github.com/homeheartcreation/shop-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestReviewRepository_CreateFindDelete(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewReviewRepository(testDB)

	product := createTestProduct(t, testDB, "Runner", 35, 2)

	review := &model.Review{ProductID: product.ID, Name: "Kasun", Rating: 4, Comment: "Lovely weave"}
	require.NoError(t, repo.Create(review))
	assert.NotZero(t, review.ID)

	found, err := repo.FindByID(review.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, found.ProductID)

	reviews, err := repo.FindByProductID(product.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)

	require.NoError(t, repo.Delete(review.ID))
	assert.ErrorIs(t, repo.Delete(review.ID), gorm.ErrRecordNotFound)
}

func TestReviewRepository_FindAllWithProduct(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewReviewRepository(testDB)

	mat := createTestProduct(t, testDB, "Mat", 20, 1)
	lamp := createTestProduct(t, testDB, "Lamp", 60, 1)
	gone := createTestProduct(t, testDB, "Gone", 5, 1)

	require.NoError(t, repo.Create(&model.Review{ProductID: mat.ID, Name: "A", Rating: 5, Comment: "first"}))
	require.NoError(t, repo.Create(&model.Review{ProductID: lamp.ID, Name: "B", Rating: 3, Comment: "second"}))
	require.NoError(t, repo.Create(&model.Review{ProductID: gone.ID, Name: "C", Rating: 1, Comment: "hidden"}))
	require.NoError(t, NewProductRepository(testDB).Delete(gone.ID))

	reviews, err := repo.FindAllWithProduct()
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "second", reviews[0].Comment)
	assert.Equal(t, "Lamp", reviews[0].ProductName)
	assert.Equal(t, "Mat", reviews[1].ProductName)
}
