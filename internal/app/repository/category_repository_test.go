package repository

import (
	"testing"

	"github.com/homeheartcreation/shop-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCategoryRepository_CRUD(t *testing.T) {
	repo := NewCategoryRepository(setupTestDB(t))

	category := &model.Category{Name: "Crafts", Description: "Various handmade craft items"}
	require.NoError(t, repo.Create(category))
	require.NoError(t, repo.Create(&model.Category{Name: "Candles & Holders"}))

	all, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Candles & Holders", all[0].Name)

	byName, err := repo.FindByName("  crafts ")
	require.NoError(t, err)
	assert.Equal(t, category.ID, byName.ID)

	category.Description = ""
	category.Image = "crafts.jpg"
	require.NoError(t, repo.Update(category))
	found, err := repo.FindByID(category.ID)
	require.NoError(t, err)
	assert.Empty(t, found.Description)
	assert.Equal(t, "crafts.jpg", found.Image)

	require.NoError(t, repo.Delete(category.ID))
	_, err = repo.FindByID(category.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.Delete(category.ID), gorm.ErrRecordNotFound)
}

func TestCategoryRepository_DuplicateName(t *testing.T) {
	repo := NewCategoryRepository(setupTestDB(t))

	require.NoError(t, repo.Create(&model.Category{Name: "Wall Art"}))
	assert.Error(t, repo.Create(&model.Category{Name: "Wall Art"}))
}
