package repository

import (
	"testing"

	"github.com/homeheartcreation/shop-backend/internal/app/model"
	"github.com/homeheartcreation/shop-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	return testDB
}

func createTestProduct(t *testing.T, testDB *gorm.DB, name string, price int64, stock int) *model.Product {
	product := &model.Product{
		Name:   name,
		Price:  decimal.NewFromInt(price),
		Image:  "https://cdn.example/" + name + ".jpg",
		Images: []string{"https://cdn.example/" + name + ".jpg"},
		Stock:  stock,
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}
