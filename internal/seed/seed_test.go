package seed

import (
	"bytes"
	"testing"

	"github.com/homeheartcreation/shop-backend/internal/app/model"
	"github.com/homeheartcreation/shop-backend/internal/app/repository"
	"github.com/homeheartcreation/shop-backend/internal/db"
	"github.com/homeheartcreation/shop-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func setupSeedTest(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	testDB := setupSeedTest(t)
	users := repository.NewUserRepository(testDB)

	admin, created, err := EnsureAdmin(users, "Admin", " Admin@HomeHeart.test ", "admin123")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "admin@homeheart.test", admin.Email)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.True(t, util.VerifyPassword(admin.PasswordHash, "admin123"))

	again, created, err := EnsureAdmin(users, "Other", "admin@homeheart.test", "different")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, admin.ID, again.ID)

	count, err := users.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestReadProductsXLSX(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"Name", "Description", "Price", "Stock", "Category", "Image", "Featured"},
		{"Macrame Wall Hanging", "Natural cotton rope", "2500", "15", "Wall Art", "https://img/a.jpg, https://img/b.jpg", "true"},
		{"", "missing name", "100", "1", "", "https://img/c.jpg", ""},
		{"Bad Price", "", "abc", "1", "", "https://img/d.jpg", ""},
		{"No Image", "", "300", "1", "", "", ""},
		{"Soy Candle", "", "1200.50", "", "", "https://img/e.jpg"},
	})

	rows, skipped, err := ReadProductsXLSX(buf)
	require.NoError(t, err)

	assert.Equal(t, []int{3, 4, 5}, skipped)
	require.Len(t, rows, 2)

	assert.Equal(t, "Macrame Wall Hanging", rows[0].Name)
	assert.Equal(t, "2500", rows[0].Price.String())
	assert.Equal(t, 15, rows[0].Stock)
	assert.Equal(t, []string{"https://img/a.jpg", "https://img/b.jpg"}, rows[0].Images)
	assert.True(t, rows[0].Featured)

	assert.Equal(t, "1200.5", rows[1].Price.String())
	assert.Equal(t, 0, rows[1].Stock)
	assert.False(t, rows[1].Featured)
	assert.Equal(t, 6, rows[1].Line)
}

func TestReadProductsXLSX_NotAWorkbook(t *testing.T) {
	_, _, err := ReadProductsXLSX(bytes.NewBufferString("plain text"))
	assert.Error(t, err)
}

func TestImportProducts(t *testing.T) {
	testDB := setupSeedTest(t)
	_, err := db.SeedCategories(testDB)
	require.NoError(t, err)

	products := repository.NewProductRepository(testDB)
	categories := repository.NewCategoryRepository(testDB)

	buf := buildWorkbook(t, [][]interface{}{
		{"Name", "Description", "Price", "Stock", "Category", "Image", "Featured"},
		{"Macrame Wall Hanging", "", "2500", "15", "wall art", "https://img/a.jpg", "true"},
		{"Mystery Item", "", "10", "1", "Nonexistent", "https://img/b.jpg", "false"},
	})
	rows, _, err := ReadProductsXLSX(buf)
	require.NoError(t, err)

	created, err := ImportProducts(products, categories, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	all, err := products.FindAll(repository.ProductFilter{Sort: repository.SortPriceDesc})
	require.NoError(t, err)
	require.Len(t, all, 2)

	wallArt, err := categories.FindByName("Wall Art")
	require.NoError(t, err)
	require.NotNil(t, all[0].CategoryID)
	assert.Equal(t, wallArt.ID, *all[0].CategoryID)
	assert.Equal(t, "https://img/a.jpg", all[0].Image)
	assert.Nil(t, all[1].CategoryID)
}
