package service

import (
	"testing"

	"github.com/homeheartcreation/shop-backend/internal/app/model"
	"github.com/homeheartcreation/shop-backend/internal/app/repository"
	"github.com/homeheartcreation/shop-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testDeps struct {
	db               *gorm.DB
	productRepo      repository.ProductRepository
	categoryRepo     repository.CategoryRepository
	orderRepo        repository.OrderRepository
	reviewRepo       repository.ReviewRepository
	messageRepo      repository.MessageRepository
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
}

func setupServiceTest(t *testing.T) *testDeps {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	return &testDeps{
		db:               testDB,
		productRepo:      repository.NewProductRepository(testDB),
		categoryRepo:     repository.NewCategoryRepository(testDB),
		orderRepo:        repository.NewOrderRepository(testDB),
		reviewRepo:       repository.NewReviewRepository(testDB),
		messageRepo:      repository.NewMessageRepository(testDB),
		notificationRepo: repository.NewNotificationRepository(testDB),
		userRepo:         repository.NewUserRepository(testDB),
	}
}

func (d *testDeps) createProduct(t *testing.T, name string, price string, stock int) *model.Product {
	product := &model.Product{
		Name:   name,
		Price:  decimal.RequireFromString(price),
		Image:  name + ".jpg",
		Images: []string{name + ".jpg"},
		Stock:  stock,
	}
	require.NoError(t, d.db.Create(product).Error)
	return product
}

func (d *testDeps) reloadProduct(t *testing.T, id uint) *model.Product {
	var product model.Product
	require.NoError(t, d.db.First(&product, id).Error)
	return &product
}

func (d *testDeps) countNotifications(t *testing.T, notificationType model.NotificationType) int64 {
	var count int64
	require.NoError(t, d.db.Model(&model.Notification{}).Where("type = ?", notificationType).Count(&count).Error)
	return count
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func uintPtr(u uint) *uint    { return &u }
func boolPtr(b bool) *bool    { return &b }
func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
