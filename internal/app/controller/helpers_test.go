package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/homeheartcreation/shop-backend/internal/app/model"
	"github.com/homeheartcreation/shop-backend/internal/app/repository"
	"github.com/homeheartcreation/shop-backend/internal/app/service"
	"github.com/homeheartcreation/shop-backend/internal/db"
	"github.com/homeheartcreation/shop-backend/internal/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "test-jwt-secret-for-controllers"

type controllerDeps struct {
	db     *gorm.DB
	router *gin.Engine

	authService         service.AuthService
	categoryService     service.CategoryService
	productService      service.ProductService
	reviewService       service.ReviewService
	orderService        service.OrderService
	messageService      service.MessageService
	notificationService service.NotificationService
}

func setupControllerTest(t *testing.T) *controllerDeps {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	reviewRepo := repository.NewReviewRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	messageRepo := repository.NewMessageRepository(testDB)
	notificationRepo := repository.NewNotificationRepository(testDB)

	gin.SetMode(gin.TestMode)

	return &controllerDeps{
		db:                  testDB,
		router:              gin.New(),
		authService:         service.NewAuthService(userRepo, nil, testJWTSecret, time.Hour),
		categoryService:     service.NewCategoryService(categoryRepo, productRepo, testDB),
		productService:      service.NewProductService(productRepo, categoryRepo),
		reviewService:       service.NewReviewService(reviewRepo, productRepo, testDB),
		orderService:        service.NewOrderService(orderRepo, productRepo, notificationRepo, testDB),
		messageService:      service.NewMessageService(messageRepo, notificationRepo, testDB),
		notificationService: service.NewNotificationService(notificationRepo),
	}
}

// setUserInContext mimics what the auth middleware stores for a verified token.
func setUserInContext(c *gin.Context, user *model.User) {
	c.Set(middleware.UserIDKey, user.ID)
	c.Set(middleware.UserRoleKey, user.Role)
	c.Set(middleware.UserKey, user)
}

func (d *controllerDeps) createAdmin(t *testing.T, email, password string) *model.User {
	user, _, err := d.authService.Register(service.RegisterInput{
		Name:     "Admin",
		Email:    email,
		Password: password,
	}, nil)
	require.NoError(t, err)
	return user
}

func (d *controllerDeps) createProduct(t *testing.T, name string, price string, stock int) *model.Product {
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

func (d *controllerDeps) perform(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	d.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	decodeJSON(t, w, &body)
	code, _ := body["error"].(string)
	return code
}

func validOrderBody(productID uint, quantity int) gin.H {
	return gin.H{
		"orderItems": []gin.H{
			{"productId": productID, "quantity": quantity},
		},
		"customerName":  "Nimali Perera",
		"customerEmail": "nimali@example.com",
		"customerPhone": "0771234567",
		"shippingAddress": gin.H{
			"address": "12 Galle Road",
			"city":    "Colombo",
		},
	}
}

func uintToString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
