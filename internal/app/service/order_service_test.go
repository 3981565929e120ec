package service

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/homeheartcreation/shop-backend/internal/app/model"
	"github.com/homeheartcreation/shop-backend/internal/app/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func newOrderService(d *testDeps) OrderService {
	return NewOrderService(d.orderRepo, d.productRepo, d.notificationRepo, d.db)
}

func orderInput(items ...OrderItemInput) PlaceOrderInput {
	return PlaceOrderInput{
		Items:         items,
		CustomerName:  "Dilini Silva",
		CustomerEmail: "Dilini@Example.com",
		CustomerPhone: "0712345678",
		ShippingAddress: model.ShippingAddress{
			Address: "45 Lake Drive",
			City:    "Colombo",
		},
	}
}

func TestOrderService_PlaceOrder_Scenario(t *testing.T) {
	d := setupServiceTest(t)
	svc := newOrderService(d)

	p1 := d.createProduct(t, "P1", "1000", 5)

	order, err := svc.PlaceOrder(orderInput(OrderItemInput{ProductID: p1.ID, Quantity: 2}))
	require.NoError(t, err)

	assert.NotZero(t, order.ID)
	assert.True(t, decimal.NewFromInt(2000).Equal(order.TotalPrice), order.TotalPrice.String())
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, model.DefaultPaymentMethod, order.PaymentMethod)
	assert.Equal(t, model.DefaultCountry, order.ShippingAddress.Country)
	assert.Equal(t, "dilini@example.com", order.CustomerEmail)
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, "P1", order.OrderItems[0].Name)
	assert.Equal(t, "P1.jpg", order.OrderItems[0].Image)

	assert.Equal(t, 3, d.reloadProduct(t, p1.ID).Stock)
	assert.Equal(t, int64(1), d.countNotifications(t, model.NotificationTypeOrder))
}

func TestOrderService_PlaceOrder_TotalIsServerSide(t *testing.T) {
	d := setupServiceTest(t)
	svc := newOrderService(d)

	vase := d.createProduct(t, "Vase", "19.99", 10)
	mug := d.createProduct(t, "Mug", "7.50", 10)

	order, err := svc.PlaceOrder(orderInput(
		OrderItemInput{ProductID: vase.ID, Quantity: 3},
		OrderItemInput{ProductID: mug.ID, Quantity: 2},
	))
	require.NoError(t, err)

	assert.Equal(t, "74.97", order.TotalPrice.StringFixed(2))

	stored, err := svc.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, "74.97", stored.TotalPrice.StringFixed(2))
	require.Len(t, stored.OrderItems, 2)
}

func TestOrderService_PlaceOrder_SnapshotIsolatedFromLaterEdits(t *testing.T) {
	d := setupServiceTest(t)
	svc := newOrderService(d)

	product := d.createProduct(t, "Candle", "12.00", 4)
	order, err := svc.PlaceOrder(orderInput(OrderItemInput{ProductID: product.ID, Quantity: 1}))
	require.NoError(t, err)

	require.NoError(t, d.db.Model(product).Updates(map[string]interface{}{"name": "Big Candle", "price": "30"}).Error)

	stored, err := svc.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Candle", stored.OrderItems[0].Name)
	assert.Equal(t, "12.00", stored.OrderItems[0].Price.StringFixed(2))
}

func TestOrderService_PlaceOrder_StockFloorsAtZero(t *testing.T) {
	d := setupServiceTest(t)
	svc := newOrderService(d)

	product := d.createProduct(t, "Rug", "50", 2)

	order, err := svc.PlaceOrder(orderInput(OrderItemInput{ProductID: product.ID, Quantity: 5}))
	require.NoError(t, err)
	assert.Equal(t, "250", order.TotalPrice.String())
	assert.Equal(t, 0, d.reloadProduct(t, product.ID).Stock)
}

func TestOrderService_PlaceOrder_Validation(t *testing.T) {
	d := setupServiceTest(t)
	svc := newOrderService(d)

	product := d.createProduct(t, "Tray", "10", 3)

	_, err := svc.PlaceOrder(orderInput())
	assert.ErrorIs(t, err, ErrEmptyOrder)
	assert.True(t, IsValidation(err))

	_, err = svc.PlaceOrder(orderInput(OrderItemInput{ProductID: product.ID, Quantity: 0}))
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)

	missingCity := orderInput(OrderItemInput{ProductID: product.ID, Quantity: 1})
	missingCity.ShippingAddress.City = ""
	_, err = svc.PlaceOrder(missingCity)
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "shippingAddress.city", ve.Field)
}

func TestOrderService_PlaceOrder_UnknownProductRollsBack(t *testing.T) {
	d := setupServiceTest(t)
	svc := newOrderService(d)

	product := d.createProduct(t, "Bowl", "15", 3)

	_, err := svc.PlaceOrder(orderInput(
		OrderItemInput{ProductID: product.ID, Quantity: 1},
		OrderItemInput{ProductID: 9999, Quantity: 1},
	))
	assert.ErrorIs(t, err, ErrProductNotFound)

	assert.Equal(t, 3, d.reloadProduct(t, product.ID).Stock)
	var orders int64
	require.NoError(t, d.db.Model(&model.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)
	assert.Zero(t, d.countNotifications(t, model.NotificationTypeOrder))
}

func TestOrderService_PlaceOrder_ConcurrentLastUnit(t *testing.T) {
	d := setupServiceTest(t)
	svc := newOrderService(d)

	p2 := d.createProduct(t, "P2", "500", 1)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.PlaceOrder(orderInput(OrderItemInput{ProductID: p2.ID, Quantity: 1}))
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	final := d.reloadProduct(t, p2.ID)
	assert.Equal(t, 0, final.Stock)
	assert.Equal(t, int64(2), d.countNotifications(t, model.NotificationTypeOrder))
}

// lockRecordingProductRepo records the ids PlaceOrder asks to lock.
type lockRecordingProductRepo struct {
	repository.ProductRepository
	locked *[][]uint
}

func (r lockRecordingProductRepo) WithTx(tx *gorm.DB) repository.ProductRepository {
	return lockRecordingProductRepo{ProductRepository: r.ProductRepository.WithTx(tx), locked: r.locked}
}

func (r lockRecordingProductRepo) FindByIDsForUpdate(ids []uint) ([]model.Product, error) {
	*r.locked = append(*r.locked, append([]uint(nil), ids...))
	return r.ProductRepository.FindByIDsForUpdate(ids)
}

func TestOrderService_PlaceOrder_MergesRepeatedProducts(t *testing.T) {
	d := setupServiceTest(t)
	svc := newOrderService(d)

	vase := d.createProduct(t, "Vase", "40", 10)
	mat := d.createProduct(t, "Mat", "15", 4)

	order, err := svc.PlaceOrder(orderInput(
		OrderItemInput{ProductID: vase.ID, Quantity: 1},
		OrderItemInput{ProductID: mat.ID, Quantity: 1},
		OrderItemInput{ProductID: vase.ID, Quantity: 2},
	))
	require.NoError(t, err)

	require.Len(t, order.OrderItems, 2)
	assert.Equal(t, vase.ID, order.OrderItems[0].ProductID)
	assert.Equal(t, 3, order.OrderItems[0].Quantity)
	assert.Equal(t, mat.ID, order.OrderItems[1].ProductID)
	assert.Equal(t, 1, order.OrderItems[1].Quantity)
	assert.True(t, decimal.NewFromInt(135).Equal(order.TotalPrice), order.TotalPrice.String())

	assert.Equal(t, 7, d.reloadProduct(t, vase.ID).Stock)
	assert.Equal(t, 3, d.reloadProduct(t, mat.ID).Stock)
}

func TestOrderService_PlaceOrder_LocksProductsInIDOrder(t *testing.T) {
	d := setupServiceTest(t)

	first := d.createProduct(t, "First", "10", 5)
	second := d.createProduct(t, "Second", "20", 5)
	third := d.createProduct(t, "Third", "30", 5)

	var locked [][]uint
	products := lockRecordingProductRepo{ProductRepository: d.productRepo, locked: &locked}
	svc := NewOrderService(d.orderRepo, products, d.notificationRepo, d.db)

	order, err := svc.PlaceOrder(orderInput(
		OrderItemInput{ProductID: third.ID, Quantity: 1},
		OrderItemInput{ProductID: first.ID, Quantity: 1},
		OrderItemInput{ProductID: second.ID, Quantity: 1},
		OrderItemInput{ProductID: third.ID, Quantity: 1},
	))
	require.NoError(t, err)

	require.Len(t, locked, 1)
	assert.Equal(t, []uint{first.ID, second.ID, third.ID}, locked[0])

	// Lines keep the order the customer listed them in.
	require.Len(t, order.OrderItems, 3)
	assert.Equal(t, third.ID, order.OrderItems[0].ProductID)
	assert.Equal(t, 2, order.OrderItems[0].Quantity)
	assert.Equal(t, 3, d.reloadProduct(t, third.ID).Stock)
}

func TestOrderService_UpdateStatus_Transitions(t *testing.T) {
	d := setupServiceTest(t)
	svc := newOrderService(d)
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.(*orderService).now = func() time.Time { return fixed }

	product := d.createProduct(t, "Lamp", "80", 5)
	order, err := svc.PlaceOrder(orderInput(OrderItemInput{ProductID: product.ID, Quantity: 1}))
	require.NoError(t, err)

	shipped, err := svc.UpdateStatus(order.ID, "shipped")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, shipped.Status)
	assert.False(t, shipped.IsDelivered)
	assert.Nil(t, shipped.DeliveredAt)

	again, err := svc.UpdateStatus(order.ID, "shipped")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, again.Status)

	_, err = svc.UpdateStatus(order.ID, "cancelled")
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	delivered, err := svc.UpdateStatus(order.ID, "delivered")
	require.NoError(t, err)
	assert.True(t, delivered.IsDelivered)
	require.NotNil(t, delivered.DeliveredAt)
	assert.True(t, fixed.Equal(delivered.DeliveredAt.UTC()))

	_, err = svc.UpdateStatus(order.ID, "pending")
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "order is already delivered")

	_, err = svc.UpdateStatus(order.ID, "lost")
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)

	_, err = svc.UpdateStatus(424242, "shipped")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

// racingOrderRepo moves the order to another status right before the guarded write.
type racingOrderRepo struct {
	repository.OrderRepository
	db *gorm.DB
	to model.OrderStatus
}

func (r racingOrderRepo) UpdateFieldsIfStatus(id uint, from model.OrderStatus, fields map[string]interface{}) (bool, error) {
	if err := r.db.Model(&model.Order{}).Where("id = ?", id).Update("status", r.to).Error; err != nil {
		return false, err
	}
	return r.OrderRepository.UpdateFieldsIfStatus(id, from, fields)
}

func TestOrderService_UpdateStatus_LosesToConcurrentChange(t *testing.T) {
	d := setupServiceTest(t)

	product := d.createProduct(t, "Rug", "60", 2)
	order, err := newOrderService(d).PlaceOrder(orderInput(OrderItemInput{ProductID: product.ID, Quantity: 1}))
	require.NoError(t, err)

	orders := racingOrderRepo{OrderRepository: d.orderRepo, db: d.db, to: model.OrderStatusCancelled}
	svc := NewOrderService(orders, d.productRepo, d.notificationRepo, d.db)

	_, err = svc.UpdateStatus(order.ID, "processing")
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	assert.Contains(t, err.Error(), "changed concurrently")

	stored, err := d.orderRepo.FindByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, stored.Status)
}

func TestOrderService_CancelDoesNotRestock(t *testing.T) {
	d := setupServiceTest(t)
	svc := newOrderService(d)

	product := d.createProduct(t, "Throw", "45", 3)
	order, err := svc.PlaceOrder(orderInput(OrderItemInput{ProductID: product.ID, Quantity: 2}))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(order.ID, "processing")
	require.NoError(t, err)
	cancelled, err := svc.UpdateStatus(order.ID, "cancelled")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, 1, d.reloadProduct(t, product.ID).Stock)
}

func TestOrderService_MarkPaid_Idempotent(t *testing.T) {
	d := setupServiceTest(t)
	svc := newOrderService(d)

	product := d.createProduct(t, "Cushion", "25", 5)
	order, err := svc.PlaceOrder(orderInput(OrderItemInput{ProductID: product.ID, Quantity: 1}))
	require.NoError(t, err)

	paid, err := svc.MarkPaid(order.ID)
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)
	require.NotNil(t, paid.PaidAt)
	firstPaidAt := *paid.PaidAt

	again, err := svc.MarkPaid(order.ID)
	require.NoError(t, err)
	assert.True(t, firstPaidAt.Equal(*again.PaidAt))

	_, err = svc.MarkPaid(999)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_ListStatsDelete(t *testing.T) {
	d := setupServiceTest(t)
	svc := newOrderService(d)

	product := d.createProduct(t, "Planter", "100", 10)
	first, err := svc.PlaceOrder(orderInput(OrderItemInput{ProductID: product.ID, Quantity: 1}))
	require.NoError(t, err)
	second, err := svc.PlaceOrder(orderInput(OrderItemInput{ProductID: product.ID, Quantity: 2}))
	require.NoError(t, err)
	_, err = svc.UpdateStatus(second.ID, "cancelled")
	require.NoError(t, err)

	pending, err := svc.ListOrders("pending")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, first.ID, pending[0].ID)

	_, err = svc.ListOrders("unknown")
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)

	stats, err := svc.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalOrders)
	assert.Equal(t, int64(1), stats.PendingOrders)
	assert.Equal(t, int64(1), stats.CancelledOrders)
	assert.True(t, decimal.NewFromInt(100).Equal(stats.TotalRevenue), stats.TotalRevenue.String())

	require.NoError(t, svc.DeleteOrder(first.ID))
	assert.ErrorIs(t, svc.DeleteOrder(first.ID), ErrOrderNotFound)
	_, err = svc.GetOrder(first.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_ExportOrders(t *testing.T) {
	d := setupServiceTest(t)
	svc := newOrderService(d)

	product := d.createProduct(t, "Basket", "30", 10)
	_, err := svc.PlaceOrder(orderInput(OrderItemInput{ProductID: product.ID, Quantity: 2}))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportOrders("", &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(orderExportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Order ID", rows[0][0])
	assert.Equal(t, "Dilini Silva", rows[1][2])
	assert.Equal(t, "Basket x2", rows[1][9])
	assert.Equal(t, "pending", rows[1][11])
}
