package service

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/homeheartcreation/shop-backend/internal/app/model"
	"github.com/homeheartcreation/shop-backend/internal/app/repository"
	"github.com/homeheartcreation/shop-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderItemInput struct {
	ProductID uint
	Quantity  int
}

type PlaceOrderInput struct {
	Items           []OrderItemInput
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ShippingAddress model.ShippingAddress
	PaymentMethod   string
	Notes           string
}

type OrderService interface {
	PlaceOrder(input PlaceOrderInput) (*model.Order, error)
	ListOrders(status string) ([]model.Order, error)
	GetOrder(id uint) (*model.Order, error)
	UpdateStatus(id uint, status string) (*model.Order, error)
	MarkPaid(id uint) (*model.Order, error)
	DeleteOrder(id uint) error
	GetStats() (*model.OrderStats, error)
	ExportOrders(status string, w io.Writer) error
}

type orderService struct {
	orderRepo        repository.OrderRepository
	productRepo      repository.ProductRepository
	notificationRepo repository.NotificationRepository
	db               *gorm.DB
	now              func() time.Time
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	notificationRepo repository.NotificationRepository,
	db *gorm.DB,
) OrderService {
	return &orderService{
		orderRepo:        orderRepo,
		productRepo:      productRepo,
		notificationRepo: notificationRepo,
		db:               db,
		now:              time.Now,
	}
}

func validatePlaceOrder(input PlaceOrderInput) error {
	if len(input.Items) == 0 {
		return ErrEmptyOrder
	}
	for i, item := range input.Items {
		if item.ProductID == 0 {
			return newValidationError(fmt.Sprintf("orderItems[%d].productId", i), "is required")
		}
		if item.Quantity < 1 {
			return newRangeError(fmt.Sprintf("orderItems[%d].quantity", i), "must be at least 1")
		}
	}

	required := map[string]string{
		"customerName":            input.CustomerName,
		"customerEmail":           input.CustomerEmail,
		"customerPhone":           input.CustomerPhone,
		"shippingAddress.address": input.ShippingAddress.Address,
		"shippingAddress.city":    input.ShippingAddress.City,
	}
	for _, field := range []string{"customerName", "customerEmail", "customerPhone", "shippingAddress.address", "shippingAddress.city"} {
		if strings.TrimSpace(required[field]) == "" {
			return newValidationError(field, "is required")
		}
	}
	return nil
}

// mergeOrderItems folds repeated products into one line, keeping the position
// where each product first appears.
func mergeOrderItems(items []OrderItemInput) []OrderItemInput {
	merged := make([]OrderItemInput, 0, len(items))
	index := make(map[uint]int, len(items))
	for _, item := range items {
		if i, ok := index[item.ProductID]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(merged)
		merged = append(merged, item)
	}
	return merged
}

// PlaceOrder snapshots live product state into the order, decrements stock and
// records an admin notification, all in one transaction.
func (s *orderService) PlaceOrder(input PlaceOrderInput) (*model.Order, error) {
	logger.Info("Placing order", map[string]interface{}{
		"customer_email": input.CustomerEmail,
		"item_count":     len(input.Items),
	})

	if err := validatePlaceOrder(input); err != nil {
		logger.Warn("Order rejected: invalid input", map[string]interface{}{
			"customer_email": input.CustomerEmail,
			"error":          err.Error(),
		})
		return nil, err
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		logger.Error("Failed to begin order transaction", tx.Error)
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during order creation, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"customer_email": input.CustomerEmail,
			})
			panic(r)
		}
	}()

	items := mergeOrderItems(input.Items)
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	slices.Sort(ids)

	products := s.productRepo.WithTx(tx)
	locked, err := products.FindByIDsForUpdate(ids)
	if err != nil {
		tx.Rollback()
		logger.Error("Failed to load products for order", err, map[string]interface{}{
			"product_ids": ids,
		})
		return nil, err
	}
	byID := make(map[uint]model.Product, len(locked))
	for _, product := range locked {
		byID[product.ID] = product
	}

	totalPrice := decimal.Zero
	orderItems := make([]model.OrderItem, 0, len(items))
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			tx.Rollback()
			logger.Warn("Order rejected: product not found", map[string]interface{}{
				"product_id": item.ProductID,
			})
			return nil, fmt.Errorf("%w: %d", ErrProductNotFound, item.ProductID)
		}

		orderItem := model.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  item.Quantity,
			Price:     product.Price,
			Image:     product.Image,
		}
		orderItems = append(orderItems, orderItem)
		totalPrice = totalPrice.Add(orderItem.Subtotal())
	}

	paymentMethod := strings.TrimSpace(input.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = model.DefaultPaymentMethod
	}
	shipping := input.ShippingAddress
	if strings.TrimSpace(shipping.Country) == "" {
		shipping.Country = model.DefaultCountry
	}

	order := &model.Order{
		CustomerName:    strings.TrimSpace(input.CustomerName),
		CustomerEmail:   strings.ToLower(strings.TrimSpace(input.CustomerEmail)),
		CustomerPhone:   strings.TrimSpace(input.CustomerPhone),
		ShippingAddress: shipping,
		TotalPrice:      totalPrice,
		Status:          model.OrderStatusPending,
		PaymentMethod:   paymentMethod,
		Notes:           input.Notes,
		OrderItems:      orderItems,
	}

	if err := s.orderRepo.WithTx(tx).Create(order); err != nil {
		tx.Rollback()
		return nil, err
	}

	for _, item := range orderItems {
		if err := products.DecrementStock(item.ProductID, item.Quantity); err != nil {
			tx.Rollback()
			logger.Error("Failed to decrement stock, order rolled back", err, map[string]interface{}{
				"product_id": item.ProductID,
				"quantity":   item.Quantity,
			})
			return nil, err
		}
	}

	notification := &model.Notification{
		Type:    model.NotificationTypeOrder,
		Title:   "New Order Placed",
		Message: fmt.Sprintf("New order from %s for Rs. %s", order.CustomerName, order.TotalPrice.StringFixed(2)),
		Link:    fmt.Sprintf("/orders/%d", order.ID),
	}
	if err := s.notificationRepo.WithTx(tx).Create(notification); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit order transaction", err, map[string]interface{}{
			"customer_email": order.CustomerEmail,
		})
		return nil, err
	}

	logger.Info("Order placed", map[string]interface{}{
		"order_id":    order.ID,
		"total_price": order.TotalPrice.String(),
		"item_count":  len(order.OrderItems),
	})
	return order, nil
}

func parseOrderStatus(status string) (model.OrderStatus, error) {
	s := model.OrderStatus(strings.ToLower(strings.TrimSpace(status)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidOrderStatus, status)
	}
	return s, nil
}

func (s *orderService) ListOrders(status string) ([]model.Order, error) {
	filter := repository.OrderFilter{}
	if strings.TrimSpace(status) != "" {
		parsed, err := parseOrderStatus(status)
		if err != nil {
			return nil, err
		}
		filter.Status = parsed
	}
	return s.orderRepo.FindAll(filter)
}

func (s *orderService) GetOrder(id uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// UpdateStatus moves an order along the transition table. Setting the current
// status again is a no-op.
func (s *orderService) UpdateStatus(id uint, status string) (*model.Order, error) {
	next, err := parseOrderStatus(status)
	if err != nil {
		logger.Warn("Rejected unknown order status", map[string]interface{}{
			"order_id": id,
			"status":   status,
		})
		return nil, err
	}

	order, err := s.GetOrder(id)
	if err != nil {
		return nil, err
	}

	if order.Status == next {
		return order, nil
	}
	if order.Status.Terminal() {
		logger.Warn("Rejected change to a closed order", map[string]interface{}{
			"order_id": id,
			"status":   order.Status,
			"to":       next,
		})
		return nil, fmt.Errorf("%w: order is already %s", ErrInvalidStatusTransition, order.Status)
	}
	if !order.Status.CanTransitionTo(next) {
		logger.Warn("Rejected order status transition", map[string]interface{}{
			"order_id": id,
			"from":     order.Status,
			"to":       next,
		})
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, order.Status, next)
	}

	fields := map[string]interface{}{"status": next}
	if next == model.OrderStatusDelivered {
		fields["is_delivered"] = true
		fields["delivered_at"] = s.now()
	}

	// The status guard makes a concurrent transition from the same state lose cleanly.
	updated, err := s.orderRepo.UpdateFieldsIfStatus(id, order.Status, fields)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, fmt.Errorf("%w: order %d changed concurrently", ErrInvalidStatusTransition, id)
	}

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": id,
		"from":     order.Status,
		"to":       next,
	})
	return s.GetOrder(id)
}

// MarkPaid is idempotent; an order keeps its first paidAt.
func (s *orderService) MarkPaid(id uint) (*model.Order, error) {
	order, err := s.GetOrder(id)
	if err != nil {
		return nil, err
	}
	if order.IsPaid {
		return order, nil
	}

	if err := s.orderRepo.UpdateFields(id, map[string]interface{}{
		"is_paid": true,
		"paid_at": s.now(),
	}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	logger.Info("Order marked as paid", map[string]interface{}{
		"order_id": id,
	})
	return s.GetOrder(id)
}

func (s *orderService) DeleteOrder(id uint) error {
	if err := s.orderRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	logger.Info("Order deleted", map[string]interface{}{
		"order_id": id,
	})
	return nil
}

func (s *orderService) GetStats() (*model.OrderStats, error) {
	return s.orderRepo.GetStats()
}
