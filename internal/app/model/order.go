package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

const (
	DefaultPaymentMethod = "Cash on Delivery"
	DefaultCountry       = "Sri Lanka"
)

// orderTransitions lists the statuses reachable from each status.
// delivered and cancelled are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusShipped, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  nil,
	OrderStatusCancelled:  nil,
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s.Valid() && len(orderTransitions[s]) == 0
}

type ShippingAddress struct {
	Address    string `gorm:"not null" json:"address"`
	City       string `gorm:"not null" json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type Order struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	CustomerName    string          `gorm:"not null" json:"customerName"`
	CustomerEmail   string          `gorm:"not null;index" json:"customerEmail"`
	CustomerPhone   string          `gorm:"not null" json:"customerPhone"`
	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_" json:"shippingAddress"`
	TotalPrice      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"totalPrice"`
	Status          OrderStatus     `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	PaymentMethod   string          `gorm:"default:'Cash on Delivery'" json:"paymentMethod"`
	IsPaid          bool            `gorm:"default:false" json:"isPaid"`
	PaidAt          *time.Time      `json:"paidAt,omitempty"`
	IsDelivered     bool            `gorm:"default:false" json:"isDelivered"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty"`
	Notes           string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`

	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"orderItems"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem snapshots the product as it was when the order was placed.
type OrderItem struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"orderId"`
	ProductID uint            `gorm:"not null;index" json:"productId"`
	Name      string          `gorm:"not null" json:"name"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Image     string          `json:"image"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// Subtotal is price × quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderStats summarizes orders for the admin dashboard.
type OrderStats struct {
	TotalOrders      int64           `json:"totalOrders"`
	PendingOrders    int64           `json:"pendingOrders"`
	ProcessingOrders int64           `json:"processingOrders"`
	ShippedOrders    int64           `json:"shippedOrders"`
	DeliveredOrders  int64           `json:"deliveredOrders"`
	CancelledOrders  int64           `json:"cancelledOrders"`
	TotalRevenue     decimal.Decimal `json:"totalRevenue"` // excludes cancelled orders
}
