package controller

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/homeheartcreation/shop-backend/internal/app/model"
	"github.com/homeheartcreation/shop-backend/internal/app/service"
	"github.com/homeheartcreation/shop-backend/internal/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

// OrderItemRequest carries only the product reference and quantity. Any name,
// price or image sent by the storefront is ignored and re-read from the catalog.
type OrderItemRequest struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

type ShippingAddressRequest struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type PlaceOrderRequest struct {
	OrderItems      []OrderItemRequest     `json:"orderItems"`
	CustomerName    string                 `json:"customerName"`
	CustomerEmail   string                 `json:"customerEmail" binding:"omitempty,email"`
	CustomerPhone   string                 `json:"customerPhone"`
	ShippingAddress ShippingAddressRequest `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
	Notes           string                 `json:"notes"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PlaceOrder creates an order from the storefront checkout
// POST /api/orders
func (ctrl *OrderController) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	items := make([]service.OrderItemInput, len(req.OrderItems))
	for i, item := range req.OrderItems {
		items[i] = service.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	order, err := ctrl.orderService.PlaceOrder(service.PlaceOrderInput{
		Items:         items,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		ShippingAddress: model.ShippingAddress{
			Address:    req.ShippingAddress.Address,
			City:       req.ShippingAddress.City,
			PostalCode: req.ShippingAddress.PostalCode,
			Country:    req.ShippingAddress.Country,
		},
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		respondError(c, err, "Place order")
		return
	}

	middleware.RecordOrderPlaced()
	c.JSON(http.StatusCreated, order)
}

// ListOrders returns all orders, optionally filtered by status
// GET /api/orders?status=
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	orders, err := ctrl.orderService.ListOrders(c.Query("status"))
	if err != nil {
		respondError(c, err, "List orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetStats returns order counts and revenue
// GET /api/orders/stats
func (ctrl *OrderController) GetStats(c *gin.Context) {
	stats, err := ctrl.orderService.GetStats()
	if err != nil {
		respondError(c, err, "Get order stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ExportOrders returns the order list as an XLSX workbook
// GET /api/orders/export?status=
func (ctrl *OrderController) ExportOrders(c *gin.Context) {
	var buf bytes.Buffer
	if err := ctrl.orderService.ExportOrders(c.Query("status"), &buf); err != nil {
		respondError(c, err, "Export orders")
		return
	}

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// GetOrder returns a single order
// GET /api/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.orderService.GetOrder(id)
	if err != nil {
		respondError(c, err, "Get order")
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateOrderStatus moves an order along its lifecycle
// PUT /api/orders/:id/status
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := ctrl.orderService.UpdateStatus(id, req.Status)
	if err != nil {
		respondError(c, err, "Update order status")
		return
	}

	middleware.RecordOrderStatusChange(string(order.Status))
	c.JSON(http.StatusOK, order)
}

// MarkOrderPaid records payment
// PUT /api/orders/:id/pay
func (ctrl *OrderController) MarkOrderPaid(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.orderService.MarkPaid(id)
	if err != nil {
		respondError(c, err, "Mark order paid")
		return
	}
	c.JSON(http.StatusOK, order)
}

// DeleteOrder removes an order
// DELETE /api/orders/:id
func (ctrl *OrderController) DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.orderService.DeleteOrder(id); err != nil {
		respondError(c, err, "Delete order")
		return
	}
	messageResponse(c, "Order removed")
}
