package repository

import (
	"github.com/homeheartcreation/shop-backend/internal/app/model"
	"github.com/homeheartcreation/shop-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderFilter struct {
	Status model.OrderStatus
}

type OrderRepository interface {
	WithTx(tx *gorm.DB) OrderRepository
	Create(order *model.Order) error
	FindByID(id uint) (*model.Order, error)
	FindAll(filter OrderFilter) ([]model.Order, error)
	UpdateFields(id uint, fields map[string]interface{}) error
	UpdateFieldsIfStatus(id uint, from model.OrderStatus, fields map[string]interface{}) (bool, error)
	Delete(id uint) error
	GetStats() (*model.OrderStats, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) WithTx(tx *gorm.DB) OrderRepository {
	return &orderRepository{db: tx}
}

func (r *orderRepository) preloadOrder() *gorm.DB {
	return r.db.Preload("OrderItems", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	})
}

// Create inserts the order together with its items.
func (r *orderRepository) Create(order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"customer_email": order.CustomerEmail,
		"total_price":    order.TotalPrice.String(),
		"item_count":     len(order.OrderItems),
	})

	if err := r.db.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"customer_email": order.CustomerEmail,
			"total_price":    order.TotalPrice.String(),
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id":    order.ID,
		"total_price": order.TotalPrice.String(),
	})
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	var order model.Order
	if err := r.preloadOrder().First(&order, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find order by ID in database", err, map[string]interface{}{
				"order_id": id,
			})
		}
		return nil, err
	}
	return &order, nil
}

// FindAll returns orders newest first, optionally filtered by status.
func (r *orderRepository) FindAll(filter OrderFilter) ([]model.Order, error) {
	logger.Debug("Finding orders in database", map[string]interface{}{
		"status": filter.Status,
	})

	query := r.preloadOrder()
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var orders []model.Order
	if err := query.Order("created_at DESC").Order("id DESC").Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders in database", err, map[string]interface{}{
			"status": filter.Status,
		})
		return nil, err
	}

	logger.Debug("Orders found in database", map[string]interface{}{
		"count": len(orders),
	})
	return orders, nil
}

func (r *orderRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	result := r.db.Model(&model.Order{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		logger.Error("Failed to update order in database", result.Error, map[string]interface{}{
			"order_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateFieldsIfStatus applies fields only while the order is still in status
// from. It reports false when the row was missing or had already moved on.
func (r *orderRepository) UpdateFieldsIfStatus(id uint, from model.OrderStatus, fields map[string]interface{}) (bool, error) {
	result := r.db.Model(&model.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(fields)
	if result.Error != nil {
		logger.Error("Failed to update order in database", result.Error, map[string]interface{}{
			"order_id": id,
			"from":     from,
		})
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete removes the order and its items.
func (r *orderRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&model.OrderItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Order{}, id)
		if result.Error != nil {
			logger.Error("Failed to delete order in database", result.Error, map[string]interface{}{
				"order_id": id,
			})
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *orderRepository) GetStats() (*model.OrderStats, error) {
	stats := &model.OrderStats{TotalRevenue: decimal.Zero}

	statusCounts := []struct {
		Status model.OrderStatus
		Count  int64
	}{}
	if err := r.db.Model(&model.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		logger.Error("Failed to count orders by status", err)
		return nil, err
	}

	for _, sc := range statusCounts {
		stats.TotalOrders += sc.Count
		switch sc.Status {
		case model.OrderStatusPending:
			stats.PendingOrders = sc.Count
		case model.OrderStatusProcessing:
			stats.ProcessingOrders = sc.Count
		case model.OrderStatusShipped:
			stats.ShippedOrders = sc.Count
		case model.OrderStatusDelivered:
			stats.DeliveredOrders = sc.Count
		case model.OrderStatusCancelled:
			stats.CancelledOrders = sc.Count
		}
	}

	var revenue struct {
		TotalRevenue decimal.NullDecimal
	}
	if err := r.db.Model(&model.Order{}).
		Select("SUM(total_price) AS total_revenue").
		Where("status <> ?", model.OrderStatusCancelled).
		Scan(&revenue).Error; err != nil {
		logger.Error("Failed to calculate total revenue", err)
		return nil, err
	}
	if revenue.TotalRevenue.Valid {
		stats.TotalRevenue = revenue.TotalRevenue.Decimal
	}

	logger.Debug("Order statistics retrieved", map[string]interface{}{
		"total_orders":  stats.TotalOrders,
		"total_revenue": stats.TotalRevenue.String(),
	})
	return stats, nil
}
