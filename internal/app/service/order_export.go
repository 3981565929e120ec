package service

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/homeheartcreation/shop-backend/internal/app/model"
	"github.com/homeheartcreation/shop-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

const orderExportSheet = "Orders"

var orderExportHeader = []interface{}{
	"Order ID", "Placed At", "Customer", "Email", "Phone",
	"Address", "City", "Postal Code", "Country",
	"Items", "Total", "Status", "Payment Method", "Paid", "Delivered At", "Notes",
}

// ExportOrders writes the matching orders as an XLSX workbook to w.
func (s *orderService) ExportOrders(status string, w io.Writer) error {
	orders, err := s.ListOrders(status)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", orderExportSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(orderExportSheet, "A1", &orderExportHeader); err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(orderExportSheet, 1, 1, headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(orderExportSheet, "A", "P", 18); err != nil {
		return err
	}

	for i, order := range orders {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := orderExportRow(order)
		if err := f.SetSheetRow(orderExportSheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		logger.Error("Failed to write orders workbook", err)
		return err
	}

	logger.Info("Orders exported", map[string]interface{}{
		"status": status,
		"count":  len(orders),
	})
	return nil
}

func orderExportRow(order model.Order) []interface{} {
	items := make([]string, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		items = append(items, fmt.Sprintf("%s x%d", item.Name, item.Quantity))
	}

	deliveredAt := ""
	if order.DeliveredAt != nil {
		deliveredAt = order.DeliveredAt.Format(time.RFC3339)
	}
	total, _ := order.TotalPrice.Float64()

	return []interface{}{
		order.ID,
		order.CreatedAt.Format(time.RFC3339),
		order.CustomerName,
		order.CustomerEmail,
		order.CustomerPhone,
		order.ShippingAddress.Address,
		order.ShippingAddress.City,
		order.ShippingAddress.PostalCode,
		order.ShippingAddress.Country,
		strings.Join(items, ", "),
		total,
		string(order.Status),
		order.PaymentMethod,
		order.IsPaid,
		deliveredAt,
		order.Notes,
	}
}
