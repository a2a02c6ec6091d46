package services

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/example/orchid/internal/models"
)

var orderSheetHeaders = []string{
	"Order Number", "Placed At", "Customer", "Phone", "Status",
	"Delivery Status", "Items", "Subtotal", "Discount", "Shipping",
	"Total", "Currency", "Payment Method", "City",
}

// BuildOrderSheet renders orders into an xlsx workbook for the admin
// console export.
func BuildOrderSheet(orders []models.Order) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Orders"

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	for col, header := range orderSheetHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for row, order := range orders {
		customer := ""
		phone := ""
		if order.User != nil {
			customer = order.User.DisplayName
			phone = order.User.Phone
		}
		if customer == "" {
			customer = order.ReceiverName
		}
		if phone == "" {
			phone = order.ReceiverPhone
		}

		itemCount := 0
		for _, item := range order.Items {
			itemCount += item.Quantity
		}

		values := []interface{}{
			order.OrderNumber,
			order.PlacedAt.Format("2006-01-02 15:04"),
			customer,
			phone,
			string(order.Status),
			string(order.DeliveryStatus),
			itemCount,
			order.Subtotal,
			order.DiscountAmount,
			order.ShippingFee,
			order.TotalAmount,
			order.Currency,
			order.PaymentMethod,
			order.City,
		}

		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}

// OrderSheetFilename returns the attachment name for an export.
func OrderSheetFilename(suffix string) string {
	return fmt.Sprintf("orders-%s.xlsx", suffix)
}
