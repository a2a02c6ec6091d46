package models

import (
	"time"

	"github.com/google/uuid"
)

type Order struct {
	BaseModel
	UserID         uuid.UUID      `gorm:"type:uuid;index" json:"user_id"`
	User           *User          `json:"user,omitempty"`
	OrderNumber    string         `gorm:"uniqueIndex" json:"order_number"`
	Status         OrderStatus    `gorm:"type:varchar(32);index" json:"status"`
	DeliveryStatus DeliveryStatus `gorm:"type:varchar(32);index" json:"delivery_status"`
	PlacedAt       time.Time      `json:"placed_at"`
	DeliveredAt    *time.Time     `json:"delivered_at"`
	Subtotal       float64        `json:"subtotal"`
	DiscountAmount float64        `json:"discount_amount"`
	CouponCode     string         `json:"coupon_code"`
	ShippingFee    float64        `json:"shipping_fee"`
	TaxAmount      float64        `json:"tax_amount"`
	TotalAmount    float64        `json:"total_amount"`
	Currency       string         `json:"currency"`
	PaymentMethod  string         `json:"payment_method"`
	PaymentStatus  string         `json:"payment_status"`
	TransactionID  string         `json:"transaction_id"`
	PaidAt         *time.Time     `json:"paid_at"`
	ReceiverName   string         `json:"receiver_name"`
	ReceiverPhone  string         `json:"receiver_phone"`
	AddressLine    string         `json:"address_line"`
	Apartment      string         `json:"apartment"`
	City           string         `json:"city"`
	District       string         `json:"district"`
	PostalCode     string         `json:"postal_code"`
	Notes          string         `json:"notes"`
	Items          []OrderItem    `json:"items,omitempty"`
}

type OrderItem struct {
	BaseModel
	OrderID          uuid.UUID    `gorm:"type:uuid;index" json:"order_id"`
	ProductID        *uuid.UUID   `gorm:"type:uuid" json:"product_id"`
	ProductVariantID *uuid.UUID   `gorm:"type:uuid" json:"product_variant_id"`
	ProductName      string       `json:"product_name"`
	VariantName      string       `json:"variant_name"`
	ImageURL         string       `json:"image_url"`
	Quantity         int          `json:"quantity"`
	UnitPrice        float64      `json:"unit_price"`
	LineTotal        float64      `json:"line_total"`
	ReturnStatus     ReturnStatus `gorm:"type:varchar(32)" json:"return_status"`
}
