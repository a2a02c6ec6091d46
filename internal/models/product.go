package models

import (
	"github.com/google/uuid"
)

type Product struct {
	BaseModel
	Slug             string           `gorm:"uniqueIndex" json:"slug"`
	Title            string           `json:"title"`
	ShortDescription string           `json:"short_description"`
	LongDescription  string           `json:"long_description"`
	Price            float64          `json:"price"`
	MRP              float64          `json:"mrp"`
	Stock            int              `json:"stock"`
	Currency         string           `json:"currency"`
	HasSizes         bool             `json:"has_sizes"`
	IsActive         bool             `gorm:"default:true" json:"is_active"`
	BrandID          *uuid.UUID       `gorm:"type:uuid" json:"brand_id"`
	Brand            *Brand           `json:"brand,omitempty"`
	CategoryID       *uuid.UUID       `gorm:"type:uuid" json:"category_id"`
	Category         *Category        `json:"category,omitempty"`
	Images           []ProductImage   `json:"images,omitempty"`
	Variants         []ProductVariant `json:"variants,omitempty"`
}

// ProductVariant is a priced, stocked sub-SKU of a product (a size).
// When the parent product has sizes, exactly one variant is the default.
type ProductVariant struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	Name      string    `json:"name"`
	SKU       string    `json:"sku"`
	Price     float64   `json:"price"`
	MRP       float64   `json:"mrp"`
	Stock     int       `json:"stock"`
	IsDefault bool      `json:"is_default"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
}

type ProductImage struct {
	BaseModel
	ProductID    uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	URL          string    `json:"url"`
	AltText      string    `json:"alt_text"`
	DisplayOrder int       `json:"display_order"`
}
