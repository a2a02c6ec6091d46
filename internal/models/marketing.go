package models

// HeroImage is a homepage carousel entry managed from the admin console.
type HeroImage struct {
	BaseModel
	Title        string `json:"title"`
	Image        string `json:"image"`
	LinkURL      string `json:"link_url"`
	DisplayOrder int    `json:"display_order"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`
}

// PaymentMethod is a payment option offered at checkout. Actual charging
// happens outside this service; orders only record the chosen method.
type PaymentMethod struct {
	BaseModel
	Name       string `json:"name"`
	Type       string `json:"type"`
	BrandColor string `json:"brand_color"`
	Image      string `json:"image"`
	IsActive   bool   `gorm:"default:true" json:"is_active"`
}
