package models

// HomepageSlots is the number of fixed homepage positions brands and
// categories can occupy (1-based, unique per entity type among active rows).
const HomepageSlots = 4

type Category struct {
	BaseModel
	Name           string    `json:"name"`
	Slug           string    `gorm:"uniqueIndex" json:"slug"`
	Description    string    `json:"description"`
	Image          string    `json:"image"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`
	ShowOnHomepage bool      `json:"show_on_homepage"`
	HomepageOrder  int       `json:"homepage_order"`
	ProductCount   int       `json:"product_count"`
	Products       []Product `json:"products,omitempty"`
}

type Brand struct {
	BaseModel
	Name           string    `json:"name"`
	Slug           string    `gorm:"uniqueIndex" json:"slug"`
	Description    string    `json:"description"`
	LogoURL        string    `json:"logo_url"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`
	ShowOnHomepage bool      `json:"show_on_homepage"`
	HomepageOrder  int       `json:"homepage_order"`
	ProductCount   int       `json:"product_count"`
	Products       []Product `json:"products,omitempty"`
}
