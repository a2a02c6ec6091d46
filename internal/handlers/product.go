package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/orchid/internal/models"
	"github.com/example/orchid/internal/utils"
)

// ProductHandler manages product CRUD.
type ProductHandler struct {
	db *gorm.DB
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{db: db}
}

// ListProducts returns paginated products with optional filters.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Product{})

	if v := c.Query("category_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			query = query.Where("category_id = ?", id)
		}
	}

	if v := c.Query("brand_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			query = query.Where("brand_id = ?", id)
		}
	}

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		q := "%" + search + "%"
		query = query.Where("title ILIKE ? OR short_description ILIKE ?", q, q)
	}

	if minPrice := c.Query("min_price"); minPrice != "" {
		if val, err := strconv.ParseFloat(minPrice, 64); err == nil {
			query = query.Where("price >= ?", val)
		}
	}

	if maxPrice := c.Query("max_price"); maxPrice != "" {
		if val, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			query = query.Where("price <= ?", val)
		}
	}

	if active := c.Query("is_active"); active != "" {
		query = query.Where("is_active = ?", active == "true")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var products []models.Product
	if err := query.Preload("Brand").Preload("Category").Preload("Variants").
		Limit(pg.Limit).Offset(pg.Offset).
		Order("created_at desc").
		Find(&products).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    products,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
			"total_pages":    pg.TotalPages(total),
		},
	})
}

// GetProduct loads a product with relations.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.db.Preload("Brand").
		Preload("Category").
		Preload("Variants").
		Preload("Images").
		First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}

type productRequest struct {
	Slug             string           `json:"slug"`
	Title            string           `json:"title"`
	ShortDescription string           `json:"short_description"`
	LongDescription  string           `json:"long_description"`
	Price            float64          `json:"price"`
	MRP              float64          `json:"mrp"`
	Stock            int              `json:"stock"`
	Currency         string           `json:"currency"`
	HasSizes         bool             `json:"has_sizes"`
	IsActive         *bool            `json:"is_active"`
	BrandID          string           `json:"brand_id"`
	CategoryID       string           `json:"category_id"`
	Variants         []variantRequest `json:"variants"`
	Images           []imageRequest   `json:"images"`
}

type variantRequest struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	SKU       string  `json:"sku"`
	Price     float64 `json:"price"`
	MRP       float64 `json:"mrp"`
	Stock     int     `json:"stock"`
	IsDefault bool    `json:"is_default"`
	IsActive  *bool   `json:"is_active"`
}

type imageRequest struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	AltText      string `json:"alt_text"`
	DisplayOrder int    `json:"display_order"`
}

// validateVariants enforces the sized-product invariants before any write:
// a sized product needs at least one variant with exactly one default, and
// a product without sizes carries no variants at all.
func validateVariants(hasSizes bool, variants []variantRequest) error {
	if !hasSizes {
		if len(variants) > 0 {
			return errors.New("variants are only allowed when the product has sizes")
		}
		return nil
	}

	if len(variants) == 0 {
		return errors.New("at least one size is required when the product has sizes")
	}

	defaults := 0
	for _, v := range variants {
		if v.Name == "" {
			return errors.New("variant name is required")
		}
		if v.IsDefault {
			defaults++
		}
	}
	if defaults != 1 {
		return errors.New("exactly one variant must be marked as default")
	}
	return nil
}

// CreateProduct handles product creation.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	product, err := h.buildProductFromRequest(req)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := h.db.Create(&product).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": product})
}

// UpdateProduct updates an existing product and replaces its associations.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var existing models.Product
	if err := h.db.Preload("Variants").
		Preload("Images").
		First(&existing, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	product, err := h.buildProductFromRequest(req)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	product.ID = existing.ID

	if err := h.db.Transaction(func(tx *gorm.DB) error {
		product.CreatedAt = existing.CreatedAt

		// Replace dependent associations
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductVariant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}

		if err := tx.Model(&existing).Omit("ID", "CreatedAt").Updates(map[string]interface{}{
			"slug":              product.Slug,
			"title":             product.Title,
			"short_description": product.ShortDescription,
			"long_description":  product.LongDescription,
			"price":             product.Price,
			"mrp":               product.MRP,
			"stock":             product.Stock,
			"currency":          product.Currency,
			"has_sizes":         product.HasSizes,
			"is_active":         product.IsActive,
			"brand_id":          product.BrandID,
			"category_id":       product.CategoryID,
		}).Error; err != nil {
			return err
		}

		for i := range product.Variants {
			product.Variants[i].ProductID = product.ID
		}
		for i := range product.Images {
			product.Images[i].ProductID = product.ID
		}

		if len(product.Variants) > 0 {
			if err := tx.Create(&product.Variants).Error; err != nil {
				return err
			}
		}
		if len(product.Images) > 0 {
			if err := tx.Create(&product.Images).Error; err != nil {
				return err
			}
		}

		return nil
	}); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}

// DeleteProduct removes a product and its associations.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductVariant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, "id = ?", id).Error
	}); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ProductHandler) buildProductFromRequest(req productRequest) (models.Product, error) {
	product := models.Product{
		Slug:             req.Slug,
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		LongDescription:  req.LongDescription,
		Price:            req.Price,
		MRP:              req.MRP,
		Stock:            req.Stock,
		Currency:         req.Currency,
		HasSizes:         req.HasSizes,
		IsActive:         true,
	}

	if req.Title == "" {
		return product, errors.New("title is required")
	}
	if req.Price < 0 {
		return product, errors.New("price must not be negative")
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if product.Slug == "" {
		product.Slug = utils.Slugify(req.Title)
	}

	if err := validateVariants(req.HasSizes, req.Variants); err != nil {
		return product, err
	}

	if req.BrandID != "" {
		id, err := uuid.Parse(req.BrandID)
		if err != nil {
			return product, errors.New("invalid brand_id")
		}
		product.BrandID = &id
	}
	if req.CategoryID != "" {
		id, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return product, errors.New("invalid category_id")
		}
		product.CategoryID = &id
	}

	for _, v := range req.Variants {
		variant := models.ProductVariant{
			ProductID: product.ID,
			Name:      v.Name,
			SKU:       v.SKU,
			Price:     v.Price,
			MRP:       v.MRP,
			Stock:     v.Stock,
			IsDefault: v.IsDefault,
			IsActive:  true,
		}
		if v.IsActive != nil {
			variant.IsActive = *v.IsActive
		}
		product.Variants = append(product.Variants, variant)
	}

	for _, img := range req.Images {
		product.Images = append(product.Images, models.ProductImage{
			ProductID:    product.ID,
			URL:          img.URL,
			AltText:      img.AltText,
			DisplayOrder: img.DisplayOrder,
		})
	}

	return product, nil
}

// RegisterProductRoutes attaches public product routes.
func (h *ProductHandler) RegisterProductRoutes(router fiber.Router) {
	router.Get("/", h.ListProducts)
	router.Get("/:id", h.GetProduct)
}

// RegisterAdminProductRoutes attaches admin product routes.
func (h *ProductHandler) RegisterAdminProductRoutes(router fiber.Router) {
	router.Post("/", h.CreateProduct)
	router.Put("/:id", h.UpdateProduct)
	router.Delete("/:id", h.DeleteProduct)
}
