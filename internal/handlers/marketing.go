package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/orchid/internal/models"
)

// MarketingHandler manages hero images and payment-method lookups.
type MarketingHandler struct {
	db *gorm.DB
}

// NewMarketingHandler constructs MarketingHandler.
func NewMarketingHandler(db *gorm.DB) *MarketingHandler {
	return &MarketingHandler{db: db}
}

// ListHeroImages returns hero images; the storefront passes active=true.
func (h *MarketingHandler) ListHeroImages(c *fiber.Ctx) error {
	query := h.db.Model(&models.HeroImage{})
	if active := c.Query("active"); active != "" {
		query = query.Where("is_active = ?", active == "true")
	}

	var images []models.HeroImage
	if err := query.Order("display_order asc, created_at desc").Find(&images).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": images})
}

type heroImageRequest struct {
	Title        string `json:"title"`
	Image        string `json:"image"`
	LinkURL      string `json:"link_url"`
	DisplayOrder int    `json:"display_order"`
	IsActive     *bool  `json:"is_active"`
}

// CreateHeroImage persists a new hero image.
func (h *MarketingHandler) CreateHeroImage(c *fiber.Ctx) error {
	var req heroImageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Image == "" {
		return fiber.NewError(fiber.StatusBadRequest, "image is required")
	}

	hero := models.HeroImage{
		Title:        req.Title,
		Image:        req.Image,
		LinkURL:      req.LinkURL,
		DisplayOrder: req.DisplayOrder,
		IsActive:     true,
	}
	if req.IsActive != nil {
		hero.IsActive = *req.IsActive
	}

	if err := h.db.Create(&hero).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": hero})
}

// UpdateHeroImage updates a hero image.
func (h *MarketingHandler) UpdateHeroImage(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var hero models.HeroImage
	if err := h.db.First(&hero, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "hero image not found")
		}
		return err
	}

	var req heroImageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{
		"title":         req.Title,
		"image":         req.Image,
		"link_url":      req.LinkURL,
		"display_order": req.DisplayOrder,
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if err := h.db.Model(&hero).Updates(updates).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": hero})
}

// DeleteHeroImage removes a hero image.
func (h *MarketingHandler) DeleteHeroImage(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	if err := h.db.Delete(&models.HeroImage{}, "id = ?", id).Error; err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListPaymentMethods returns active payment options for checkout.
func (h *MarketingHandler) ListPaymentMethods(c *fiber.Ctx) error {
	var methods []models.PaymentMethod
	if err := h.db.Where("is_active = ?", true).
		Order("created_at asc").Find(&methods).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": methods})
}
