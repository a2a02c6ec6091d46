package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/orchid/internal/middleware"
	"github.com/example/orchid/internal/models"
	"github.com/example/orchid/internal/services"
	"github.com/example/orchid/internal/utils"
)

// CouponHandler manages coupon CRUD and application.
type CouponHandler struct {
	db    *gorm.DB
	carts *services.CartService
}

// NewCouponHandler constructs CouponHandler.
func NewCouponHandler(db *gorm.DB, carts *services.CartService) *CouponHandler {
	return &CouponHandler{db: db, carts: carts}
}

// ListCoupons returns paginated coupons for the admin console.
func (h *CouponHandler) ListCoupons(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Coupon{})

	if search := c.Query("search"); search != "" {
		query = query.Where("code ILIKE ?", "%"+search+"%")
	}
	if active := c.Query("active"); active != "" {
		query = query.Where("active = ?", active == "true")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var coupons []models.Coupon
	if err := query.Limit(pg.Limit).Offset(pg.Offset).
		Order("created_at desc").Find(&coupons).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": coupons, "pagination": fiber.Map{
		"current_page":   pg.Page,
		"items_per_page": pg.Limit,
		"total_items":    total,
		"total_pages":    pg.TotalPages(total),
	}})
}

// GetCoupon returns a single coupon by ID.
func (h *CouponHandler) GetCoupon(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var coupon models.Coupon
	if err := h.db.First(&coupon, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "coupon not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": coupon})
}

type couponRequest struct {
	Code                 string    `json:"code" validate:"required"`
	Type                 string    `json:"type" validate:"required,oneof=percentage flat"`
	Value                float64   `json:"value" validate:"required,gt=0"`
	MaxDiscount          float64   `json:"max_discount"`
	MinOrderValue        float64   `json:"min_order_value"`
	StartDate            time.Time `json:"start_date"`
	ExpiryDate           time.Time `json:"expiry_date"`
	UsageLimit           int       `json:"usage_limit"`
	PerUserLimit         int       `json:"per_user_limit"`
	Active               *bool     `json:"active"`
	ApplicableProducts   []string  `json:"applicable_products"`
	ApplicableCategories []string  `json:"applicable_categories"`
	ApplicableBrands     []string  `json:"applicable_brands"`
}

func (req couponRequest) toModel() models.Coupon {
	coupon := models.Coupon{
		Code:                 strings.ToUpper(strings.TrimSpace(req.Code)),
		Type:                 req.Type,
		Value:                req.Value,
		MaxDiscount:          req.MaxDiscount,
		MinOrderValue:        req.MinOrderValue,
		StartDate:            req.StartDate,
		ExpiryDate:           req.ExpiryDate,
		UsageLimit:           req.UsageLimit,
		PerUserLimit:         req.PerUserLimit,
		Active:               true,
		ApplicableProducts:   req.ApplicableProducts,
		ApplicableCategories: req.ApplicableCategories,
		ApplicableBrands:     req.ApplicableBrands,
	}
	if req.Active != nil {
		coupon.Active = *req.Active
	}
	return coupon
}

// CreateCoupon persists a new coupon.
func (h *CouponHandler) CreateCoupon(c *fiber.Ctx) error {
	var req couponRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := utils.ValidateStruct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if req.Type == models.CouponTypePercentage && req.Value > 100 {
		return fiber.NewError(fiber.StatusBadRequest, "percentage value must not exceed 100")
	}

	coupon := req.toModel()

	var existing models.Coupon
	if err := h.db.Where("code = ?", coupon.Code).First(&existing).Error; err == nil {
		return fiber.NewError(fiber.StatusConflict, "coupon code already exists")
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	if err := h.db.Create(&coupon).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": coupon})
}

// UpdateCoupon updates an existing coupon.
func (h *CouponHandler) UpdateCoupon(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var coupon models.Coupon
	if err := h.db.First(&coupon, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "coupon not found")
		}
		return err
	}

	var req couponRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := utils.ValidateStruct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	updated := req.toModel()
	updated.ID = coupon.ID
	updated.UsedCount = coupon.UsedCount
	updated.CreatedAt = coupon.CreatedAt

	if err := h.db.Save(&updated).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": updated})
}

// DeleteCoupon removes a coupon.
func (h *CouponHandler) DeleteCoupon(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Delete(&models.Coupon{}, "id = ?", id).Error; err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

type applyCouponRequest struct {
	Code string `json:"code" validate:"required"`
}

// ApplyCoupon validates a code against the caller's cart and, when
// eligible, pins it to the cart. The discount is recomputed from current
// rows on every cart read; applying never burns a use.
func (h *CouponHandler) ApplyCoupon(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req applyCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	cart, err := h.carts.Get(c.Context(), userID)
	if err != nil {
		return err
	}
	if len(cart.Items) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "cart is empty")
	}

	coupon, discount, err := h.evaluate(userID, req.Code, cart)
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return fe
		}
		return err
	}

	cart.CouponCode = coupon.Code
	if err := h.carts.Save(c.Context(), userID, cart); err != nil {
		return err
	}

	totals := services.ComputeTotals(cart, discount, 0)
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"coupon_code":     coupon.Code,
		"discount_amount": totals.DiscountAmount,
		"totals":          totals,
	}})
}

// RemoveCoupon detaches any applied coupon from the caller's cart.
func (h *CouponHandler) RemoveCoupon(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	cart, err := h.carts.Get(c.Context(), userID)
	if err != nil {
		return err
	}

	cart.CouponCode = ""
	if err := h.carts.Save(c.Context(), userID, cart); err != nil {
		return err
	}

	totals := services.ComputeTotals(cart, 0, 0)
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"totals": totals}})
}

// evaluate loads a coupon by code and runs the full eligibility pipeline
// against the cart. Unknown codes and failed checks come back as 400s.
func (h *CouponHandler) evaluate(userID uuid.UUID, code string, cart *services.Cart) (*models.Coupon, float64, error) {
	var coupon models.Coupon
	if err := h.db.Where("UPPER(code) = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&coupon).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, 0, fiber.NewError(fiber.StatusBadRequest, "invalid coupon code")
		}
		return nil, 0, err
	}

	var priorUses int64
	if err := h.db.Model(&models.CouponRedemption{}).
		Where("coupon_id = ? AND user_id = ?", coupon.ID, userID).
		Count(&priorUses).Error; err != nil {
		return nil, 0, err
	}

	items := make([]models.CouponItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, models.CouponItem{
			ProductID:  item.ProductID,
			CategoryID: item.CategoryID,
			BrandID:    item.BrandID,
			LineTotal:  item.UnitPrice * float64(item.Quantity),
		})
	}

	discount, err := coupon.Apply(time.Now(), int(priorUses), items)
	if err != nil {
		return nil, 0, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return &coupon, discount, nil
}
