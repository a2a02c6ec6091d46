package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/orchid/internal/middleware"
	"github.com/example/orchid/internal/models"
	"github.com/example/orchid/internal/services"
)

// CartHandler manages the Redis-backed shopping cart.
type CartHandler struct {
	db    *gorm.DB
	carts *services.CartService
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(db *gorm.DB, carts *services.CartService) *CartHandler {
	return &CartHandler{db: db, carts: carts}
}

// cartDiscount re-evaluates the coupon pinned to a cart against current
// coupon rows. A coupon that is no longer usable is dropped silently so a
// stale cart never blocks checkout reads.
func cartDiscount(db *gorm.DB, userID uuid.UUID, cart *services.Cart) float64 {
	if cart.CouponCode == "" {
		return 0
	}

	var coupon models.Coupon
	if err := db.Where("UPPER(code) = ?", strings.ToUpper(cart.CouponCode)).
		First(&coupon).Error; err != nil {
		cart.CouponCode = ""
		return 0
	}

	var priorUses int64
	if err := db.Model(&models.CouponRedemption{}).
		Where("coupon_id = ? AND user_id = ?", coupon.ID, userID).
		Count(&priorUses).Error; err != nil {
		return 0
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
		cart.CouponCode = ""
		return 0
	}
	return discount
}

func (h *CartHandler) respondCart(c *fiber.Ctx, userID uuid.UUID, cart *services.Cart) error {
	discount := cartDiscount(h.db, userID, cart)
	totals := services.ComputeTotals(cart, discount, 0)
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"items":       cart.Items,
		"coupon_code": cart.CouponCode,
		"totals":      totals,
		"updated_at":  cart.UpdatedAt,
	}})
}

// GetCart returns the caller's cart with server-computed totals.
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	cart, err := h.carts.Get(c.Context(), userID)
	if err != nil {
		return err
	}

	return h.respondCart(c, userID, cart)
}

type cartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// AddItem adds a product (or a specific variant) to the cart. The price
// stored on the line always comes from the catalog, never the client.
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req cartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Quantity <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "quantity must be positive")
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product_id")
	}

	var product models.Product
	if err := h.db.Preload("Variants").Preload("Images").
		First(&product, "id = ?", productID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}
	if !product.IsActive {
		return fiber.NewError(fiber.StatusBadRequest, "product is not available")
	}

	item := services.CartItem{
		ProductID: product.ID.String(),
		Title:     product.Title,
		UnitPrice: product.Price,
		Quantity:  req.Quantity,
	}
	if product.CategoryID != nil {
		item.CategoryID = product.CategoryID.String()
	}
	if product.BrandID != nil {
		item.BrandID = product.BrandID.String()
	}
	if len(product.Images) > 0 {
		item.Image = product.Images[0].URL
	}

	stock := product.Stock
	if product.HasSizes {
		if req.VariantID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "variant_id is required for this product")
		}
		variantID, err := uuid.Parse(req.VariantID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid variant_id")
		}
		var variant *models.ProductVariant
		for i := range product.Variants {
			if product.Variants[i].ID == variantID {
				variant = &product.Variants[i]
				break
			}
		}
		if variant == nil || !variant.IsActive {
			return fiber.NewError(fiber.StatusNotFound, "variant not found")
		}
		item.VariantID = variant.ID.String()
		item.VariantName = variant.Name
		item.UnitPrice = variant.Price
		stock = variant.Stock
	} else if req.VariantID != "" {
		return fiber.NewError(fiber.StatusBadRequest, "product has no variants")
	}

	if req.Quantity > stock {
		return fiber.NewError(fiber.StatusBadRequest, "insufficient stock")
	}

	cart, err := h.carts.Get(c.Context(), userID)
	if err != nil {
		return err
	}
	cart.Upsert(item)

	if err := h.carts.Save(c.Context(), userID, cart); err != nil {
		return err
	}

	return h.respondCart(c, userID, cart)
}

type updateCartItemRequest struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

// UpdateItem changes the quantity of an existing line; zero removes it.
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	productID := c.Params("productId")
	if _, err := uuid.Parse(productID); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	var req updateCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Quantity < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "quantity must not be negative")
	}

	cart, err := h.carts.Get(c.Context(), userID)
	if err != nil {
		return err
	}

	if req.Quantity == 0 {
		if !cart.Remove(productID, req.VariantID) {
			return fiber.NewError(fiber.StatusNotFound, "item not in cart")
		}
	} else {
		found := false
		for i := range cart.Items {
			if cart.Items[i].ProductID == productID && cart.Items[i].VariantID == req.VariantID {
				cart.Items[i].Quantity = req.Quantity
				found = true
				break
			}
		}
		if !found {
			return fiber.NewError(fiber.StatusNotFound, "item not in cart")
		}
	}

	if err := h.carts.Save(c.Context(), userID, cart); err != nil {
		return err
	}

	return h.respondCart(c, userID, cart)
}

// RemoveItem deletes a line from the cart.
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	productID := c.Params("productId")
	if _, err := uuid.Parse(productID); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	cart, err := h.carts.Get(c.Context(), userID)
	if err != nil {
		return err
	}

	if !cart.Remove(productID, c.Query("variant_id")) {
		return fiber.NewError(fiber.StatusNotFound, "item not in cart")
	}

	if err := h.carts.Save(c.Context(), userID, cart); err != nil {
		return err
	}

	return h.respondCart(c, userID, cart)
}

// ClearCart empties the caller's cart.
func (h *CartHandler) ClearCart(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	if err := h.carts.Clear(c.Context(), userID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}
