package handlers

import (
	"errors"
	"fmt"
	"log"
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

// OrderHandler manages checkout and order management.
type OrderHandler struct {
	db       *gorm.DB
	carts    *services.CartService
	telegram *services.TelegramService
	events   *EventHub
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB, carts *services.CartService, telegram *services.TelegramService, events *EventHub) *OrderHandler {
	return &OrderHandler{db: db, carts: carts, telegram: telegram, events: events}
}

func generateOrderNumber() string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), suffix)
}

func generateReturnNumber() string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("RET-%s-%s", time.Now().Format("20060102"), suffix)
}

type checkoutRequest struct {
	AddressID     string `json:"address_id"`
	ReceiverName  string `json:"receiver_name"`
	ReceiverPhone string `json:"receiver_phone"`
	AddressLine   string `json:"address_line"`
	Apartment     string `json:"apartment"`
	City          string `json:"city"`
	District      string `json:"district"`
	PostalCode    string `json:"postal_code"`
	PaymentMethod string `json:"payment_method" validate:"required"`
	Notes         string `json:"notes"`
}

// Checkout turns the caller's cart into an order. Prices and stock are
// re-validated against current catalog rows inside one transaction; the
// cart snapshot is never trusted for money.
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var method models.PaymentMethod
	if err := h.db.Where("type = ? AND is_active = ?", req.PaymentMethod, true).
		First(&method).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusBadRequest, "unknown payment method")
		}
		return err
	}

	order := models.Order{
		UserID:         userID,
		OrderNumber:    generateOrderNumber(),
		Status:         models.OrderStatusPending,
		DeliveryStatus: models.DeliveryStatusPending,
		PlacedAt:       time.Now(),
		PaymentMethod:  method.Type,
		PaymentStatus:  "pending",
		Notes:          req.Notes,
	}

	if req.AddressID != "" {
		addressID, err := uuid.Parse(req.AddressID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid address_id")
		}
		var address models.UserAddress
		if err := h.db.First(&address, "id = ? AND user_id = ?", addressID, userID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fiber.NewError(fiber.StatusNotFound, "address not found")
			}
			return err
		}
		order.ReceiverName = address.ReceiverName
		order.ReceiverPhone = address.Phone
		order.AddressLine = address.AddressLine
		order.Apartment = address.Apartment
		order.City = address.City
		order.District = address.District
		order.PostalCode = address.PostalCode
	} else {
		if req.AddressLine == "" || req.City == "" {
			return fiber.NewError(fiber.StatusBadRequest, "shipping address is required")
		}
		order.ReceiverName = req.ReceiverName
		order.ReceiverPhone = req.ReceiverPhone
		order.AddressLine = req.AddressLine
		order.Apartment = req.Apartment
		order.City = req.City
		order.District = req.District
		order.PostalCode = req.PostalCode
	}

	cart, err := h.carts.Get(c.Context(), userID)
	if err != nil {
		return err
	}
	if len(cart.Items) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "cart is empty")
	}

	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		couponItems := make([]models.CouponItem, 0, len(cart.Items))

		for _, line := range cart.Items {
			productID, err := uuid.Parse(line.ProductID)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid product in cart")
			}

			var product models.Product
			if err := tx.First(&product, "id = ?", productID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return fiber.NewError(fiber.StatusBadRequest,
						fmt.Sprintf("product %s is no longer available", line.Title))
				}
				return err
			}
			if !product.IsActive {
				return fiber.NewError(fiber.StatusBadRequest,
					fmt.Sprintf("product %s is no longer available", product.Title))
			}

			item := models.OrderItem{
				ProductID:   &product.ID,
				ProductName: product.Title,
				ImageURL:    line.Image,
				Quantity:    line.Quantity,
				UnitPrice:   product.Price,
			}

			if line.VariantID != "" {
				variantID, err := uuid.Parse(line.VariantID)
				if err != nil {
					return fiber.NewError(fiber.StatusBadRequest, "invalid variant in cart")
				}
				var variant models.ProductVariant
				if err := tx.First(&variant, "id = ? AND product_id = ?", variantID, product.ID).Error; err != nil {
					return fiber.NewError(fiber.StatusBadRequest,
						fmt.Sprintf("size %s of %s is no longer available", line.VariantName, product.Title))
				}
				if variant.Stock < line.Quantity {
					return fiber.NewError(fiber.StatusBadRequest,
						fmt.Sprintf("insufficient stock for %s (%s)", product.Title, variant.Name))
				}
				item.ProductVariantID = &variant.ID
				item.VariantName = variant.Name
				item.UnitPrice = variant.Price
				if err := tx.Model(&variant).
					Update("stock", gorm.Expr("stock - ?", line.Quantity)).Error; err != nil {
					return err
				}
			} else {
				if product.Stock < line.Quantity {
					return fiber.NewError(fiber.StatusBadRequest,
						fmt.Sprintf("insufficient stock for %s", product.Title))
				}
				if err := tx.Model(&product).
					Update("stock", gorm.Expr("stock - ?", line.Quantity)).Error; err != nil {
					return err
				}
			}

			item.LineTotal = item.UnitPrice * float64(item.Quantity)
			order.Subtotal += item.LineTotal
			if order.Currency == "" {
				order.Currency = product.Currency
			}
			order.Items = append(order.Items, item)

			couponItems = append(couponItems, models.CouponItem{
				ProductID:  line.ProductID,
				CategoryID: line.CategoryID,
				BrandID:    line.BrandID,
				LineTotal:  item.LineTotal,
			})
		}

		if cart.CouponCode != "" {
			var coupon models.Coupon
			if err := tx.Where("UPPER(code) = ?", strings.ToUpper(cart.CouponCode)).
				First(&coupon).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return fiber.NewError(fiber.StatusBadRequest, "applied coupon no longer exists")
				}
				return err
			}

			var priorUses int64
			if err := tx.Model(&models.CouponRedemption{}).
				Where("coupon_id = ? AND user_id = ?", coupon.ID, userID).
				Count(&priorUses).Error; err != nil {
				return err
			}

			discount, err := coupon.Apply(time.Now(), int(priorUses), couponItems)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}

			order.CouponCode = coupon.Code
			order.DiscountAmount = discount

			if err := tx.Model(&coupon).
				Update("used_count", gorm.Expr("used_count + 1")).Error; err != nil {
				return err
			}
		}

		order.TotalAmount = order.Subtotal - order.DiscountAmount + order.ShippingFee + order.TaxAmount

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		if order.CouponCode != "" {
			var coupon models.Coupon
			if err := tx.Where("code = ?", order.CouponCode).First(&coupon).Error; err != nil {
				return err
			}
			redemption := models.CouponRedemption{
				CouponID: coupon.ID,
				UserID:   userID,
				OrderID:  &order.ID,
			}
			if err := tx.Create(&redemption).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if txErr != nil {
		var fe *fiber.Error
		if errors.As(txErr, &fe) {
			return fe
		}
		return txErr
	}

	if err := h.carts.Clear(c.Context(), userID); err != nil {
		// Order is committed; a stale cart is recoverable.
		log.Printf("checkout: failed to clear cart for %s: %v", userID, err)
	}

	h.notifyOrderCreated(userID, &order)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": order})
}

func (h *OrderHandler) notifyOrderCreated(userID uuid.UUID, order *models.Order) {
	h.events.Publish(EventOrderCreated, fiber.Map{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total_amount": order.TotalAmount,
		"currency":     order.Currency,
		"status":       order.Status,
	})

	if h.telegram == nil {
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return
	}

	notification := services.OrderNotification{
		OrderID:       order.ID.String(),
		OrderNumber:   order.OrderNumber,
		TotalAmount:   order.TotalAmount,
		Currency:      order.Currency,
		UserName:      strings.TrimSpace(user.FirstName + " " + user.LastName),
		UserPhone:     user.Phone,
		PaymentMethod: order.PaymentMethod,
		Status:        string(order.Status),
	}
	for _, item := range order.Items {
		notification.Items = append(notification.Items, services.OrderItemNotification{
			Name:     item.ProductName,
			Quantity: item.Quantity,
			Price:    item.UnitPrice,
			Currency: order.Currency,
		})
	}

	go h.telegram.NotifyNewOrder(notification)
}

// ListMyOrders returns the caller's orders, newest first.
func (h *OrderHandler) ListMyOrders(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{}).Where("user_id = ?", userID)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Limit(pg.Limit).Offset(pg.Offset).
		Order("placed_at desc").Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": orders, "pagination": fiber.Map{
		"current_page":   pg.Page,
		"items_per_page": pg.Limit,
		"total_items":    total,
		"total_pages":    pg.TotalPages(total),
	}})
}

// GetMyOrder returns one of the caller's orders with items.
func (h *OrderHandler) GetMyOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.Preload("Items").
		First(&order, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

// CancelMyOrder cancels a pending order and restores stock.
func (h *OrderHandler) CancelMyOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.Preload("Items").
		First(&order, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	if !order.Status.CanTransitionTo(models.OrderStatusCancelled) {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("order in status %s cannot be cancelled", order.Status))
	}

	if err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&order).Update("status", models.OrderStatusCancelled).Error; err != nil {
			return err
		}
		return restoreStock(tx, order.Items)
	}); err != nil {
		return err
	}

	h.events.Publish(EventOrderStatusChanged, fiber.Map{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"status":       models.OrderStatusCancelled,
	})

	return c.JSON(fiber.Map{"success": true})
}

func restoreStock(tx *gorm.DB, items []models.OrderItem) error {
	for _, item := range items {
		if item.ProductVariantID != nil {
			if err := tx.Model(&models.ProductVariant{}).
				Where("id = ?", item.ProductVariantID).
				Update("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
				return err
			}
			continue
		}
		if item.ProductID != nil {
			if err := tx.Model(&models.Product{}).
				Where("id = ?", item.ProductID).
				Update("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// ListOrders returns paginated orders for the admin console.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		q := "%" + search + "%"
		query = query.Where("order_number ILIKE ? OR receiver_name ILIKE ? OR receiver_phone ILIKE ?", q, q, q)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").Preload("User").
		Limit(pg.Limit).Offset(pg.Offset).
		Order("placed_at desc").Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": orders, "pagination": fiber.Map{
		"current_page":   pg.Page,
		"items_per_page": pg.Limit,
		"total_items":    total,
		"total_pages":    pg.TotalPages(total),
	}})
}

// GetOrder returns one order with items and user for the admin console.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.Preload("Items").Preload("User").
		First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

type updateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

// UpdateOrderStatus moves an order through its fulfilment states.
func (h *OrderHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if !req.Status.IsValid() {
		return fiber.NewError(fiber.StatusBadRequest, "unknown order status")
	}

	var order models.Order
	if err := h.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	if !order.Status.CanTransitionTo(req.Status) {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, req.Status))
	}

	updates := map[string]interface{}{"status": req.Status}
	if req.Status == models.OrderStatusDelivered && order.DeliveredAt == nil {
		now := time.Now()
		updates["delivered_at"] = now
		updates["delivery_status"] = models.DeliveryStatusDelivered
	}

	if err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return err
		}
		if req.Status == models.OrderStatusCancelled {
			return restoreStock(tx, order.Items)
		}
		return nil
	}); err != nil {
		return err
	}

	h.events.Publish(EventOrderStatusChanged, fiber.Map{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"status":       req.Status,
	})

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"id":     order.ID,
		"status": req.Status,
	}})
}
