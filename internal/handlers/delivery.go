package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/orchid/internal/models"
	"github.com/example/orchid/internal/utils"
)

// DeliveryHandler manages the shipment workflow on orders.
type DeliveryHandler struct {
	db     *gorm.DB
	events *EventHub
}

// NewDeliveryHandler constructs DeliveryHandler.
func NewDeliveryHandler(db *gorm.DB, events *EventHub) *DeliveryHandler {
	return &DeliveryHandler{db: db, events: events}
}

// ListDeliveries returns orders filtered by delivery status. Cancelled
// orders never appear in the delivery queue.
func (h *DeliveryHandler) ListDeliveries(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{}).
		Where("status != ?", models.OrderStatusCancelled)

	if status := c.Query("delivery_status"); status != "" {
		if !models.DeliveryStatus(status).IsValid() {
			return fiber.NewError(fiber.StatusBadRequest, "unknown delivery status")
		}
		query = query.Where("delivery_status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		q := "%" + search + "%"
		query = query.Where("order_number ILIKE ? OR receiver_name ILIKE ?", q, q)
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

	return c.JSON(fiber.Map{
		"data":        orders,
		"page":        pg.Page,
		"total_pages": pg.TotalPages(total),
		"total_count": total,
	})
}

// GetAllowedDeliveryStatuses returns the single next delivery step for an
// order; an empty list means the shipment is done.
func (h *DeliveryHandler) GetAllowedDeliveryStatuses(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.Select("id", "delivery_status").First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	allowed := order.DeliveryStatus.AllowedNext()
	if allowed == nil {
		allowed = []models.DeliveryStatus{}
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"current_status":   order.DeliveryStatus,
		"allowed_statuses": allowed,
	}})
}

type updateDeliveryStatusRequest struct {
	DeliveryStatus models.DeliveryStatus `json:"delivery_status" validate:"required"`
}

// UpdateDeliveryStatus advances a shipment by exactly one step. Reaching
// delivered stamps delivered_at and flips the order status as well.
func (h *DeliveryHandler) UpdateDeliveryStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateDeliveryStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if !req.DeliveryStatus.IsValid() {
		return fiber.NewError(fiber.StatusBadRequest, "unknown delivery status")
	}

	var order models.Order
	if err := h.db.First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	if order.Status == models.OrderStatusCancelled {
		return fiber.NewError(fiber.StatusBadRequest, "order is cancelled")
	}
	if !order.DeliveryStatus.CanTransitionTo(req.DeliveryStatus) {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("cannot move delivery from %s to %s", order.DeliveryStatus, req.DeliveryStatus))
	}

	updates := map[string]interface{}{"delivery_status": req.DeliveryStatus}
	if req.DeliveryStatus == models.DeliveryStatusDelivered {
		now := time.Now()
		updates["delivered_at"] = now
		updates["status"] = models.OrderStatusDelivered
	}

	if err := h.db.Model(&order).Updates(updates).Error; err != nil {
		return err
	}

	h.events.Publish(EventOrderStatusChanged, fiber.Map{
		"order_id":        order.ID,
		"order_number":    order.OrderNumber,
		"delivery_status": req.DeliveryStatus,
	})

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"id":              order.ID,
		"delivery_status": req.DeliveryStatus,
	}})
}
