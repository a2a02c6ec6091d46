package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/orchid/internal/middleware"
	"github.com/example/orchid/internal/models"
	"github.com/example/orchid/internal/services"
	"github.com/example/orchid/internal/utils"
)

// ReturnHandler manages the return/refund workflow.
type ReturnHandler struct {
	db       *gorm.DB
	telegram *services.TelegramService
	events   *EventHub
}

// NewReturnHandler constructs ReturnHandler.
func NewReturnHandler(db *gorm.DB, telegram *services.TelegramService, events *EventHub) *ReturnHandler {
	return &ReturnHandler{db: db, telegram: telegram, events: events}
}

type createReturnRequest struct {
	OrderItemID      string `json:"order_item_id" validate:"required"`
	ActionType       string `json:"action_type" validate:"required"`
	IssueType        string `json:"issue_type" validate:"required"`
	IssueDescription string `json:"issue_description"`
}

// CreateReturn opens a return request for one delivered order item.
func (h *ReturnHandler) CreateReturn(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createReturnRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	action := models.ReturnAction(req.ActionType)
	if !action.IsValid() {
		return fiber.NewError(fiber.StatusBadRequest, "unknown action type")
	}

	issue := models.IssueType(req.IssueType)
	if !issue.IsValid() {
		return fiber.NewError(fiber.StatusBadRequest, "unknown issue type")
	}
	if issue.RequiresDescription() && req.IssueDescription == "" {
		return fiber.NewError(fiber.StatusBadRequest, "issue description is required for this issue type")
	}

	itemID, err := uuid.Parse(req.OrderItemID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid order_item_id")
	}

	var item models.OrderItem
	if err := h.db.First(&item, "id = ?", itemID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order item not found")
		}
		return err
	}

	var order models.Order
	if err := h.db.First(&order, "id = ? AND user_id = ?", item.OrderID, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order item not found")
		}
		return err
	}

	if order.Status != models.OrderStatusDelivered {
		return fiber.NewError(fiber.StatusBadRequest, "only delivered orders can be returned")
	}

	var open int64
	if err := h.db.Model(&models.ReturnRequest{}).
		Where("order_item_id = ? AND status NOT IN ?", item.ID, []models.ReturnStatus{
			models.ReturnStatusRejected,
			models.ReturnStatusCompleted,
			models.ReturnStatusRefundCompleted,
			models.ReturnStatusLegacyRejected,
			models.ReturnStatusLegacyCompleted,
		}).
		Count(&open).Error; err != nil {
		return err
	}
	if open > 0 {
		return fiber.NewError(fiber.StatusConflict, "a return is already open for this item")
	}

	ret := models.ReturnRequest{
		ReturnNumber:     generateReturnNumber(),
		OrderID:          order.ID,
		OrderItemID:      item.ID,
		ProductID:        item.ProductID,
		UserID:           userID,
		ActionType:       action,
		IssueType:        issue,
		IssueDescription: req.IssueDescription,
		Status:           models.ReturnStatusRequested,
	}

	if err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ret).Error; err != nil {
			return err
		}
		history := models.ReturnStatusHistory{
			ReturnRequestID: ret.ID,
			Status:          models.ReturnStatusRequested,
			OccurredAt:      time.Now(),
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}
		return tx.Model(&item).
			Update("return_status", models.ReturnStatusRequested).Error
	}); err != nil {
		return err
	}

	h.events.Publish(EventReturnRequested, fiber.Map{
		"return_id":     ret.ID,
		"return_number": ret.ReturnNumber,
		"order_number":  order.OrderNumber,
		"status":        ret.Status,
	})
	if h.telegram != nil {
		go h.telegram.NotifyReturnEvent(services.ReturnNotification{
			ReturnNumber: ret.ReturnNumber,
			OrderNumber:  order.OrderNumber,
			ProductName:  item.ProductName,
			ActionType:   string(ret.ActionType),
			IssueType:    string(ret.IssueType),
			Status:       string(ret.Status),
			Currency:     order.Currency,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": ret})
}

// ListMyReturns returns the caller's return requests.
func (h *ReturnHandler) ListMyReturns(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.ReturnRequest{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var returns []models.ReturnRequest
	if err := query.Preload("History").Preload("Order").
		Limit(pg.Limit).Offset(pg.Offset).
		Order("created_at desc").Find(&returns).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": returns, "pagination": fiber.Map{
		"current_page":   pg.Page,
		"items_per_page": pg.Limit,
		"total_items":    total,
		"total_pages":    pg.TotalPages(total),
	}})
}

// ListReturns returns paginated return requests for the admin console.
// Legacy short-form status filters are accepted and normalised.
func (h *ReturnHandler) ListReturns(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.ReturnRequest{})

	if status := c.Query("status"); status != "" {
		s := models.ReturnStatus(status)
		if !s.IsValid() {
			return fiber.NewError(fiber.StatusBadRequest, "unknown return status")
		}
		// Old rows may still carry the short form of the same status.
		query = query.Where("status IN ?", statusFilterValues(s))
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("return_number ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var returns []models.ReturnRequest
	if err := query.Preload("History").Preload("Order").Preload("User").
		Limit(pg.Limit).Offset(pg.Offset).
		Order("created_at desc").Find(&returns).Error; err != nil {
		return err
	}

	for i := range returns {
		returns[i].Status = returns[i].Status.Normalize()
	}

	return c.JSON(fiber.Map{"success": true, "data": returns, "pagination": fiber.Map{
		"current_page":   pg.Page,
		"items_per_page": pg.Limit,
		"total_items":    total,
		"total_pages":    pg.TotalPages(total),
	}})
}

// statusFilterValues returns the normalised status plus any legacy
// spelling that maps onto it.
func statusFilterValues(s models.ReturnStatus) []models.ReturnStatus {
	n := s.Normalize()
	values := []models.ReturnStatus{n}
	for _, legacy := range []models.ReturnStatus{
		models.ReturnStatusLegacyPending,
		models.ReturnStatusLegacyApproved,
		models.ReturnStatusLegacyRejected,
		models.ReturnStatusLegacyCompleted,
	} {
		if legacy.Normalize() == n {
			values = append(values, legacy)
		}
	}
	return values
}

// GetReturn returns one return request with history.
func (h *ReturnHandler) GetReturn(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var ret models.ReturnRequest
	if err := h.db.Preload("History").Preload("Order").Preload("User").
		First(&ret, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "return not found")
		}
		return err
	}

	ret.Status = ret.Status.Normalize()
	return c.JSON(fiber.Map{"success": true, "data": ret})
}

// GetAllowedReturnStatuses returns the statuses a return may move to next.
func (h *ReturnHandler) GetAllowedReturnStatuses(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var ret models.ReturnRequest
	if err := h.db.Select("id", "status").First(&ret, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "return not found")
		}
		return err
	}

	allowed := ret.Status.AllowedNext()
	if allowed == nil {
		allowed = []models.ReturnStatus{}
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"current_status":   ret.Status.Normalize(),
		"allowed_statuses": allowed,
	}})
}

type updateReturnStatusRequest struct {
	Status       models.ReturnStatus `json:"status" validate:"required"`
	Notes        string              `json:"notes"`
	RefundAmount *float64            `json:"refund_amount"`
}

// UpdateReturnStatus moves a return through its workflow. Entering a
// refund state requires a positive refund amount, either already on the
// request or supplied in this call. Every applied transition appends a
// history row and is projected onto the order item.
func (h *ReturnHandler) UpdateReturnStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateReturnStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if !req.Status.IsValid() {
		return fiber.NewError(fiber.StatusBadRequest, "unknown return status")
	}
	next := req.Status.Normalize()

	var ret models.ReturnRequest
	if err := h.db.First(&ret, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "return not found")
		}
		return err
	}

	if !ret.Status.CanTransitionTo(next) {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("cannot move return from %s to %s", ret.Status.Normalize(), next))
	}

	refundAmount := ret.RefundAmount
	if req.RefundAmount != nil {
		refundAmount = *req.RefundAmount
	}
	if next.RequiresRefundAmount() && refundAmount <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "refund_amount is required for refund statuses")
	}
	if refundAmount < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "refund_amount must not be negative")
	}

	if err := h.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":        next,
			"refund_amount": refundAmount,
		}
		if err := tx.Model(&ret).Updates(updates).Error; err != nil {
			return err
		}

		history := models.ReturnStatusHistory{
			ReturnRequestID: ret.ID,
			Status:          next,
			Notes:           req.Notes,
			OccurredAt:      time.Now(),
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		return tx.Model(&models.OrderItem{}).
			Where("id = ?", ret.OrderItemID).
			Update("return_status", next).Error
	}); err != nil {
		return err
	}

	h.events.Publish(EventReturnStatusChanged, fiber.Map{
		"return_id":     ret.ID,
		"return_number": ret.ReturnNumber,
		"status":        next,
		"refund_amount": refundAmount,
	})
	if h.telegram != nil {
		var order models.Order
		if err := h.db.Select("order_number", "currency").
			First(&order, "id = ?", ret.OrderID).Error; err == nil {
			go h.telegram.NotifyReturnEvent(services.ReturnNotification{
				ReturnNumber: ret.ReturnNumber,
				OrderNumber:  order.OrderNumber,
				ActionType:   string(ret.ActionType),
				IssueType:    string(ret.IssueType),
				Status:       string(next),
				RefundAmount: refundAmount,
				Currency:     order.Currency,
			})
		}
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"id":            ret.ID,
		"status":        next,
		"refund_amount": refundAmount,
	}})
}
