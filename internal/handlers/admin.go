package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/orchid/internal/models"
	"github.com/example/orchid/internal/services"
	"github.com/example/orchid/internal/utils"
)

// AdminHandler serves the admin console dashboard, user list, and exports.
type AdminHandler struct {
	db *gorm.DB
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

// GetDashboard returns aggregate counts and revenue for the admin home.
func (h *AdminHandler) GetDashboard(c *fiber.Ctx) error {
	var totalOrders, pendingOrders, totalUsers, totalProducts, openReturns int64

	if err := h.db.Model(&models.Order{}).Count(&totalOrders).Error; err != nil {
		return err
	}
	if err := h.db.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusPending).
		Count(&pendingOrders).Error; err != nil {
		return err
	}
	if err := h.db.Model(&models.User{}).
		Where("role = ?", models.RoleCustomer).
		Count(&totalUsers).Error; err != nil {
		return err
	}
	if err := h.db.Model(&models.Product{}).Count(&totalProducts).Error; err != nil {
		return err
	}
	if err := h.db.Model(&models.ReturnRequest{}).
		Where("status NOT IN ?", []models.ReturnStatus{
			models.ReturnStatusRejected,
			models.ReturnStatusCompleted,
			models.ReturnStatusRefundCompleted,
			models.ReturnStatusLegacyRejected,
			models.ReturnStatusLegacyCompleted,
		}).
		Count(&openReturns).Error; err != nil {
		return err
	}

	var byStatus []struct {
		Status models.OrderStatus
		Count  int64
	}
	if err := h.db.Model(&models.Order{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return err
	}
	ordersByStatus := fiber.Map{}
	for _, row := range byStatus {
		ordersByStatus[string(row.Status)] = row.Count
	}

	var revenue struct {
		Total float64
	}
	if err := h.db.Model(&models.Order{}).
		Where("status != ?", models.OrderStatusCancelled).
		Select("COALESCE(SUM(total_amount), 0) as total").
		Scan(&revenue).Error; err != nil {
		return err
	}

	var revenueToday struct {
		Total float64
	}
	startOfDay := time.Now().Truncate(24 * time.Hour)
	if err := h.db.Model(&models.Order{}).
		Where("status != ? AND placed_at >= ?", models.OrderStatusCancelled, startOfDay).
		Select("COALESCE(SUM(total_amount), 0) as total").
		Scan(&revenueToday).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"total_orders":     totalOrders,
		"pending_orders":   pendingOrders,
		"orders_by_status": ordersByStatus,
		"total_users":      totalUsers,
		"total_products":   totalProducts,
		"open_returns":     openReturns,
		"total_revenue":    revenue.Total,
		"revenue_today":    revenueToday.Total,
	}})
}

// ListUsers returns paginated customers for the admin console.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.User{})

	if search := c.Query("search"); search != "" {
		q := "%" + search + "%"
		query = query.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR phone ILIKE ? OR email ILIKE ?",
			q, q, q, q)
	}
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var users []models.User
	if err := query.Limit(pg.Limit).Offset(pg.Offset).
		Order("created_at desc").Find(&users).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": users, "pagination": fiber.Map{
		"current_page":   pg.Page,
		"items_per_page": pg.Limit,
		"total_items":    total,
		"total_pages":    pg.TotalPages(total),
	}})
}

// GetRecentOrders returns the newest orders for the dashboard feed.
func (h *AdminHandler) GetRecentOrders(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > 50 {
		limit = 10
	}

	var orders []models.Order
	if err := h.db.Preload("User").
		Order("placed_at desc").Limit(limit).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": orders})
}

// ExportOrders streams the order book as an xlsx attachment. Optional
// from/to date filters bound the export window.
func (h *AdminHandler) ExportOrders(c *fiber.Ctx) error {
	query := h.db.Model(&models.Order{}).Preload("User").Preload("Items")

	if from := c.Query("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid from date, expected YYYY-MM-DD")
		}
		query = query.Where("placed_at >= ?", t)
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid to date, expected YYYY-MM-DD")
		}
		query = query.Where("placed_at < ?", t.AddDate(0, 0, 1))
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Order("placed_at desc").Find(&orders).Error; err != nil {
		return err
	}

	sheet, err := services.BuildOrderSheet(orders)
	if err != nil {
		return err
	}

	filename := services.OrderSheetFilename(time.Now().Format("20060102-150405"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)

	buf, err := sheet.WriteToBuffer()
	if err != nil {
		return err
	}
	return c.Send(buf.Bytes())
}
