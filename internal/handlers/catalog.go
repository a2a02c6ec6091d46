package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/orchid/internal/models"
	"github.com/example/orchid/internal/utils"
)

// CatalogHandler manages brands, categories, and homepage slots.
type CatalogHandler struct {
	db *gorm.DB
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

// ListCategories returns paginated categories.
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Category{})

	if search := c.Query("search"); search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}
	if active := c.Query("is_active"); active != "" {
		query = query.Where("is_active = ?", active == "true")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var categories []models.Category
	if err := query.Limit(pg.Limit).Offset(pg.Offset).Order("created_at desc").
		Find(&categories).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    categories,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
			"total_pages":    pg.TotalPages(total),
		},
	})
}

// GetCategory returns a single category by ID.
func (h *CatalogHandler) GetCategory(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var category models.Category
	if err := h.db.First(&category, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "category not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": category})
}

// CreateCategory persists a new category.
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var payload models.Category
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if payload.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}
	if payload.Slug == "" {
		payload.Slug = utils.Slugify(payload.Name)
	}

	if err := h.db.Create(&payload).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": payload})
}

// UpdateCategory updates an existing category.
func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var category models.Category
	if err := h.db.First(&category, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "category not found")
		}
		return err
	}

	var payload models.Category
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	payload.ID = category.ID
	if err := h.db.Model(&category).Updates(payload).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": category})
}

// DeleteCategory removes a category by ID.
func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Delete(&models.Category{}, "id = ?", id).Error; err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Brand CRUD follows the category pattern.

func (h *CatalogHandler) ListBrands(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Brand{})

	if search := c.Query("search"); search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}
	if active := c.Query("is_active"); active != "" {
		query = query.Where("is_active = ?", active == "true")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var items []models.Brand
	if err := query.Limit(pg.Limit).Offset(pg.Offset).
		Order("created_at desc").Find(&items).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": items, "pagination": fiber.Map{
		"current_page":   pg.Page,
		"items_per_page": pg.Limit,
		"total_items":    total,
		"total_pages":    pg.TotalPages(total),
	}})
}

func (h *CatalogHandler) GetBrand(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var item models.Brand
	if err := h.db.First(&item, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "brand not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": item})
}

func (h *CatalogHandler) CreateBrand(c *fiber.Ctx) error {
	var payload models.Brand
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if payload.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}
	if payload.Slug == "" {
		payload.Slug = utils.Slugify(payload.Name)
	}

	if err := h.db.Create(&payload).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": payload})
}

func (h *CatalogHandler) UpdateBrand(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var item models.Brand
	if err := h.db.First(&item, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "brand not found")
		}
		return err
	}

	var payload models.Brand
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	payload.ID = item.ID
	if err := h.db.Model(&item).Updates(payload).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": item})
}

func (h *CatalogHandler) DeleteBrand(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	if err := h.db.Delete(&models.Brand{}, "id = ?", id).Error; err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Homepage slots.

// SlotAssignment is one requested homepage placement.
type SlotAssignment struct {
	ID   string `json:"id"`
	Slot int    `json:"slot"`
}

// SlotOccupant is a row currently shown on the homepage.
type SlotOccupant struct {
	ID   string
	Slot int
}

// SlotChange is one row update the assignment plan requires.
type SlotChange struct {
	ID   string
	Show bool
	Slot int
}

// PlanHomepageSlots diffs the desired placements against the current
// occupants and returns the minimal set of row updates: one update per
// moved or newly placed entity, and one clearing update per occupant that
// was dropped. Unchanged occupants produce no update.
func PlanHomepageSlots(current []SlotOccupant, desired []SlotAssignment) ([]SlotChange, error) {
	seen := make(map[int]string, len(desired))
	desiredByID := make(map[string]int, len(desired))
	for _, a := range desired {
		if a.Slot < 1 || a.Slot > models.HomepageSlots {
			return nil, fmt.Errorf("slot must be between 1 and %d", models.HomepageSlots)
		}
		if prev, taken := seen[a.Slot]; taken && prev != a.ID {
			return nil, fmt.Errorf("slot %d assigned twice", a.Slot)
		}
		if _, dup := desiredByID[a.ID]; dup {
			return nil, errors.New("entity assigned to more than one slot")
		}
		seen[a.Slot] = a.ID
		desiredByID[a.ID] = a.Slot
	}

	currentByID := make(map[string]int, len(current))
	for _, occ := range current {
		currentByID[occ.ID] = occ.Slot
	}

	var changes []SlotChange
	for _, a := range desired {
		if slot, shown := currentByID[a.ID]; shown && slot == a.Slot {
			continue
		}
		changes = append(changes, SlotChange{ID: a.ID, Show: true, Slot: a.Slot})
	}
	for _, occ := range current {
		if _, kept := desiredByID[occ.ID]; !kept {
			changes = append(changes, SlotChange{ID: occ.ID, Show: false})
		}
	}
	return changes, nil
}

type homepageRequest struct {
	Brands     []SlotAssignment `json:"brands"`
	Categories []SlotAssignment `json:"categories"`
}

// UpdateHomepage applies homepage slot assignments for brands and
// categories in one transaction.
func (h *CatalogHandler) UpdateHomepage(c *fiber.Ctx) error {
	var req homepageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := applySlotPlan(tx, &models.Brand{}, req.Brands); err != nil {
			return err
		}
		return applySlotPlan(tx, &models.Category{}, req.Categories)
	})
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return fe
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}

func applySlotPlan(tx *gorm.DB, model interface{}, desired []SlotAssignment) error {
	if desired == nil {
		return nil
	}

	type occupantRow struct {
		ID            uuid.UUID
		HomepageOrder int
	}
	var rows []occupantRow
	if err := tx.Model(model).
		Where("show_on_homepage = ?", true).
		Select("id, homepage_order").
		Scan(&rows).Error; err != nil {
		return err
	}

	current := make([]SlotOccupant, 0, len(rows))
	for _, row := range rows {
		current = append(current, SlotOccupant{ID: row.ID.String(), Slot: row.HomepageOrder})
	}

	changes, err := PlanHomepageSlots(current, desired)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	for _, change := range changes {
		updates := map[string]interface{}{
			"show_on_homepage": change.Show,
			"homepage_order":   change.Slot,
		}
		if err := tx.Model(model).Where("id = ?", change.ID).Updates(updates).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetHomepage returns the active homepage placements for the storefront.
func (h *CatalogHandler) GetHomepage(c *fiber.Ctx) error {
	var brands []models.Brand
	if err := h.db.Where("show_on_homepage = ? AND is_active = ?", true, true).
		Order("homepage_order asc").Find(&brands).Error; err != nil {
		return err
	}

	var categories []models.Category
	if err := h.db.Where("show_on_homepage = ? AND is_active = ?", true, true).
		Order("homepage_order asc").Find(&categories).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"brands":     brands,
			"categories": categories,
		},
	})
}
