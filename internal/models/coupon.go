package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Coupon discount types.
const (
	CouponTypePercentage = "percentage"
	CouponTypeFlat       = "flat"
)

// Coupon eligibility errors, surfaced to clients as 400 messages.
var (
	ErrCouponInactive      = errors.New("coupon is not active")
	ErrCouponNotStarted    = errors.New("coupon is not yet valid")
	ErrCouponExpired       = errors.New("coupon has expired")
	ErrCouponExhausted     = errors.New("coupon usage limit reached")
	ErrCouponUserLimit     = errors.New("coupon usage limit reached for this user")
	ErrCouponMinOrder      = errors.New("order total is below the coupon minimum")
	ErrCouponNotApplicable = errors.New("coupon does not apply to any item in the cart")
)

type Coupon struct {
	BaseModel
	Code                 string         `gorm:"uniqueIndex" json:"code"`
	Type                 string         `json:"type"`
	Value                float64        `json:"value"`
	MaxDiscount          float64        `json:"max_discount"`
	MinOrderValue        float64        `json:"min_order_value"`
	StartDate            time.Time      `json:"start_date"`
	ExpiryDate           time.Time      `json:"expiry_date"`
	UsageLimit           int            `json:"usage_limit"`
	PerUserLimit         int            `json:"per_user_limit"`
	UsedCount            int            `json:"used_count"`
	Active               bool           `gorm:"default:true" json:"active"`
	ApplicableProducts   pq.StringArray `gorm:"type:text[]" json:"applicable_products"`
	ApplicableCategories pq.StringArray `gorm:"type:text[]" json:"applicable_categories"`
	ApplicableBrands     pq.StringArray `gorm:"type:text[]" json:"applicable_brands"`
}

// CouponRedemption records one use of a coupon by a user.
type CouponRedemption struct {
	BaseModel
	CouponID uuid.UUID  `gorm:"type:uuid;index" json:"coupon_id"`
	UserID   uuid.UUID  `gorm:"type:uuid;index" json:"user_id"`
	OrderID  *uuid.UUID `gorm:"type:uuid" json:"order_id"`
}

// CouponItem is the slice of a cart a coupon is matched against.
type CouponItem struct {
	ProductID  string
	CategoryID string
	BrandID    string
	LineTotal  float64
}

// UsableAt checks the time window, active flag, and usage limits.
// priorUserUses is how many times the requesting user has already
// redeemed this coupon.
func (c *Coupon) UsableAt(now time.Time, priorUserUses int) error {
	if !c.Active {
		return ErrCouponInactive
	}
	if !c.StartDate.IsZero() && now.Before(c.StartDate) {
		return ErrCouponNotStarted
	}
	if !c.ExpiryDate.IsZero() && now.After(c.ExpiryDate) {
		return ErrCouponExpired
	}
	if c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit {
		return ErrCouponExhausted
	}
	if c.PerUserLimit > 0 && priorUserUses >= c.PerUserLimit {
		return ErrCouponUserLimit
	}
	return nil
}

// EligibleSubtotal sums the line totals of items the coupon's scope covers.
// Empty scope lists mean the coupon applies to everything.
func (c *Coupon) EligibleSubtotal(items []CouponItem) float64 {
	unscoped := len(c.ApplicableProducts) == 0 &&
		len(c.ApplicableCategories) == 0 &&
		len(c.ApplicableBrands) == 0

	var eligible float64
	for _, item := range items {
		if unscoped ||
			containsID(c.ApplicableProducts, item.ProductID) ||
			containsID(c.ApplicableCategories, item.CategoryID) ||
			containsID(c.ApplicableBrands, item.BrandID) {
			eligible += item.LineTotal
		}
	}
	return eligible
}

// DiscountFor computes the discount against an eligible subtotal. The
// result never exceeds the eligible amount.
func (c *Coupon) DiscountFor(eligible float64) float64 {
	if eligible <= 0 {
		return 0
	}

	var discount float64
	switch c.Type {
	case CouponTypePercentage:
		discount = eligible * c.Value / 100
		if c.MaxDiscount > 0 && discount > c.MaxDiscount {
			discount = c.MaxDiscount
		}
	case CouponTypeFlat:
		discount = c.Value
	default:
		return 0
	}

	if discount > eligible {
		discount = eligible
	}
	return discount
}

// Apply runs the full eligibility pipeline and returns the discount for
// the given cart items. The coupon row is not mutated.
func (c *Coupon) Apply(now time.Time, priorUserUses int, items []CouponItem) (float64, error) {
	if err := c.UsableAt(now, priorUserUses); err != nil {
		return 0, err
	}

	var subtotal float64
	for _, item := range items {
		subtotal += item.LineTotal
	}
	if c.MinOrderValue > 0 && subtotal < c.MinOrderValue {
		return 0, ErrCouponMinOrder
	}

	eligible := c.EligibleSubtotal(items)
	if eligible <= 0 {
		return 0, ErrCouponNotApplicable
	}

	return c.DiscountFor(eligible), nil
}

func containsID(list pq.StringArray, id string) bool {
	if id == "" {
		return false
	}
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
