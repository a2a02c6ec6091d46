package models

import (
	"errors"
	"testing"
	"time"
)

func activeCoupon() Coupon {
	return Coupon{
		Code:       "SAVE10",
		Type:       CouponTypePercentage,
		Value:      10,
		StartDate:  time.Now().Add(-time.Hour),
		ExpiryDate: time.Now().Add(time.Hour),
		Active:     true,
	}
}

func TestCouponUsableAt(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		mutate    func(*Coupon)
		priorUses int
		wantErr   error
	}{
		{"valid", func(c *Coupon) {}, 0, nil},
		{"inactive", func(c *Coupon) { c.Active = false }, 0, ErrCouponInactive},
		{"not started", func(c *Coupon) { c.StartDate = now.Add(time.Hour) }, 0, ErrCouponNotStarted},
		{"expired", func(c *Coupon) { c.ExpiryDate = now.Add(-time.Minute) }, 0, ErrCouponExpired},
		{"exhausted", func(c *Coupon) { c.UsageLimit = 5; c.UsedCount = 5 }, 0, ErrCouponExhausted},
		{"under usage limit", func(c *Coupon) { c.UsageLimit = 5; c.UsedCount = 4 }, 0, nil},
		{"per-user limit hit", func(c *Coupon) { c.PerUserLimit = 2 }, 2, ErrCouponUserLimit},
		{"per-user limit remaining", func(c *Coupon) { c.PerUserLimit = 2 }, 1, nil},
		{"zero limits mean unlimited", func(c *Coupon) { c.UsedCount = 1000 }, 1000, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := activeCoupon()
			tt.mutate(&c)
			if err := c.UsableAt(now, tt.priorUses); !errors.Is(err, tt.wantErr) {
				t.Errorf("UsableAt() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCouponApplyPercentage(t *testing.T) {
	c := activeCoupon()
	items := []CouponItem{
		{ProductID: "p1", LineTotal: 60},
		{ProductID: "p2", LineTotal: 40},
	}

	discount, err := c.Apply(time.Now(), 0, items)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if discount != 10 {
		t.Errorf("discount = %v, want 10", discount)
	}
}

func TestCouponApplyPercentageCap(t *testing.T) {
	c := activeCoupon()
	c.Value = 50
	c.MaxDiscount = 20

	discount, err := c.Apply(time.Now(), 0, []CouponItem{{ProductID: "p1", LineTotal: 100}})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if discount != 20 {
		t.Errorf("discount = %v, want capped 20", discount)
	}
}

func TestCouponApplyFlatClamp(t *testing.T) {
	c := activeCoupon()
	c.Type = CouponTypeFlat
	c.Value = 50

	discount, err := c.Apply(time.Now(), 0, []CouponItem{{ProductID: "p1", LineTotal: 30}})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if discount != 30 {
		t.Errorf("discount = %v, want clamped 30", discount)
	}
}

func TestCouponApplyMinOrderValue(t *testing.T) {
	c := activeCoupon()
	c.MinOrderValue = 100

	_, err := c.Apply(time.Now(), 0, []CouponItem{{ProductID: "p1", LineTotal: 99}})
	if !errors.Is(err, ErrCouponMinOrder) {
		t.Fatalf("Apply() error = %v, want ErrCouponMinOrder", err)
	}

	if _, err := c.Apply(time.Now(), 0, []CouponItem{{ProductID: "p1", LineTotal: 100}}); err != nil {
		t.Fatalf("Apply() at exact minimum error = %v", err)
	}
}

func TestCouponScoping(t *testing.T) {
	c := activeCoupon()
	c.ApplicableCategories = []string{"cat-1"}

	items := []CouponItem{
		{ProductID: "p1", CategoryID: "cat-1", LineTotal: 50},
		{ProductID: "p2", CategoryID: "cat-2", LineTotal: 200},
	}

	// Only the cat-1 line is eligible; 10% of 50.
	discount, err := c.Apply(time.Now(), 0, items)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if discount != 5 {
		t.Errorf("discount = %v, want 5", discount)
	}
}

func TestCouponNotApplicable(t *testing.T) {
	c := activeCoupon()
	c.ApplicableBrands = []string{"brand-1"}

	_, err := c.Apply(time.Now(), 0, []CouponItem{
		{ProductID: "p1", BrandID: "brand-2", LineTotal: 100},
	})
	if !errors.Is(err, ErrCouponNotApplicable) {
		t.Fatalf("Apply() error = %v, want ErrCouponNotApplicable", err)
	}
}

func TestCouponEmptyScopeAppliesToAll(t *testing.T) {
	c := activeCoupon()

	eligible := c.EligibleSubtotal([]CouponItem{
		{ProductID: "p1", LineTotal: 25},
		{ProductID: "p2", CategoryID: "anything", LineTotal: 75},
	})
	if eligible != 100 {
		t.Errorf("eligible = %v, want 100", eligible)
	}
}

func TestCouponItemWithoutScopeIDsNeverMatches(t *testing.T) {
	c := activeCoupon()
	c.ApplicableCategories = []string{""}

	// A scoped coupon must not match items whose category is simply unset.
	eligible := c.EligibleSubtotal([]CouponItem{{ProductID: "p1", LineTotal: 40}})
	if eligible != 0 {
		t.Errorf("eligible = %v, want 0", eligible)
	}
}
