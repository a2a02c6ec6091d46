package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CartItem is one line of a user's cart. Prices are copied from the
// catalog at add time and re-validated at checkout.
type CartItem struct {
	ProductID   string  `json:"product_id"`
	VariantID   string  `json:"variant_id,omitempty"`
	CategoryID  string  `json:"category_id,omitempty"`
	BrandID     string  `json:"brand_id,omitempty"`
	Title       string  `json:"title"`
	VariantName string  `json:"variant_name,omitempty"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
	Image       string  `json:"image"`
}

// Cart is the per-user cart document stored in Redis. Totals are never
// stored; they are recomputed server-side on every read.
type Cart struct {
	Items      []CartItem `json:"items"`
	CouponCode string     `json:"coupon_code,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// CartTotals is the server-computed money view of a cart.
type CartTotals struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	ShippingFee    float64 `json:"shipping_fee"`
	TotalAmount    float64 `json:"total_amount"`
	ItemCount      int     `json:"item_count"`
}

// Upsert adds the item or, when the product/variant pair is already
// present, replaces its quantity.
func (c *Cart) Upsert(item CartItem) {
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID && c.Items[i].VariantID == item.VariantID {
			c.Items[i] = item
			return
		}
	}
	c.Items = append(c.Items, item)
}

// Remove deletes a line from the cart and reports whether it was present.
func (c *Cart) Remove(productID, variantID string) bool {
	for i := range c.Items {
		if c.Items[i].ProductID == productID && c.Items[i].VariantID == variantID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// ComputeTotals derives the money view of the cart. The discount is
// clamped so the total never goes negative before shipping.
func ComputeTotals(c *Cart, discount, shippingFee float64) CartTotals {
	totals := CartTotals{ShippingFee: shippingFee}
	for _, item := range c.Items {
		totals.Subtotal += item.UnitPrice * float64(item.Quantity)
		totals.ItemCount += item.Quantity
	}

	if discount < 0 {
		discount = 0
	}
	if discount > totals.Subtotal {
		discount = totals.Subtotal
	}
	totals.DiscountAmount = discount
	totals.TotalAmount = totals.Subtotal - discount + shippingFee
	return totals
}

// CartService persists carts in Redis, one JSON document per user.
type CartService struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCartService constructs a CartService.
func NewCartService(rdb *redis.Client, ttl time.Duration) *CartService {
	return &CartService{rdb: rdb, ttl: ttl}
}

func cartKey(userID uuid.UUID) string {
	return "cart:" + userID.String()
}

// Get loads the user's cart; a missing key yields an empty cart.
func (s *CartService) Get(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	raw, err := s.rdb.Get(ctx, cartKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &Cart{}, nil
		}
		return nil, err
	}

	var cart Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		// Corrupt document: start over rather than wedging the user.
		return &Cart{}, nil
	}
	return &cart, nil
}

// Save stores the cart and refreshes its TTL.
func (s *CartService) Save(ctx context.Context, userID uuid.UUID, cart *Cart) error {
	cart.UpdatedAt = time.Now()
	raw, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, cartKey(userID), raw, s.ttl).Err()
}

// Clear removes the user's cart entirely.
func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.rdb.Del(ctx, cartKey(userID)).Err()
}
