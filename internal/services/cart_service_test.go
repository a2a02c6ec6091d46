package services

import "testing"

func TestCartUpsert(t *testing.T) {
	cart := &Cart{}

	cart.Upsert(CartItem{ProductID: "p1", Quantity: 2, UnitPrice: 10})
	cart.Upsert(CartItem{ProductID: "p1", VariantID: "v1", Quantity: 1, UnitPrice: 12})
	if len(cart.Items) != 2 {
		t.Fatalf("items = %d, want 2 (variant lines are distinct)", len(cart.Items))
	}

	// Same product/variant pair replaces the existing line.
	cart.Upsert(CartItem{ProductID: "p1", Quantity: 5, UnitPrice: 10})
	if len(cart.Items) != 2 {
		t.Fatalf("items = %d after replace, want 2", len(cart.Items))
	}
	if cart.Items[0].Quantity != 5 {
		t.Errorf("quantity = %d, want 5", cart.Items[0].Quantity)
	}
}

func TestCartRemove(t *testing.T) {
	cart := &Cart{Items: []CartItem{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "p2", VariantID: "v1", Quantity: 2},
	}}

	if !cart.Remove("p2", "v1") {
		t.Fatal("expected removal of existing line")
	}
	if cart.Remove("p2", "v1") {
		t.Fatal("removing a missing line should report false")
	}
	if len(cart.Items) != 1 || cart.Items[0].ProductID != "p1" {
		t.Errorf("unexpected items after remove: %+v", cart.Items)
	}
}

func TestComputeTotals(t *testing.T) {
	cart := &Cart{Items: []CartItem{
		{ProductID: "p1", UnitPrice: 10, Quantity: 3},
		{ProductID: "p2", UnitPrice: 25, Quantity: 1},
	}}

	totals := ComputeTotals(cart, 5, 4)
	if totals.Subtotal != 55 {
		t.Errorf("subtotal = %v, want 55", totals.Subtotal)
	}
	if totals.ItemCount != 4 {
		t.Errorf("item count = %v, want 4", totals.ItemCount)
	}
	if totals.DiscountAmount != 5 {
		t.Errorf("discount = %v, want 5", totals.DiscountAmount)
	}
	if totals.TotalAmount != 54 {
		t.Errorf("total = %v, want 54", totals.TotalAmount)
	}
}

func TestComputeTotalsClampsDiscount(t *testing.T) {
	cart := &Cart{Items: []CartItem{{ProductID: "p1", UnitPrice: 10, Quantity: 1}}}

	totals := ComputeTotals(cart, 100, 0)
	if totals.DiscountAmount != 10 {
		t.Errorf("discount = %v, want clamped 10", totals.DiscountAmount)
	}
	if totals.TotalAmount != 0 {
		t.Errorf("total = %v, want 0", totals.TotalAmount)
	}

	totals = ComputeTotals(cart, -3, 0)
	if totals.DiscountAmount != 0 || totals.TotalAmount != 10 {
		t.Errorf("negative discount not ignored: %+v", totals)
	}
}

func TestComputeTotalsEmptyCart(t *testing.T) {
	totals := ComputeTotals(&Cart{}, 10, 5)
	if totals.Subtotal != 0 || totals.DiscountAmount != 0 {
		t.Errorf("empty cart totals = %+v", totals)
	}
	if totals.TotalAmount != 5 {
		t.Errorf("total = %v, want shipping only", totals.TotalAmount)
	}
}
