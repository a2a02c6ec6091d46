package services

import "testing"

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		amount   float64
		currency string
		want     string
	}{
		{0, "", "0 USD"},
		{999, "USD", "999 USD"},
		{1000, "USD", "1 000 USD"},
		{1234567, "EUR", "1 234 567 EUR"},
		{19.99, "USD", "19.99 USD"},
		{1000.5, "USD", "1 000.50 USD"},
	}

	for _, tt := range tests {
		if got := FormatPrice(tt.amount, tt.currency); got != tt.want {
			t.Errorf("FormatPrice(%v, %q) = %q, want %q", tt.amount, tt.currency, got, tt.want)
		}
	}
}
