package utils

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Summer Dresses", "summer-dresses"},
		{"  Trimmed  ", "trimmed"},
		{"Tops & Tees", "tops-tees"},
		{"Size 42", "size-42"},
		{"multi---dash!!name", "multi-dash-name"},
		{"UPPER", "upper"},
		{"", ""},
		{"!!!", ""},
	}

	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
