package handlers

import "testing"

func TestValidateVariants(t *testing.T) {
	tests := []struct {
		name     string
		hasSizes bool
		variants []variantRequest
		wantErr  bool
	}{
		{
			name:     "no sizes, no variants",
			hasSizes: false,
		},
		{
			name:     "no sizes but variants given",
			hasSizes: false,
			variants: []variantRequest{{Name: "S", IsDefault: true}},
			wantErr:  true,
		},
		{
			name:     "sized without variants",
			hasSizes: true,
			wantErr:  true,
		},
		{
			name:     "sized with one default",
			hasSizes: true,
			variants: []variantRequest{
				{Name: "S", IsDefault: true},
				{Name: "M"},
			},
		},
		{
			name:     "sized with no default",
			hasSizes: true,
			variants: []variantRequest{{Name: "S"}, {Name: "M"}},
			wantErr:  true,
		},
		{
			name:     "sized with two defaults",
			hasSizes: true,
			variants: []variantRequest{
				{Name: "S", IsDefault: true},
				{Name: "M", IsDefault: true},
			},
			wantErr: true,
		},
		{
			name:     "variant missing name",
			hasSizes: true,
			variants: []variantRequest{{IsDefault: true}},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateVariants(tt.hasSizes, tt.variants)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateVariants() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
