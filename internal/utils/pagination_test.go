package utils

import "testing"

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name       string
		page       string
		limit      string
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", "", 1, 20, 0},
		{"explicit", "3", "10", 3, 10, 20},
		{"zero page", "0", "10", 1, 10, 0},
		{"negative", "-2", "-5", 1, 20, 0},
		{"garbage", "abc", "xyz", 1, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pg := NewPagination(tt.page, tt.limit)
			if pg.Page != tt.wantPage || pg.Limit != tt.wantLimit || pg.Offset != tt.wantOffset {
				t.Errorf("got page=%d limit=%d offset=%d, want page=%d limit=%d offset=%d",
					pg.Page, pg.Limit, pg.Offset, tt.wantPage, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		limit int
		total int64
		want  int
	}{
		{20, 0, 0},
		{20, 1, 1},
		{20, 20, 1},
		{20, 21, 2},
		{10, 95, 10},
	}

	for _, tt := range tests {
		pg := Pagination{Limit: tt.limit}
		if got := pg.TotalPages(tt.total); got != tt.want {
			t.Errorf("TotalPages(%d) with limit %d = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}
