package feed

import (
	"testing"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name       string
		total      int64
		size       int
		page       int
		wantPages  int
		wantNumber int
		wantOffset int
	}{
		{
			name:  "13 posts page 1 of size 10",
			total: 13, size: 10, page: 1,
			wantPages: 2, wantNumber: 1, wantOffset: 0,
		},
		{
			name:  "13 posts page 2 of size 10",
			total: 13, size: 10, page: 2,
			wantPages: 2, wantNumber: 2, wantOffset: 10,
		},
		{
			name:  "exact multiple",
			total: 20, size: 10, page: 2,
			wantPages: 2, wantNumber: 2, wantOffset: 10,
		},
		{
			name:  "page past the end clamps to last",
			total: 13, size: 10, page: 99,
			wantPages: 2, wantNumber: 2, wantOffset: 10,
		},
		{
			name:  "page below 1 clamps to first",
			total: 13, size: 10, page: 0,
			wantPages: 2, wantNumber: 1, wantOffset: 0,
		},
		{
			name:  "negative page clamps to first",
			total: 13, size: 10, page: -3,
			wantPages: 2, wantNumber: 1, wantOffset: 0,
		},
		{
			name:  "empty result is one empty page",
			total: 0, size: 10, page: 1,
			wantPages: 1, wantNumber: 1, wantOffset: 0,
		},
		{
			name:  "empty result with out-of-range page",
			total: 0, size: 10, page: 7,
			wantPages: 1, wantNumber: 1, wantOffset: 0,
		},
		{
			name:  "single short page",
			total: 3, size: 10, page: 1,
			wantPages: 1, wantNumber: 1, wantOffset: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages, number, offset := paginate(tt.total, tt.size, tt.page)
			if pages != tt.wantPages {
				t.Errorf("paginate() pages = %d, want %d", pages, tt.wantPages)
			}
			if number != tt.wantNumber {
				t.Errorf("paginate() number = %d, want %d", number, tt.wantNumber)
			}
			if offset != tt.wantOffset {
				t.Errorf("paginate() offset = %d, want %d", offset, tt.wantOffset)
			}
		})
	}
}

func TestPageNavigation(t *testing.T) {
	first := &Page{Number: 1, TotalPages: 2}
	if !first.HasNext() {
		t.Error("first of two pages should have a next page")
	}
	if first.HasPrev() {
		t.Error("first page should not have a previous page")
	}

	last := &Page{Number: 2, TotalPages: 2}
	if last.HasNext() {
		t.Error("last page should not have a next page")
	}
	if !last.HasPrev() {
		t.Error("second page should have a previous page")
	}

	only := &Page{Number: 1, TotalPages: 1}
	if only.HasNext() || only.HasPrev() {
		t.Error("a single page has no neighbours")
	}
}

func TestIndexCacheKey(t *testing.T) {
	key1 := indexCacheKey(1, 10)
	key2 := indexCacheKey(2, 10)
	key3 := indexCacheKey(1, 20)

	if key1 == key2 {
		t.Error("different pages must use different snapshot keys")
	}
	if key1 == key3 {
		t.Error("different page sizes must use different snapshot keys")
	}
	if key1 != indexCacheKey(1, 10) {
		t.Error("snapshot key must be stable")
	}
}
