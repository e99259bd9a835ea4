package listutil

import (
	"net/url"
	"testing"
)

// TestParsePageParams_Absent verifies that no paging is requested without page or per_page.
func TestParsePageParams_Absent(t *testing.T) {
	if _, ok := ParsePageParams(url.Values{}); ok {
		t.Error("expected ok=false without page params")
	}
}

// TestParsePageParams_Valid verifies correct parsing of valid page and per_page values.
func TestParsePageParams_Valid(t *testing.T) {
	p, ok := ParsePageParams(url.Values{"page": {"3"}, "per_page": {"50"}})
	if !ok {
		t.Fatal("expected ok=true")
	}
	if p.Page != 3 || p.PerPage != 50 {
		t.Errorf("got %+v, want page 3 per_page 50", p)
	}
}

// TestParsePageParams_InvalidValues verifies fallback to defaults.
func TestParsePageParams_InvalidValues(t *testing.T) {
	p, _ := ParsePageParams(url.Values{"page": {"-1"}, "per_page": {"25"}})
	if p.Page != 1 {
		t.Errorf("expected page 1 for negative input, got %d", p.Page)
	}
	if p.PerPage != DefaultPerPage {
		t.Errorf("expected default per_page %d for invalid value, got %d", DefaultPerPage, p.PerPage)
	}
}

// TestNewPageInfo verifies total pages and clamping.
func TestNewPageInfo(t *testing.T) {
	tests := []struct {
		name                   string
		page, perPage, total   int
		wantPage, wantPages    int
		wantOffset, wantEndRow int
	}{
		{"empty", 1, 10, 0, 1, 1, 0, 0},
		{"exact fit", 2, 10, 20, 2, 2, 10, 20},
		{"partial last page", 3, 10, 25, 3, 3, 20, 25},
		{"page past end clamps", 9, 10, 25, 3, 3, 20, 25},
		{"zero per page uses default", 1, 0, 5, 1, 1, 0, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewPageInfo(tt.page, tt.perPage, tt.total)
			if info.Page != tt.wantPage || info.TotalPages != tt.wantPages {
				t.Errorf("page=%d pages=%d, want %d %d", info.Page, info.TotalPages, tt.wantPage, tt.wantPages)
			}
			if info.Offset() != tt.wantOffset || info.EndRow() != tt.wantEndRow {
				t.Errorf("offset=%d end=%d, want %d %d", info.Offset(), info.EndRow(), tt.wantOffset, tt.wantEndRow)
			}
		})
	}
}

// TestPaginate verifies the slice for a middle and an empty page.
func TestPaginate(t *testing.T) {
	rows := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	got, info := Paginate(rows, PageParams{Page: 2, PerPage: 10})
	if len(got) != 2 || got[0] != 11 || info.Total != 12 {
		t.Errorf("got %v %+v", got, info)
	}

	empty, _ := Paginate([]int(nil), PageParams{Page: 1, PerPage: 10})
	if empty == nil || len(empty) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", empty)
	}
}

// TestFilterBy verifies matching and the empty filter.
func TestFilterBy(t *testing.T) {
	rows := []string{"a1", "b1", "a2"}
	first := func(s string) string { return s[:1] }
	if got := FilterBy(rows, "a", first); len(got) != 2 {
		t.Errorf("filter a: got %v", got)
	}
	if got := FilterBy(rows, "", first); len(got) != 3 {
		t.Errorf("empty filter: got %v", got)
	}
}
