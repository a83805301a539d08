package listutil

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParsePageParams(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  PageParams
	}{
		{"defaults", "", PageParams{Page: 1, PerPage: DefaultPerPage}},
		{"valid", "page=3&per_page=50", PageParams{Page: 3, PerPage: 50}},
		{"negative page", "page=-2", PageParams{Page: 1, PerPage: DefaultPerPage}},
		{"garbage", "page=x&per_page=y", PageParams{Page: 1, PerPage: DefaultPerPage}},
		{"per page capped", "per_page=5000", PageParams{Page: 1, PerPage: MaxPerPage}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			if got := ParsePageParams(q); got != tt.want {
				t.Errorf("ParsePageParams(%q) = %+v, want %+v", tt.query, got, tt.want)
			}
		})
	}
}

func TestParseFilterParams(t *testing.T) {
	q := url.Values{
		"status": {" Lead "},
		"email":  {""},
		"admin":  {"true"},
	}
	got := ParseFilterParams(q, []string{"status", "email"})
	if diff := cmp.Diff(FilterParams{"status": "Lead"}, got); diff != "" {
		t.Errorf("filters mismatch (-want +got):\n%s", diff)
	}
}

func TestNewPageInfo(t *testing.T) {
	tests := []struct {
		name                 string
		page, perPage, total int
		wantPage, wantPages  int
		wantOffset           int
	}{
		{"empty", 1, 20, 0, 1, 1, 0},
		{"exact fit", 2, 10, 20, 2, 2, 10},
		{"partial last page", 3, 10, 25, 3, 3, 20},
		{"page past end clamps", 9, 10, 25, 3, 3, 20},
		{"zero per page uses default", 1, 0, 45, 1, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pi := NewPageInfo(tt.page, tt.perPage, tt.total)
			if pi.Page != tt.wantPage || pi.TotalPages != tt.wantPages || pi.Offset() != tt.wantOffset {
				t.Errorf("NewPageInfo(%d, %d, %d) = %+v offset %d", tt.page, tt.perPage, tt.total, pi, pi.Offset())
			}
		})
	}
}
