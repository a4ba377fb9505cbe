package domain

import "testing"

func TestPageRequestDefaultsAndOffset(t *testing.T) {
	p := PageRequest{}.WithDefaults()
	if p.Page != 1 || p.Limit != 10 || p.Offset() != 0 {
		t.Fatalf("unexpected defaults %+v offset=%d", p, p.Offset())
	}
	if got := (PageRequest{Page: 3, Limit: 10}).Offset(); got != 20 {
		t.Fatalf("expected offset 20, got %d", got)
	}
}

func TestNewAttemptPageTotalPages(t *testing.T) {
	cases := []struct{ total, limit, want int }{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{25, 10, 3},
		{51, 50, 2},
	}
	for _, tc := range cases {
		page := NewAttemptPage(nil, tc.total, PageRequest{Page: 1, Limit: tc.limit})
		if page.TotalPages != tc.want {
			t.Fatalf("total=%d limit=%d: expected %d pages, got %d", tc.total, tc.limit, tc.want, page.TotalPages)
		}
		if page.Attempts == nil {
			t.Fatalf("expected empty slice, got nil")
		}
	}
}
