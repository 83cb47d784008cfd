package core

import "testing"

func TestPeriodWindowMonthly(t *testing.T) {
	cases := []struct {
		name      string
		d         Date
		wantFirst Date
		wantLast  Date
	}{
		{"mid january", NewDate(2025, 1, 15), NewDate(2025, 1, 1), NewDate(2025, 1, 31)},
		{"last day of 31-day month", NewDate(2025, 3, 31), NewDate(2025, 3, 1), NewDate(2025, 3, 31)},
		{"30-day month", NewDate(2025, 4, 10), NewDate(2025, 4, 1), NewDate(2025, 4, 30)},
		{"february non-leap", NewDate(2025, 2, 28), NewDate(2025, 2, 1), NewDate(2025, 2, 28)},
		{"february leap year", NewDate(2024, 2, 5), NewDate(2024, 2, 1), NewDate(2024, 2, 29)},
		{"december", NewDate(2025, 12, 31), NewDate(2025, 12, 1), NewDate(2025, 12, 31)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := PeriodWindow(Monthly, tc.d)
			if !w.First.Equal(tc.wantFirst.Time) {
				t.Fatalf("first: got %v want %v", w.First, tc.wantFirst)
			}
			if !w.Last.Equal(tc.wantLast.Time) {
				t.Fatalf("last: got %v want %v", w.Last, tc.wantLast)
			}
		})
	}
}

func TestWindowContains(t *testing.T) {
	w := PeriodWindow(Monthly, NewDate(2025, 1, 15))
	if !w.Contains(NewDate(2025, 1, 1)) {
		t.Fatalf("first day should be inside")
	}
	if !w.Contains(NewDate(2025, 1, 31)) {
		t.Fatalf("last day of 31-day month should be inside")
	}
	if w.Contains(NewDate(2025, 2, 1)) {
		t.Fatalf("first day of next month should be outside")
	}
	if w.Contains(NewDate(2024, 12, 31)) {
		t.Fatalf("last day of previous month should be outside")
	}
}

func TestMonthsBack(t *testing.T) {
	got := MonthsBack(NewDate(2025, 3, 20), 6)
	if want := NewDate(2024, 10, 1); !got.Equal(want.Time) {
		t.Fatalf("got %v want %v", got, want)
	}
	// n=1 anchors at the first of the same month
	got = MonthsBack(NewDate(2025, 3, 20), 1)
	if want := NewDate(2025, 3, 1); !got.Equal(want.Time) {
		t.Fatalf("got %v want %v", got, want)
	}
}
