package http

import (
	"testing"

	"expenses/internal/core"
)

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  hello  ", "hello"},
		{"tab\tkept", "tab\tkept"},
		{"nul\x00removed", "nulremoved"},
		{"bell\x07gone", "bellgone"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2025-03-31")
	if err != nil {
		t.Fatalf("parseDate: %v", err)
	}
	if d.Year() != 2025 || d.Month() != 3 || d.Day() != 31 {
		t.Fatalf("got %v", d)
	}

	for _, bad := range []string{"", "31-03-2025", "2025/03/31", "2025-13-01", "yesterday"} {
		if _, err := parseDate(bad); err == nil {
			t.Errorf("parseDate(%q) accepted", bad)
		}
	}
}

func TestFormatDollars(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "$0.00"},
		{5, "$0.05"},
		{12345, "$123.45"},
		{50000, "$500.00"},
	}
	for _, tt := range tests {
		if got := formatDollars(core.Money{Cents: tt.cents}); got != tt.want {
			t.Errorf("formatDollars(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestMonthLabels(t *testing.T) {
	labels := monthLabels(core.NewDate(2024, 11, 1), core.NewDate(2025, 2, 15))
	want := []string{"2024-11", "2024-12", "2025-01", "2025-02"}
	if len(labels) != len(want) {
		t.Fatalf("labels=%v, want %v", labels, want)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Fatalf("labels[%d]=%q, want %q", i, labels[i], want[i])
		}
	}
}
