package calculator

import (
	"testing"

	"github.com/mmynk/famiglia/internal/models"
)

func intPtr(v int) *int { return &v }

func TestIsActiveForMonth(t *testing.T) {
	openEnded := ActivityWindow{IsActive: true, StartMonth: intPtr(3), StartYear: intPtr(2024)}
	bounded := ActivityWindow{
		IsActive:   true,
		StartMonth: intPtr(6), StartYear: intPtr(2023),
		EndMonth: intPtr(2), EndYear: intPtr(2024),
	}

	tests := []struct {
		name   string
		window ActivityWindow
		month  int
		year   int
		want   bool
	}{
		{"start month itself", openEnded, 3, 2024, true},
		{"later year", openEnded, 1, 2025, true},
		{"month before start", openEnded, 2, 2024, false},
		{"end month is inclusive", bounded, 2, 2024, true},
		{"after end", bounded, 3, 2024, false},
		{"inside bounds across year", bounded, 12, 2023, true},
		{"before bounded start", bounded, 5, 2023, false},
		{"no bounds is always active", ActivityWindow{IsActive: true}, 7, 2031, true},
		{"inactive flag wins", ActivityWindow{IsActive: false}, 7, 2031, false},
		{"half start bound is ignored", ActivityWindow{IsActive: true, StartMonth: intPtr(12)}, 1, 2001, true},
		{"half end bound is ignored", ActivityWindow{IsActive: true, EndYear: intPtr(2020)}, 1, 2030, true},
		{"open start sentinel", ActivityWindow{IsActive: true}, 12, 1999, false},
		{"open end sentinel", ActivityWindow{IsActive: true}, 1, 2101, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsActiveForMonth(tt.window, tt.month, tt.year); got != tt.want {
				t.Errorf("IsActiveForMonth(%d/%d) = %v, want %v", tt.month, tt.year, got, tt.want)
			}
		})
	}
}

func TestFilters(t *testing.T) {
	expenses := []*models.RecurringExpense{
		{ID: "always", IsActive: true},
		{ID: "future", IsActive: true, StartMonth: intPtr(1), StartYear: intPtr(2030)},
		{ID: "disabled", IsActive: false},
	}

	windowed := FilterActiveForMonth(expenses, 5, 2025)
	if len(windowed) != 1 || windowed[0].ID != "always" {
		t.Errorf("FilterActiveForMonth: got %v, want only 'always'", ids(windowed))
	}

	flagged := FilterFlaggedActive(expenses)
	if len(flagged) != 2 {
		t.Errorf("FilterFlaggedActive: got %v, want 'always' and 'future'", ids(flagged))
	}
}

func ids(expenses []*models.RecurringExpense) []string {
	out := make([]string, len(expenses))
	for i, e := range expenses {
		out[i] = e.ID
	}
	return out
}
