package calculator

import "github.com/mmynk/famiglia/internal/models"

// Open bounds used when an expense has no start or end.
const (
	openStartYear  = 2000
	openStartMonth = 1
	openEndYear    = 2100
	openEndMonth   = 12
)

// ActivityWindow holds the fields that decide whether a recurring expense applies to a month.
type ActivityWindow struct {
	IsActive   bool
	StartMonth *int
	StartYear  *int
	EndMonth   *int
	EndYear    *int
}

// WindowOf extracts the activity window of a recurring expense.
func WindowOf(e *models.RecurringExpense) ActivityWindow {
	return ActivityWindow{
		IsActive:   e.IsActive,
		StartMonth: e.StartMonth,
		StartYear:  e.StartYear,
		EndMonth:   e.EndMonth,
		EndYear:    e.EndYear,
	}
}

// IsActiveForMonth reports whether the window covers (month, year).
// Comparison is at month granularity; both bounds are inclusive.
func IsActiveForMonth(w ActivityWindow, month, year int) bool {
	if !w.IsActive {
		return false
	}

	start := monthIndex(openStartYear, openStartMonth)
	if w.StartYear != nil && w.StartMonth != nil {
		start = monthIndex(*w.StartYear, *w.StartMonth)
	}

	end := monthIndex(openEndYear, openEndMonth)
	if w.EndYear != nil && w.EndMonth != nil {
		end = monthIndex(*w.EndYear, *w.EndMonth)
	}

	current := monthIndex(year, month)
	return current >= start && current <= end
}

// FilterActiveForMonth returns the expenses whose full activity window covers (month, year).
func FilterActiveForMonth(expenses []*models.RecurringExpense, month, year int) []*models.RecurringExpense {
	var active []*models.RecurringExpense
	for _, e := range expenses {
		if IsActiveForMonth(WindowOf(e), month, year) {
			active = append(active, e)
		}
	}
	return active
}

// FilterFlaggedActive returns the expenses with IsActive set, ignoring start/end bounds.
// The settlement report counts expenses this way.
func FilterFlaggedActive(expenses []*models.RecurringExpense) []*models.RecurringExpense {
	var active []*models.RecurringExpense
	for _, e := range expenses {
		if e.IsActive {
			active = append(active, e)
		}
	}
	return active
}

// monthIndex maps (year, month) to a comparable count of months, like the first day of that month.
// Out-of-range months roll over into the neighbouring year.
func monthIndex(year, month int) int {
	return year*12 + (month - 1)
}
