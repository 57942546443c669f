package service

import (
	"math"
	"time"
)

const (
	minYear = 2000
	maxYear = 2100
)

// resolvePeriod fills a zero month or year from now.
func resolvePeriod(month, year int, now time.Time) (int, int, error) {
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	return month, year, validatePeriod(month, year)
}

func validatePeriod(month, year int) error {
	var errs ValidationErrors
	if month < 1 || month > 12 {
		errs.Add("month", "must be between 1 and 12, got %d", month)
	}
	if year < minYear || year > maxYear {
		errs.Add("year", "must be between %d and %d, got %d", minYear, maxYear, year)
	}
	return errs.Err()
}

// validateAmount rejects negative, NaN and infinite amounts.
func validateAmount(errs *ValidationErrors, field string, amount float64) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		errs.Add(field, "must be a non-negative number")
	}
}

// validateBound checks an optional (month, year) pair.
func validateBound(errs *ValidationErrors, field string, month, year *int) {
	if month != nil && (*month < 1 || *month > 12) {
		errs.Add(field+"_month", "must be between 1 and 12, got %d", *month)
	}
	if year != nil && (*year < minYear || *year > maxYear) {
		errs.Add(field+"_year", "must be between %d and %d, got %d", minYear, maxYear, *year)
	}
}
