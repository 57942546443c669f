package calculator

import (
	"errors"
	"fmt"

	"github.com/mmynk/famiglia/internal/models"
)

const (
	// WeeksPerMonth is the average number of weeks in a month.
	WeeksPerMonth = 4.33

	// DaysPerMonth approximates a month for "every N days" expenses.
	DaysPerMonth = 30.0
)

var (
	ErrInvalidFrequencyValue = errors.New("frequency value must be at least 1")
	ErrUnknownFrequency      = errors.New("unknown frequency type")
)

// NormalizeMonthly converts a per-cycle amount into its monthly equivalent.
//
// Conversion rules:
//   - weekly: amount × 4.33
//   - monthly: amount
//   - yearly: amount / 12
//   - days: amount × (30 / value), i.e. "every value days"
//   - months: amount / value, i.e. "every value months"
//
// Unknown frequency types return the amount unchanged. A value below 1 is
// rejected for "days" and "months".
func NormalizeMonthly(amount float64, freq models.FrequencyType, value int) (float64, error) {
	switch freq {
	case models.FrequencyWeekly:
		return amount * WeeksPerMonth, nil
	case models.FrequencyMonthly:
		return amount, nil
	case models.FrequencyYearly:
		return amount / 12, nil
	case models.FrequencyDays:
		if value < 1 {
			return 0, fmt.Errorf("%w: got %d", ErrInvalidFrequencyValue, value)
		}
		return amount * (DaysPerMonth / float64(value)), nil
	case models.FrequencyMonths:
		if value < 1 {
			return 0, fmt.Errorf("%w: got %d", ErrInvalidFrequencyValue, value)
		}
		return amount / float64(value), nil
	default:
		return amount, nil
	}
}

// MonthlyAmount returns the monthly equivalent of a recurring expense.
func MonthlyAmount(e *models.RecurringExpense) (float64, error) {
	monthly, err := NormalizeMonthly(e.Amount, e.FrequencyType, e.FrequencyValue)
	if err != nil {
		return 0, fmt.Errorf("expense %s: %w", e.ID, err)
	}
	return monthly, nil
}

// ValidateFrequency checks a frequency before it is persisted.
// Unlike NormalizeMonthly, unknown types are rejected here.
func ValidateFrequency(freq models.FrequencyType, value int) error {
	switch freq {
	case models.FrequencyWeekly, models.FrequencyMonthly, models.FrequencyYearly:
		return nil
	case models.FrequencyDays, models.FrequencyMonths:
		if value < 1 {
			return fmt.Errorf("%w: got %d", ErrInvalidFrequencyValue, value)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFrequency, freq)
	}
}
