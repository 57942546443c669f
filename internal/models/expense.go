package models

// FrequencyType describes how often a recurring expense repeats.
type FrequencyType string

const (
	FrequencyWeekly  FrequencyType = "weekly"
	FrequencyMonthly FrequencyType = "monthly"
	FrequencyYearly  FrequencyType = "yearly"
	// FrequencyDays repeats every FrequencyValue days.
	FrequencyDays FrequencyType = "days"
	// FrequencyMonths repeats every FrequencyValue months.
	FrequencyMonths FrequencyType = "months"
)

// RecurringExpense represents a bill that repeats with a given frequency.
// Amount is always expressed per cycle; the monthly equivalent is derived.
type RecurringExpense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// CategoryID is optional. Empty means uncategorized.
	CategoryID string

	// Name is the description of the bill (e.g., "Luce", "Affitto").
	Name string

	// Amount is the per-cycle amount.
	Amount float64

	// FrequencyType and FrequencyValue together define the cycle.
	// FrequencyValue is only meaningful for "days" and "months".
	FrequencyType  FrequencyType
	FrequencyValue int

	// DayOfMonth is an informational hint for when the bill is usually due.
	DayOfMonth *int

	// IsActive disables the expense entirely when false.
	IsActive bool

	// StartMonth/StartYear and EndMonth/EndYear bound the months the expense applies to.
	// A bound is open when either of its two fields is nil.
	StartMonth *int
	StartYear  *int
	EndMonth   *int
	EndYear    *int

	CreatedAt int64
	UpdatedAt int64
}

// OneTimeExpense represents a single dated expense.
// It is either entered by hand or generated as the mirror of an ExpensePayment.
type OneTimeExpense struct {
	ID      string
	GroupID string

	// ExpenseID links back to the recurring expense this one settles, if any.
	ExpenseID string

	// ExpensePaymentID is set only on mirrors generated when a recurring expense is paid.
	ExpensePaymentID string

	CategoryID string
	Name       string
	Amount     float64

	// Date is the Unix timestamp of the expense.
	Date int64

	// Month (1-12) and Year identify the monthly bucket.
	Month int
	Year  int

	IsPaid bool

	// ReceiptText is the text extracted from an uploaded receipt image.
	ReceiptText *string

	CreatedAt int64
}
