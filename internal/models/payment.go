package models

// ExpensePayment records that a recurring expense was paid in a given month.
// There is at most one per (ExpenseID, Month, Year).
type ExpensePayment struct {
	ID        string
	GroupID   string
	ExpenseID string
	Month     int
	Year      int
	Amount    float64

	// PaidAt is the Unix timestamp of the last time the payment was recorded.
	PaidAt int64
}

// Payment represents a member's settlement payment towards their monthly share.
// Several payments per member and month are allowed; they accumulate.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// GroupID is the group this payment belongs to.
	GroupID string

	// MemberID is the member who paid.
	MemberID string

	// ExpenseID is a legacy link to a recurring expense. Usually empty.
	ExpenseID string

	// Month (1-12) and Year identify the settlement period.
	Month int
	Year  int

	// AmountPaid is the amount paid in this installment.
	AmountPaid float64

	// IsConfirmed is toggled manually by the owner. It does not affect
	// the derived per-member confirmation in the settlement report.
	IsConfirmed bool

	// ConfirmedAt is the Unix timestamp of confirmation, 0 when unconfirmed.
	ConfirmedAt int64

	// CreatedAt is the Unix timestamp when the payment was recorded.
	CreatedAt int64
}
