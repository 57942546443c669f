package api

// GetMonthlySettlementRequest selects the month to settle.
// Month and Year default to the current month when zero.
type GetMonthlySettlementRequest struct {
	GroupID string `json:"groupId"`
	Month   int    `json:"month,omitempty"`
	Year    int    `json:"year,omitempty"`
}

type GetMonthlySettlementResponse struct {
	Report *SettlementReport `json:"report"`
}

type ListExpensePaymentsRequest struct {
	GroupID string `json:"groupId"`
	Month   int    `json:"month,omitempty"`
	Year    int    `json:"year,omitempty"`
}

type ListExpensePaymentsResponse struct {
	Payments []*ExpensePayment `json:"payments"`
}

type RecordExpensePaymentRequest struct {
	GroupID   string  `json:"groupId"`
	ExpenseID string  `json:"expenseId"`
	Month     int     `json:"month"`
	Year      int     `json:"year"`
	Amount    float64 `json:"amount"`
}

type RecordExpensePaymentResponse struct {
	PaymentID        string `json:"paymentId"`
	OneTimeExpenseID string `json:"oneTimeExpenseId"`
	// Updated is true when a payment for the same expense and month already existed.
	Updated bool `json:"updated"`
}

type DeleteExpensePaymentRequest struct {
	GroupID   string `json:"groupId"`
	PaymentID string `json:"paymentId"`
}

type DeleteExpensePaymentResponse struct{}

type ListPaymentsRequest struct {
	GroupID string `json:"groupId"`
	Month   int    `json:"month,omitempty"`
	Year    int    `json:"year,omitempty"`
}

type ListPaymentsResponse struct {
	Payments []*Payment `json:"payments"`
}

type RecordPaymentRequest struct {
	GroupID     string  `json:"groupId"`
	MemberID    string  `json:"memberId"`
	Month       int     `json:"month"`
	Year        int     `json:"year"`
	AmountPaid  float64 `json:"amountPaid"`
	IsConfirmed bool    `json:"isConfirmed,omitempty"`
}

type RecordPaymentResponse struct {
	Payment *Payment `json:"payment"`
}

type ConfirmPaymentRequest struct {
	GroupID     string `json:"groupId"`
	PaymentID   string `json:"paymentId"`
	IsConfirmed bool   `json:"isConfirmed"`
}

type ConfirmPaymentResponse struct {
	Payment *Payment `json:"payment"`
}

type DeletePaymentRequest struct {
	GroupID   string `json:"groupId"`
	PaymentID string `json:"paymentId"`
}

type DeletePaymentResponse struct{}
