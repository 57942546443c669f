package api

// User is a registered account.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	CreatedAt   int64  `json:"createdAt"`
}

type Group struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"ownerId"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

type Member struct {
	ID           string  `json:"id"`
	GroupID      string  `json:"groupId"`
	UserID       string  `json:"userId,omitempty"`
	Name         string  `json:"name"`
	QuotaPercent float64 `json:"quotaPercent"`
	CreatedAt    int64   `json:"createdAt"`
}

type Category struct {
	ID        string `json:"id"`
	GroupID   string `json:"groupId"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	Color     string `json:"color"`
	CreatedAt int64  `json:"createdAt"`
}

// RecurringExpense is a repeating bill. MonthlyAmount is derived from Amount and the frequency.
type RecurringExpense struct {
	ID             string    `json:"id"`
	GroupID        string    `json:"groupId"`
	CategoryID     string    `json:"categoryId,omitempty"`
	Category       *Category `json:"category,omitempty"`
	Name           string    `json:"name"`
	Amount         float64   `json:"amount"`
	MonthlyAmount  float64   `json:"monthlyAmount"`
	FrequencyType  string    `json:"frequencyType"`
	FrequencyValue int       `json:"frequencyValue"`
	DayOfMonth     *int      `json:"dayOfMonth,omitempty"`
	IsActive       bool      `json:"isActive"`
	StartMonth     *int      `json:"startMonth,omitempty"`
	StartYear      *int      `json:"startYear,omitempty"`
	EndMonth       *int      `json:"endMonth,omitempty"`
	EndYear        *int      `json:"endYear,omitempty"`
	CreatedAt      int64     `json:"createdAt"`
	UpdatedAt      int64     `json:"updatedAt"`

	// ActiveForMonth reports whether the expense applies to the listed month.
	ActiveForMonth bool `json:"activeForMonth"`
}

type OneTimeExpense struct {
	ID               string  `json:"id"`
	GroupID          string  `json:"groupId"`
	ExpenseID        string  `json:"expenseId,omitempty"`
	ExpensePaymentID string  `json:"expensePaymentId,omitempty"`
	CategoryID       string  `json:"categoryId,omitempty"`
	Name             string  `json:"name"`
	Amount           float64 `json:"amount"`
	Date             int64   `json:"date"`
	Month            int     `json:"month"`
	Year             int     `json:"year"`
	IsPaid           bool    `json:"isPaid"`
	ReceiptText      *string `json:"receiptText,omitempty"`
	CreatedAt        int64   `json:"createdAt"`
}

// ExpensePayment records that a recurring expense was paid for a month.
type ExpensePayment struct {
	ID        string  `json:"id"`
	GroupID   string  `json:"groupId"`
	ExpenseID string  `json:"expenseId"`
	Month     int     `json:"month"`
	Year      int     `json:"year"`
	Amount    float64 `json:"amount"`
	PaidAt    int64   `json:"paidAt"`

	// Expense is populated by ListExpensePayments.
	Expense *RecurringExpense `json:"expense,omitempty"`
}

// Payment is one member's contribution towards their monthly share.
type Payment struct {
	ID          string  `json:"id"`
	GroupID     string  `json:"groupId"`
	MemberID    string  `json:"memberId"`
	ExpenseID   string  `json:"expenseId,omitempty"`
	Month       int     `json:"month"`
	Year        int     `json:"year"`
	AmountPaid  float64 `json:"amountPaid"`
	IsConfirmed bool    `json:"isConfirmed"`
	ConfirmedAt int64   `json:"confirmedAt,omitempty"`
	CreatedAt   int64   `json:"createdAt"`
}

type MemberQuota struct {
	Member     *Member `json:"member"`
	Calculated float64 `json:"calculated"`
	Paid       float64 `json:"paid"`
	Confirmed  bool    `json:"confirmed"`
	Progress   float64 `json:"progress"`
}

type CategoryTotal struct {
	Total float64 `json:"total"`
	Color string  `json:"color"`
}

// SettlementReport is the monthly snapshot of a group's shared expenses.
type SettlementReport struct {
	GroupID            string                    `json:"groupId"`
	Month              int                       `json:"month"`
	Year               int                       `json:"year"`
	TotalMonthly       float64                   `json:"totalMonthly"`
	TotalPaid          float64                   `json:"totalPaid"`
	Remaining          float64                   `json:"remaining"`
	MemberQuotas       []*MemberQuota            `json:"memberQuotas"`
	ExpensesByCategory map[string]*CategoryTotal `json:"expensesByCategory"`
	Expenses           []*RecurringExpense       `json:"expenses"`
	Payments           []*Payment                `json:"payments"`
}
