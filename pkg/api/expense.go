package api

type ListCategoriesRequest struct {
	GroupID string `json:"groupId"`
}

type ListCategoriesResponse struct {
	Categories []*Category `json:"categories"`
}

type CreateCategoryRequest struct {
	GroupID string `json:"groupId"`
	Name    string `json:"name"`
	Icon    string `json:"icon,omitempty"`
	Color   string `json:"color,omitempty"`
}

type CreateCategoryResponse struct {
	Category *Category `json:"category"`
}

type DeleteCategoryRequest struct {
	GroupID    string `json:"groupId"`
	CategoryID string `json:"categoryId"`
}

type DeleteCategoryResponse struct{}

// ListRecurringExpensesRequest lists the expenses that apply to a month.
// Month and Year default to the current month when zero.
type ListRecurringExpensesRequest struct {
	GroupID string `json:"groupId"`
	Month   int    `json:"month,omitempty"`
	Year    int    `json:"year,omitempty"`
	// All returns every expense of the group, flagged with ActiveForMonth.
	All bool `json:"all,omitempty"`
}

type ListRecurringExpensesResponse struct {
	Month    int                 `json:"month"`
	Year     int                 `json:"year"`
	Expenses []*RecurringExpense `json:"expenses"`
}

// RecurringExpenseInput holds the writable fields of a recurring expense.
// FrequencyValue defaults to 1 when zero.
type RecurringExpenseInput struct {
	CategoryID     string  `json:"categoryId,omitempty"`
	Name           string  `json:"name"`
	Amount         float64 `json:"amount"`
	FrequencyType  string  `json:"frequencyType"`
	FrequencyValue int     `json:"frequencyValue,omitempty"`
	DayOfMonth     *int    `json:"dayOfMonth,omitempty"`
	StartMonth     *int    `json:"startMonth,omitempty"`
	StartYear      *int    `json:"startYear,omitempty"`
	EndMonth       *int    `json:"endMonth,omitempty"`
	EndYear        *int    `json:"endYear,omitempty"`
}

type CreateRecurringExpenseRequest struct {
	GroupID string `json:"groupId"`
	RecurringExpenseInput
}

type CreateRecurringExpenseResponse struct {
	Expense *RecurringExpense `json:"expense"`
}

type UpdateRecurringExpenseRequest struct {
	GroupID   string `json:"groupId"`
	ExpenseID string `json:"expenseId"`
	// IsActive is left unchanged when omitted.
	IsActive *bool `json:"isActive,omitempty"`
	RecurringExpenseInput
}

type UpdateRecurringExpenseResponse struct {
	Expense *RecurringExpense `json:"expense"`
}

type DeleteRecurringExpenseRequest struct {
	GroupID   string `json:"groupId"`
	ExpenseID string `json:"expenseId"`
}

type DeleteRecurringExpenseResponse struct{}

// ListOneTimeExpensesRequest lists a month's one-time expenses, or a single one by ExpenseID.
type ListOneTimeExpensesRequest struct {
	GroupID   string `json:"groupId"`
	ExpenseID string `json:"expenseId,omitempty"`
	Month     int    `json:"month,omitempty"`
	Year      int    `json:"year,omitempty"`
}

type ListOneTimeExpensesResponse struct {
	Expenses []*OneTimeExpense `json:"expenses"`
}

// OneTimeExpenseInput holds the writable fields of a one-time expense.
// Date defaults to now; Month and Year default to Date's month.
type OneTimeExpenseInput struct {
	CategoryID string  `json:"categoryId,omitempty"`
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	Date       int64   `json:"date,omitempty"`
	Month      int     `json:"month,omitempty"`
	Year       int     `json:"year,omitempty"`
}

type CreateOneTimeExpenseRequest struct {
	GroupID string `json:"groupId"`
	OneTimeExpenseInput
}

type CreateOneTimeExpenseResponse struct {
	Expense *OneTimeExpense `json:"expense"`
}

type UpdateOneTimeExpenseRequest struct {
	GroupID   string `json:"groupId"`
	ExpenseID string `json:"expenseId"`
	IsPaid    bool   `json:"isPaid"`
	OneTimeExpenseInput
}

type UpdateOneTimeExpenseResponse struct {
	Expense *OneTimeExpense `json:"expense"`
}

type DeleteOneTimeExpenseRequest struct {
	GroupID   string `json:"groupId"`
	ExpenseID string `json:"expenseId"`
}

type DeleteOneTimeExpenseResponse struct{}

// UploadReceiptRequest attaches a receipt image to a one-time expense.
// Image is base64 in JSON.
type UploadReceiptRequest struct {
	GroupID     string `json:"groupId"`
	ExpenseID   string `json:"expenseId"`
	ContentType string `json:"contentType"`
	Image       []byte `json:"image"`
}

// UploadReceiptResponse carries the extracted text. When extraction fails the upload
// still succeeds: ReceiptText is empty and OCRError explains why.
type UploadReceiptResponse struct {
	ReceiptText string `json:"receiptText"`
	OCRError    string `json:"ocrError,omitempty"`
}

type GetReceiptRequest struct {
	GroupID   string `json:"groupId"`
	ExpenseID string `json:"expenseId"`
}

type GetReceiptResponse struct {
	ReceiptText *string `json:"receiptText"`
}

type DeleteReceiptRequest struct {
	GroupID   string `json:"groupId"`
	ExpenseID string `json:"expenseId"`
}

type DeleteReceiptResponse struct{}
