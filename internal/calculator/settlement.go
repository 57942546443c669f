package calculator

import "github.com/mmynk/famiglia/internal/models"

// AnnotatedExpense is a recurring expense with its derived monthly amount and resolved category.
type AnnotatedExpense struct {
	Expense       *models.RecurringExpense
	MonthlyAmount float64
	// Category is nil when the expense is uncategorized.
	Category *models.Category
}

// SettlementInput is everything the report needs for one group and month.
type SettlementInput struct {
	Month      int
	Year       int
	Members    []*models.Member
	Expenses   []*models.RecurringExpense
	Categories []*models.Category
	Payments   []*models.Payment
}

// SettlementReport is the per-month snapshot of a group's shared expenses.
type SettlementReport struct {
	Month int
	Year  int

	TotalMonthly float64
	TotalPaid    float64
	Remaining    float64

	MemberQuotas       []MemberQuota
	ExpensesByCategory map[string]*CategoryTotal
	Expenses           []AnnotatedExpense

	// Payments are the settlement payments of the month, unmodified.
	Payments []*models.Payment
}

// BuildSettlementReport composes the monthly settlement for a group.
//
// Only the IsActive flag selects expenses here: start/end bounds are ignored,
// unlike the per-month expense listing, so totals count every flagged-active bill.
func BuildSettlementReport(in SettlementInput) (*SettlementReport, error) {
	active := FilterFlaggedActive(in.Expenses)
	byID := indexCategories(in.Categories)

	report := &SettlementReport{
		Month:    in.Month,
		Year:     in.Year,
		Expenses: make([]AnnotatedExpense, 0, len(active)),
	}

	for _, e := range active {
		monthly, err := MonthlyAmount(e)
		if err != nil {
			return nil, err
		}
		report.TotalMonthly += monthly
		report.Expenses = append(report.Expenses, AnnotatedExpense{
			Expense:       e,
			MonthlyAmount: monthly,
			Category:      byID[e.CategoryID],
		})
	}

	byCategory, err := AggregateByCategory(active, in.Categories)
	if err != nil {
		return nil, err
	}
	report.ExpensesByCategory = byCategory

	var monthPayments []*models.Payment
	for _, p := range in.Payments {
		if p.Month == in.Month && p.Year == in.Year {
			monthPayments = append(monthPayments, p)
		}
	}
	report.Payments = monthPayments

	report.MemberQuotas = AllocateQuotas(report.TotalMonthly, in.Members, monthPayments)
	for _, q := range report.MemberQuotas {
		report.TotalPaid += q.Paid
	}
	report.Remaining = report.TotalMonthly - report.TotalPaid

	return report, nil
}
