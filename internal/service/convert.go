package service

import (
	"github.com/mmynk/famiglia/internal/calculator"
	"github.com/mmynk/famiglia/internal/models"
	"github.com/mmynk/famiglia/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

func toAPIGroup(g *models.Group) *api.Group {
	return &api.Group{
		ID:        g.ID,
		Name:      g.Name,
		OwnerID:   g.OwnerID,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

func toAPIMember(m *models.Member) *api.Member {
	return &api.Member{
		ID:           m.ID,
		GroupID:      m.GroupID,
		UserID:       m.UserID,
		Name:         m.Name,
		QuotaPercent: m.QuotaPercent,
		CreatedAt:    m.CreatedAt,
	}
}

func toAPIMembers(members []*models.Member) []*api.Member {
	out := make([]*api.Member, len(members))
	for i, m := range members {
		out[i] = toAPIMember(m)
	}
	return out
}

func toAPICategory(c *models.Category) *api.Category {
	if c == nil {
		return nil
	}
	return &api.Category{
		ID:        c.ID,
		GroupID:   c.GroupID,
		Name:      c.Name,
		Icon:      c.Icon,
		Color:     c.Color,
		CreatedAt: c.CreatedAt,
	}
}

// toAPIRecurring converts an expense with its derived monthly amount and category.
func toAPIRecurring(e *models.RecurringExpense, monthly float64, category *models.Category) *api.RecurringExpense {
	return &api.RecurringExpense{
		ID:             e.ID,
		GroupID:        e.GroupID,
		CategoryID:     e.CategoryID,
		Category:       toAPICategory(category),
		Name:           e.Name,
		Amount:         e.Amount,
		MonthlyAmount:  monthly,
		FrequencyType:  string(e.FrequencyType),
		FrequencyValue: e.FrequencyValue,
		DayOfMonth:     e.DayOfMonth,
		IsActive:       e.IsActive,
		StartMonth:     e.StartMonth,
		StartYear:      e.StartYear,
		EndMonth:       e.EndMonth,
		EndYear:        e.EndYear,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func toAPIOneTime(e *models.OneTimeExpense) *api.OneTimeExpense {
	return &api.OneTimeExpense{
		ID:               e.ID,
		GroupID:          e.GroupID,
		ExpenseID:        e.ExpenseID,
		ExpensePaymentID: e.ExpensePaymentID,
		CategoryID:       e.CategoryID,
		Name:             e.Name,
		Amount:           e.Amount,
		Date:             e.Date,
		Month:            e.Month,
		Year:             e.Year,
		IsPaid:           e.IsPaid,
		ReceiptText:      e.ReceiptText,
		CreatedAt:        e.CreatedAt,
	}
}

func toAPIExpensePayment(p *models.ExpensePayment) *api.ExpensePayment {
	return &api.ExpensePayment{
		ID:        p.ID,
		GroupID:   p.GroupID,
		ExpenseID: p.ExpenseID,
		Month:     p.Month,
		Year:      p.Year,
		Amount:    p.Amount,
		PaidAt:    p.PaidAt,
	}
}

func toAPIPayment(p *models.Payment) *api.Payment {
	return &api.Payment{
		ID:          p.ID,
		GroupID:     p.GroupID,
		MemberID:    p.MemberID,
		ExpenseID:   p.ExpenseID,
		Month:       p.Month,
		Year:        p.Year,
		AmountPaid:  p.AmountPaid,
		IsConfirmed: p.IsConfirmed,
		ConfirmedAt: p.ConfirmedAt,
		CreatedAt:   p.CreatedAt,
	}
}

func toAPIReport(groupID string, r *calculator.SettlementReport) *api.SettlementReport {
	out := &api.SettlementReport{
		GroupID:            groupID,
		Month:              r.Month,
		Year:               r.Year,
		TotalMonthly:       r.TotalMonthly,
		TotalPaid:          r.TotalPaid,
		Remaining:          r.Remaining,
		MemberQuotas:       make([]*api.MemberQuota, len(r.MemberQuotas)),
		ExpensesByCategory: make(map[string]*api.CategoryTotal, len(r.ExpensesByCategory)),
		Expenses:           make([]*api.RecurringExpense, len(r.Expenses)),
		Payments:           make([]*api.Payment, len(r.Payments)),
	}

	for i, q := range r.MemberQuotas {
		out.MemberQuotas[i] = &api.MemberQuota{
			Member:     toAPIMember(q.Member),
			Calculated: q.Calculated,
			Paid:       q.Paid,
			Confirmed:  q.Confirmed,
			Progress:   q.Progress,
		}
	}
	for name, total := range r.ExpensesByCategory {
		out.ExpensesByCategory[name] = &api.CategoryTotal{Total: total.Total, Color: total.Color}
	}
	for i, e := range r.Expenses {
		out.Expenses[i] = toAPIRecurring(e.Expense, e.MonthlyAmount, e.Category)
		out.Expenses[i].ActiveForMonth = calculator.IsActiveForMonth(calculator.WindowOf(e.Expense), r.Month, r.Year)
	}
	for i, p := range r.Payments {
		out.Payments[i] = toAPIPayment(p)
	}
	return out
}
