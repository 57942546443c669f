package calculator

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/mmynk/famiglia/internal/models"
)

// QuotaCeiling is the maximum sum of quota percentages across a group's members.
// It leaves ten points of slack above 100 for rounding and in-progress edits.
const QuotaCeiling = 110.0

var (
	ErrQuotaCeilingExceeded = errors.New("total quota exceeds 110%")
	ErrInvalidQuota         = errors.New("quota must be a non-negative number")
)

var (
	hundred = decimal.NewFromInt(100)
	ceiling = decimal.NewFromFloat(QuotaCeiling)
)

// MemberQuota is one member's row in the monthly settlement.
type MemberQuota struct {
	Member *models.Member

	// Calculated is the member's share: totalMonthly × quota / 100.
	Calculated float64

	// Paid is the sum of the member's payments for the month.
	Paid float64

	// Confirmed is true when Paid covers Calculated exactly, with no rounding.
	Confirmed bool

	// Progress is Paid as a percentage of Calculated, capped at 100.
	Progress float64
}

// AllocateQuotas computes each member's share of totalMonthly and compares it with
// their payments. Payments are expected to belong to a single month already; they are
// summed per member without deduplication.
func AllocateQuotas(totalMonthly float64, members []*models.Member, payments []*models.Payment) []MemberQuota {
	paidBy := make(map[string]decimal.Decimal, len(members))
	for _, p := range payments {
		paidBy[p.MemberID] = paidBy[p.MemberID].Add(decimal.NewFromFloat(p.AmountPaid))
	}

	total := decimal.NewFromFloat(totalMonthly)
	quotas := make([]MemberQuota, 0, len(members))
	for _, m := range members {
		calculated := total.Mul(decimal.NewFromFloat(m.QuotaPercent)).Div(hundred)
		paid := paidBy[m.ID]

		quotas = append(quotas, MemberQuota{
			Member:     m,
			Calculated: totalMonthly * m.QuotaPercent / 100,
			Paid:       paid.InexactFloat64(),
			Confirmed:  paid.GreaterThanOrEqual(calculated),
			Progress:   progress(paid, calculated),
		})
	}
	return quotas
}

// Progress returns paid as a percentage of calculated, capped at 100 and rounded to
// two decimals. A zero share yields 0 when nothing was paid and 100 otherwise,
// never NaN or Inf.
func Progress(paid, calculated float64) float64 {
	return progress(decimal.NewFromFloat(paid), decimal.NewFromFloat(calculated))
}

func progress(paid, calculated decimal.Decimal) float64 {
	calculated = calculated.Round(2)
	if calculated.Sign() <= 0 {
		if paid.Sign() > 0 {
			return 100
		}
		return 0
	}
	pct := paid.Div(calculated).Mul(hundred)
	return decimal.Min(pct, hundred).Round(2).InexactFloat64()
}

// ValidateQuota rejects negative or non-finite quotas.
func ValidateQuota(quota float64) error {
	if math.IsNaN(quota) || math.IsInf(quota, 0) || quota < 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidQuota, quota)
	}
	return nil
}

// CheckQuotaCeiling rejects a write that would push the group's quota sum past QuotaCeiling.
// others holds the quotas of every member except the one being written.
func CheckQuotaCeiling(others []float64, quota float64) error {
	if err := ValidateQuota(quota); err != nil {
		return err
	}
	sum := decimal.NewFromFloat(quota)
	for _, q := range others {
		sum = sum.Add(decimal.NewFromFloat(q))
	}
	if sum.GreaterThan(ceiling) {
		return fmt.Errorf("%w: would be %s%%", ErrQuotaCeilingExceeded, sum.String())
	}
	return nil
}
