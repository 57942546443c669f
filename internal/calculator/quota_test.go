package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/mmynk/famiglia/internal/models"
)

func TestCheckQuotaCeiling(t *testing.T) {
	tests := []struct {
		name    string
		others  []float64
		quota   float64
		wantErr error
	}{
		{name: "exactly 110 is accepted", others: []float64{90}, quota: 20},
		{name: "111 is rejected", others: []float64{90}, quota: 21, wantErr: ErrQuotaCeilingExceeded},
		{name: "first member", others: nil, quota: 100},
		{name: "sum of many", others: []float64{33.3, 33.3}, quota: 33.4},
		{name: "decimal edge stays accepted", others: []float64{36.7, 36.7}, quota: 36.6},
		{name: "negative quota", others: []float64{10}, quota: -5, wantErr: ErrInvalidQuota},
		{name: "NaN quota", quota: math.NaN(), wantErr: ErrInvalidQuota},
		{name: "infinite quota", quota: math.Inf(1), wantErr: ErrInvalidQuota},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckQuotaCeiling(tt.others, tt.quota)
			if tt.wantErr == nil && err != nil {
				t.Errorf("CheckQuotaCeiling() unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckQuotaCeiling() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAllocateQuotas(t *testing.T) {
	alice := &models.Member{ID: "alice", Name: "Alice", QuotaPercent: 30}
	bob := &models.Member{ID: "bob", Name: "Bob", QuotaPercent: 70}

	tests := []struct {
		name          string
		payments      []*models.Payment
		wantPaid      []float64
		wantConfirmed []bool
		wantProgress  []float64
	}{
		{
			name:          "no payments",
			wantPaid:      []float64{0, 0},
			wantConfirmed: []bool{false, false},
			wantProgress:  []float64{0, 0},
		},
		{
			name: "exact payment confirms",
			payments: []*models.Payment{
				{MemberID: "alice", AmountPaid: 300},
			},
			wantPaid:      []float64{300, 0},
			wantConfirmed: []bool{true, false},
			wantProgress:  []float64{100, 0},
		},
		{
			name: "one cent short does not confirm",
			payments: []*models.Payment{
				{MemberID: "alice", AmountPaid: 299.99},
			},
			wantPaid:      []float64{299.99, 0},
			wantConfirmed: []bool{false, false},
			wantProgress:  []float64{100, 0},
		},
		{
			name: "partial payments are summed",
			payments: []*models.Payment{
				{MemberID: "bob", AmountPaid: 200},
				{MemberID: "bob", AmountPaid: 150},
				{MemberID: "ghost", AmountPaid: 999},
			},
			wantPaid:      []float64{0, 350},
			wantConfirmed: []bool{false, false},
			wantProgress:  []float64{0, 50},
		},
		{
			name: "overpayment caps progress",
			payments: []*models.Payment{
				{MemberID: "bob", AmountPaid: 1000},
			},
			wantPaid:      []float64{0, 1000},
			wantConfirmed: []bool{false, true},
			wantProgress:  []float64{0, 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quotas := AllocateQuotas(1000, []*models.Member{alice, bob}, tt.payments)
			if len(quotas) != 2 {
				t.Fatalf("expected 2 quotas, got %d", len(quotas))
			}
			wantCalculated := []float64{300, 700}
			for i, q := range quotas {
				if math.Abs(q.Calculated-wantCalculated[i]) > 0.001 {
					t.Errorf("%s calculated = %v, want %v", q.Member.Name, q.Calculated, wantCalculated[i])
				}
				if math.Abs(q.Paid-tt.wantPaid[i]) > 0.001 {
					t.Errorf("%s paid = %v, want %v", q.Member.Name, q.Paid, tt.wantPaid[i])
				}
				if q.Confirmed != tt.wantConfirmed[i] {
					t.Errorf("%s confirmed = %v, want %v", q.Member.Name, q.Confirmed, tt.wantConfirmed[i])
				}
				if tt.name == "one cent short does not confirm" && i == 0 {
					// 299.99 / 300 rounds to 100.00 at two decimals
					if q.Progress < 99.99 || q.Progress > 100 {
						t.Errorf("%s progress = %v, want ~100", q.Member.Name, q.Progress)
					}
					continue
				}
				if math.Abs(q.Progress-tt.wantProgress[i]) > 0.001 {
					t.Errorf("%s progress = %v, want %v", q.Member.Name, q.Progress, tt.wantProgress[i])
				}
			}
		})
	}
}

func TestAllocateQuotas_ZeroTotal(t *testing.T) {
	m := &models.Member{ID: "m", QuotaPercent: 50}
	quotas := AllocateQuotas(0, []*models.Member{m}, nil)
	if len(quotas) != 1 {
		t.Fatalf("expected 1 quota, got %d", len(quotas))
	}
	q := quotas[0]
	if q.Calculated != 0 || q.Paid != 0 {
		t.Errorf("expected zero calculated and paid, got %v / %v", q.Calculated, q.Paid)
	}
	if !q.Confirmed {
		t.Error("zero share with zero paid should be confirmed")
	}
	if q.Progress != 0 {
		t.Errorf("progress = %v, want 0", q.Progress)
	}
}

func TestAllocateQuotas_ExactConfirmation(t *testing.T) {
	m := &models.Member{ID: "m", QuotaPercent: 30}

	tests := []struct {
		name          string
		total         float64
		payments      []*models.Payment
		wantConfirmed bool
	}{
		{name: "half a cent short", total: 1000, payments: []*models.Payment{{MemberID: "m", AmountPaid: 299.995}}, wantConfirmed: false},
		{name: "sub-cent share unpaid", total: 0.01, wantConfirmed: false},
		{name: "sub-cent share paid", total: 0.01, payments: []*models.Payment{{MemberID: "m", AmountPaid: 0.003}}, wantConfirmed: true},
		{name: "float sums stay exact", total: 1000, payments: []*models.Payment{
			{MemberID: "m", AmountPaid: 100.1},
			{MemberID: "m", AmountPaid: 199.9},
		}, wantConfirmed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quotas := AllocateQuotas(tt.total, []*models.Member{m}, tt.payments)
			if got := quotas[0].Confirmed; got != tt.wantConfirmed {
				t.Errorf("confirmed = %v, want %v (calculated %v, paid %v)", got, tt.wantConfirmed, quotas[0].Calculated, quotas[0].Paid)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	tests := []struct {
		paid, calculated, want float64
	}{
		{0, 0, 0},
		{10, 0, 100},
		{50, 200, 25},
		{1, 3, 33.33},
		{500, 100, 100},
	}
	for _, tt := range tests {
		got := Progress(tt.paid, tt.calculated)
		if math.Abs(got-tt.want) > 0.001 {
			t.Errorf("Progress(%v, %v) = %v, want %v", tt.paid, tt.calculated, got, tt.want)
		}
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Errorf("Progress(%v, %v) is not finite", tt.paid, tt.calculated)
		}
	}
}
