package service

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/famiglia/internal/calculator"
)

// SettlementMetrics exposes the figures of the last settlement computed per group.
type SettlementMetrics struct {
	totalMonthly *prometheus.GaugeVec
	remaining    *prometheus.GaugeVec
}

// NewSettlementMetrics creates the settlement gauges and registers them with reg.
func NewSettlementMetrics(reg prometheus.Registerer) *SettlementMetrics {
	m := &SettlementMetrics{
		totalMonthly: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "famiglia",
			Subsystem: "settlement",
			Name:      "total_monthly",
			Help:      "Total monthly amount of the last settlement computed for a group.",
		}, []string{"group_id"}),
		remaining: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "famiglia",
			Subsystem: "settlement",
			Name:      "remaining",
			Help:      "Amount still unpaid in the last settlement computed for a group.",
		}, []string{"group_id"}),
	}
	reg.MustRegister(m.totalMonthly, m.remaining)
	return m
}

func (m *SettlementMetrics) observe(groupID string, r *calculator.SettlementReport) {
	if m == nil {
		return
	}
	m.totalMonthly.WithLabelValues(groupID).Set(r.TotalMonthly)
	m.remaining.WithLabelValues(groupID).Set(r.Remaining)
}
