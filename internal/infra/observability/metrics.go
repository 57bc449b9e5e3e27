package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the bank.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	operationDuration *prometheus.HistogramVec
	transfersTotal    *prometheus.CounterVec
	loginsTotal       *prometheus.CounterVec
	loanPayments      prometheus.Counter
	bankBalance       prometheus.Gauge
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		operationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bank_operation_duration_seconds",
				Help:    "Duration of bank operations by name.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		transfersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bank_transfers_total",
				Help: "Total transfers created, by transfer type.",
			},
			[]string{"type"},
		),
		loginsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bank_logins_total",
				Help: "Total login attempts, by result.",
			},
			[]string{"result"},
		),
		loanPayments: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "bank_loan_installments_total",
				Help: "Total loan installments collected.",
			},
		),
		bankBalance: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bank_central_balance_zloty",
				Help: "Current central bank balance in zloty.",
			},
		),
	}
}

// RecordOperationDuration records the duration of a bank operation.
func (m *Metrics) RecordOperationDuration(operation string, d time.Duration) {
	m.operationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrTransfer increments the transfer counter for the given type.
func (m *Metrics) IncrTransfer(transferType string) {
	m.transfersTotal.WithLabelValues(transferType).Inc()
}

// IncrLogin increments the login counter with a result label
// ("success", "wrong_password", "unknown_login" or "locked").
func (m *Metrics) IncrLogin(result string) {
	m.loginsTotal.WithLabelValues(result).Inc()
}

// IncrLoanInstallment counts one collected loan installment.
func (m *Metrics) IncrLoanInstallment() {
	m.loanPayments.Inc()
}

// SetBankBalance publishes the central balance.
func (m *Metrics) SetBankBalance(zloty float64) {
	m.bankBalance.Set(zloty)
}

// LoginCount returns the cumulative login counter for a result label.
// Used by tests.
func (m *Metrics) LoginCount(result string) float64 {
	return getCounterValue(m.loginsTotal, result)
}

// TransferCount returns the cumulative transfer counter for a type label.
func (m *Metrics) TransferCount(transferType string) float64 {
	return getCounterValue(m.transfersTotal, transferType)
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
