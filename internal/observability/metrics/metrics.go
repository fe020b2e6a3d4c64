package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Config labels every collector with the service and environment
type Config struct {
	ServiceName string
	Environment string
}

// LedgerMetrics counts financial events. A nil *LedgerMetrics is valid and records nothing.
type LedgerMetrics struct {
	vouchersIssued  *prometheus.CounterVec
	paymentsTotal   *prometheus.CounterVec
	paymentsAmount  *prometheus.CounterVec
	foliosClosed    prometheus.Counter
	sessionsClosed  prometheus.Counter
	cashDifference  prometheus.Histogram
	jobRuns         *prometheus.CounterVec
	fiscalSubmitted *prometheus.CounterVec
}

// NewLedgerMetrics builds and registers the ledger collectors on registerer
func NewLedgerMetrics(registerer prometheus.Registerer, cfg Config) *LedgerMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	constLabels := labels(cfg)

	m := &LedgerMetrics{
		vouchersIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "ledger_vouchers_issued_total",
			Help:        "Voucher numbers issued, by voucher type.",
			ConstLabels: constLabels,
		}, []string{"voucher_type"}),
		paymentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "ledger_payments_total",
			Help:        "Payments applied to folios, by method.",
			ConstLabels: constLabels,
		}, []string{"method"}),
		paymentsAmount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "ledger_payments_amount_total",
			Help:        "Sum of payment amounts applied to folios, by method.",
			ConstLabels: constLabels,
		}, []string{"method"}),
		foliosClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "ledger_folios_closed_total",
			Help:        "Folios closed by reaching a settled balance.",
			ConstLabels: constLabels,
		}),
		sessionsClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "ledger_cashier_sessions_closed_total",
			Help:        "Cashier sessions reconciled and closed.",
			ConstLabels: constLabels,
		}),
		cashDifference: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "ledger_cashier_difference_abs",
			Help:        "Absolute difference between counted and expected cash at close.",
			Buckets:     []float64{0, 0.5, 1, 5, 10, 50, 100, 500},
			ConstLabels: constLabels,
		}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "ledger_job_runs_total",
			Help:        "Maintenance job runs, by job and result.",
			ConstLabels: constLabels,
		}, []string{"job", "result"}), // success | failed
		fiscalSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "ledger_fiscal_submissions_total",
			Help:        "Fiscal gateway submissions, by resulting invoice status.",
			ConstLabels: constLabels,
		}, []string{"status"}),
	}

	registerer.MustRegister(
		m.vouchersIssued,
		m.paymentsTotal,
		m.paymentsAmount,
		m.foliosClosed,
		m.sessionsClosed,
		m.cashDifference,
		m.jobRuns,
		m.fiscalSubmitted,
	)
	return m
}

func (m *LedgerMetrics) VoucherIssued(voucherType string) {
	if m == nil {
		return
	}
	m.vouchersIssued.WithLabelValues(voucherType).Inc()
}

func (m *LedgerMetrics) PaymentApplied(method string, amount float64) {
	if m == nil {
		return
	}
	m.paymentsTotal.WithLabelValues(method).Inc()
	if amount > 0 {
		m.paymentsAmount.WithLabelValues(method).Add(amount)
	}
}

func (m *LedgerMetrics) FolioClosed() {
	if m == nil {
		return
	}
	m.foliosClosed.Inc()
}

// CashierSessionClosed records a close and the size of its discrepancy
func (m *LedgerMetrics) CashierSessionClosed(difference float64) {
	if m == nil {
		return
	}
	m.sessionsClosed.Inc()
	if difference < 0 {
		difference = -difference
	}
	m.cashDifference.Observe(difference)
}

func (m *LedgerMetrics) JobRun(job string, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failed"
	}
	m.jobRuns.WithLabelValues(job, result).Inc()
}

func (m *LedgerMetrics) FiscalSubmitted(status string) {
	if m == nil {
		return
	}
	m.fiscalSubmitted.WithLabelValues(status).Inc()
}

func labels(cfg Config) prometheus.Labels {
	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "hotel-ledger-api"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	return prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}
}
