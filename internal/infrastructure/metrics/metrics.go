package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// Metrics holds the ledger's Prometheus metrics. It implements
// usecase.LedgerMetrics.
type Metrics struct {
	// Ledger metrics
	SalesRecorded    *prometheus.CounterVec
	SaleAmount       *prometheus.HistogramVec
	PaymentsRecorded prometheus.Counter
	PaymentAmount    prometheus.Histogram
	LedgerErrors     *prometheus.CounterVec
	StoreRetries     *prometheus.CounterVec

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

var amountBuckets = []float64{1, 10, 50, 100, 500, 1000, 5000, 10000, 100000}

// New creates the metrics and registers them with the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates the metrics on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		SalesRecorded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creditbook_sales_recorded_total",
				Help: "Total number of sales recorded",
			},
			[]string{"mode"},
		),
		SaleAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "creditbook_sale_amount",
				Help:    "Sale totals",
				Buckets: amountBuckets,
			},
			[]string{"mode"},
		),
		PaymentsRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "creditbook_payments_recorded_total",
			Help: "Total number of standalone payments recorded",
		}),
		PaymentAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "creditbook_payment_amount",
			Help:    "Standalone payment amounts",
			Buckets: amountBuckets,
		}),
		LedgerErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creditbook_ledger_errors_total",
				Help: "Total ledger errors by operation and kind",
			},
			[]string{"operation", "kind"},
		),
		StoreRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creditbook_store_retries_total",
				Help: "Ledger units re-run after a deadlock or serialization failure",
			},
			[]string{"sqlstate"},
		),

		AuthAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creditbook_auth_attempts_total",
				Help: "Total login attempts",
			},
			[]string{"status"},
		),

		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "creditbook_rate_limit_hits_total",
			Help: "Total requests rejected by the rate limiter",
		}),
	}
}

func saleMode(isCredit bool) string {
	if isCredit {
		return "credit"
	}
	return "cash"
}

// RecordSale counts a committed sale.
func (m *Metrics) RecordSale(isCredit bool, amount decimal.Decimal) {
	mode := saleMode(isCredit)
	m.SalesRecorded.WithLabelValues(mode).Inc()
	m.SaleAmount.WithLabelValues(mode).Observe(amount.InexactFloat64())
}

// RecordPayment counts a committed standalone payment.
func (m *Metrics) RecordPayment(amount decimal.Decimal) {
	m.PaymentsRecorded.Inc()
	m.PaymentAmount.Observe(amount.InexactFloat64())
}

// RecordLedgerError counts a failed ledger operation.
func (m *Metrics) RecordLedgerError(operation, kind string) {
	m.LedgerErrors.WithLabelValues(operation, kind).Inc()
}

// RecordStoreRetry counts a re-run ledger unit.
func (m *Metrics) RecordStoreRetry(sqlState string) {
	m.StoreRetries.WithLabelValues(sqlState).Inc()
}

// RecordLogin counts a login attempt.
func (m *Metrics) RecordLogin(success bool) {
	status := "failure"
	if success {
		status = "success"
	}
	m.AuthAttempts.WithLabelValues(status).Inc()
}

// RecordRateLimited counts a rejected request.
func (m *Metrics) RecordRateLimited() {
	m.RateLimitHits.Inc()
}
