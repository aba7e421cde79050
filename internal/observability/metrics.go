// Package observability provides Prometheus metrics for the allocation service.
//
// Collectors live on a Metrics value registered with an explicit registry,
// so tests can create isolated instances. A nil *Metrics is valid and
// records nothing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const namespace = "room_allocation"

// Request modes
const (
	ModeSummary = "summary"
	ModeExplain = "explain"
)

// Room tiers
const (
	TierPremium = "premium"
	TierEconomy = "economy"
)

var (
	// GuestBuckets spans single guests up to the request maximum.
	GuestBuckets = prometheus.ExponentialBuckets(1, 4, 10)

	// RevenueBuckets spans one night in a cheap room up to a full large hotel.
	RevenueBuckets = prometheus.ExponentialBuckets(10, 10, 8)

	// DurationBuckets for in-process allocation from 10us to 5s.
	DurationBuckets = []float64{
		0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5,
	}
)

// Metrics holds the service collectors.
type Metrics struct {
	requests    *prometheus.CounterVec
	errors      *prometheus.CounterVec
	guests      prometheus.Histogram
	upgrades    prometheus.Histogram
	revenue     *prometheus.HistogramVec
	duration    *prometheus.HistogramVec
	idempotency *prometheus.CounterVec
	evictions   *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// It panics if registration fails, like prometheus.MustRegister.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Allocation requests by mode.",
			},
			[]string{"mode"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "request_errors_total",
				Help:      "Allocation requests rejected by the engine, by mode.",
			},
			[]string{"mode"},
		),
		guests: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "guests_per_request",
				Help:      "Number of guests offered per allocation request.",
				Buckets:   GuestBuckets,
			},
		),
		upgrades: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upgrades_per_request",
				Help:      "Economy guests upgraded to premium rooms per request.",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
		revenue: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "revenue",
				Help:      "Revenue per allocation request by room tier.",
				Buckets:   RevenueBuckets,
			},
			[]string{"tier"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "allocation_duration_seconds",
				Help:      "Time spent computing an allocation, by mode.",
				Buckets:   DurationBuckets,
			},
			[]string{"mode"},
		),
		idempotency: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "idempotency_outcomes_total",
				Help:      "Idempotent request outcomes: hit, computed, conflict or error.",
			},
			[]string{"outcome"},
		),
		evictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "idempotency_evictions_total",
				Help:      "Idempotency keys removed from the cache, by reason.",
			},
			[]string{"reason"},
		),
	}

	reg.MustRegister(
		m.requests,
		m.errors,
		m.guests,
		m.upgrades,
		m.revenue,
		m.duration,
		m.idempotency,
		m.evictions,
	)
	return m
}

// Allocation records one successful allocation.
func (m *Metrics) Allocation(mode string, guests, upgrades int, premium, economy decimal.Decimal, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(mode).Inc()
	m.guests.Observe(float64(guests))
	m.upgrades.Observe(float64(upgrades))
	m.revenue.WithLabelValues(TierPremium).Observe(premium.InexactFloat64())
	m.revenue.WithLabelValues(TierEconomy).Observe(economy.InexactFloat64())
	m.duration.WithLabelValues(mode).Observe(elapsed.Seconds())
}

// AllocationError records a request the engine rejected.
func (m *Metrics) AllocationError(mode string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(mode).Inc()
	m.errors.WithLabelValues(mode).Inc()
}

// IdempotencyOutcome records the result of one idempotent lookup.
func (m *Metrics) IdempotencyOutcome(outcome string) {
	if m == nil {
		return
	}
	m.idempotency.WithLabelValues(outcome).Inc()
}

// IdempotencyEviction records a key leaving the idempotency cache.
func (m *Metrics) IdempotencyEviction(reason string) {
	if m == nil {
		return
	}
	m.evictions.WithLabelValues(reason).Inc()
}
