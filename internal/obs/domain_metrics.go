package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// QuoteTotal counts quote computations by outcome.
	QuoteTotal *prometheus.CounterVec
	// QuoteDuration records quote computation latency in milliseconds.
	QuoteDuration *prometheus.HistogramVec
	// PromotionAppliedTotal counts resolved quotes that ended with a promotion applied.
	PromotionAppliedTotal prometheus.Counter
	// SnapshotRefreshTotal counts catalog status index refreshes by outcome.
	SnapshotRefreshTotal *prometheus.CounterVec
	// MalformedPromotionTotal counts catalog rows excluded by strict mapping.
	MalformedPromotionTotal prometheus.Counter
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		QuoteTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_total",
			Help:      "Count of quote computations by outcome.",
		}, []string{"result"})
		QuoteDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quote_duration_ms",
			Help:      "Latency of quote computations in milliseconds.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250, 500},
		}, []string{"result"})
		PromotionAppliedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "promotion_applied_total",
			Help:      "Count of quotes where a promotion discount was applied.",
		})
		SnapshotRefreshTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_status_refresh_total",
			Help:      "Count of promotion status index refreshes by outcome.",
		}, []string{"result"})
		MalformedPromotionTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "malformed_promotion_total",
			Help:      "Count of promotion rows excluded because they failed strict mapping.",
		})

		mustRegisterCounterVec(reg, &QuoteTotal)
		mustRegisterHistogramVec(reg, &QuoteDuration)
		mustRegisterCounter(reg, &PromotionAppliedTotal)
		mustRegisterCounterVec(reg, &SnapshotRefreshTotal)
		mustRegisterCounter(reg, &MalformedPromotionTotal)
	})
}

func mustRegisterCounterVec(reg prometheus.Registerer, c **prometheus.CounterVec) {
	if err := reg.Register(*c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				*c = existing
				return
			}
		}
		panic(fmt.Errorf("register counter vec: %w", err))
	}
}

func mustRegisterHistogramVec(reg prometheus.Registerer, h **prometheus.HistogramVec) {
	if err := reg.Register(*h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				*h = existing
				return
			}
		}
		panic(fmt.Errorf("register histogram vec: %w", err))
	}
}

func mustRegisterCounter(reg prometheus.Registerer, c *prometheus.Counter) {
	if err := reg.Register(*c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				*c = existing
				return
			}
		}
		panic(fmt.Errorf("register counter: %w", err))
	}
}
