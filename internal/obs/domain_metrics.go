package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CheckoutTotal counts checkouts by outcome.
	CheckoutTotal *prometheus.CounterVec
	// DiscountsAppliedTotal counts discount lines by offer type.
	DiscountsAppliedTotal *prometheus.CounterVec
	// OffersRegisteredTotal counts offer registrations by offer type and outcome.
	OffersRegisteredTotal *prometheus.CounterVec
	// ReceiptTotal records the grand total of successful checkouts.
	ReceiptTotal prometheus.Histogram
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CheckoutTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_total",
			Help:      "Count of checkouts by outcome.",
		}, []string{"result"})
		DiscountsAppliedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discount_applied_total",
			Help:      "Count of discount lines added to receipts by offer type.",
		}, []string{"offer"})
		OffersRegisteredTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offer_registered_total",
			Help:      "Count of offer registrations by offer type and outcome.",
		}, []string{"offer", "result"})
		ReceiptTotal = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "checkout_receipt_total",
			Help:      "Grand total of successful checkouts.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500},
		})

		mustRegisterCollector(reg, CheckoutTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CheckoutTotal = v
			}
		})
		mustRegisterCollector(reg, DiscountsAppliedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				DiscountsAppliedTotal = v
			}
		})
		mustRegisterCollector(reg, OffersRegisteredTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				OffersRegisteredTotal = v
			}
		})
		mustRegisterCollector(reg, ReceiptTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				ReceiptTotal = v
			}
		})
	})
}

// ObserveCheckout records a checkout outcome. It is a no-op until the domain metrics are registered.
func ObserveCheckout(result string, total float64) {
	if CheckoutTotal == nil {
		return
	}
	CheckoutTotal.WithLabelValues(result).Inc()
	if result == "ok" && ReceiptTotal != nil {
		ReceiptTotal.Observe(total)
	}
}

// ObserveDiscount records a discount line for the offer type.
func ObserveDiscount(offerType string) {
	if DiscountsAppliedTotal == nil {
		return
	}
	DiscountsAppliedTotal.WithLabelValues(offerType).Inc()
}

// ObserveOfferRegistration records an offer registration attempt.
func ObserveOfferRegistration(offerType, result string) {
	if OffersRegisteredTotal == nil {
		return
	}
	OffersRegisteredTotal.WithLabelValues(offerType, result).Inc()
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
