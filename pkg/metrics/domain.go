package metrics

import "github.com/prometheus/client_golang/prometheus"

// DomainMetrics counts user contributions.
type DomainMetrics struct {
	prices   prometheus.Counter
	products *prometheus.CounterVec
}

func NewDomainMetrics(reg prometheus.Registerer) *DomainMetrics {
	if reg == nil {
		return &DomainMetrics{}
	}
	prices := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "price_entries_recorded_total",
		Help: "Price entries submitted by users.",
	})
	products := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "products_created_total",
		Help: "Product creation attempts by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(prices, products)
	return &DomainMetrics{prices: prices, products: products}
}

func (d *DomainMetrics) PriceRecorded() {
	if d == nil || d.prices == nil {
		return
	}
	d.prices.Inc()
}

// ProductCreated records a creation outcome: "created" or "duplicate_barcode".
func (d *DomainMetrics) ProductCreated(outcome string) {
	if d == nil || d.products == nil {
		return
	}
	d.products.WithLabelValues(normalizeLabel(outcome)).Inc()
}
