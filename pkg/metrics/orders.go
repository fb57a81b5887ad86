package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics tracks outcomes of the order creation transaction.
type OrderMetrics struct {
	created           prometheus.Counter
	insufficientStock prometheus.Counter
	numberRetries     prometheus.Counter
}

// NewOrderMetrics registers the order engine metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	created := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders committed successfully.",
	})
	insufficientStock := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_insufficient_stock_total",
		Help: "Order attempts rejected for lack of stock.",
	})
	numberRetries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_number_retries_total",
		Help: "Order number collisions that forced a regenerate.",
	})
	reg.MustRegister(created, insufficientStock, numberRetries)
	return &OrderMetrics{
		created:           created,
		insufficientStock: insufficientStock,
		numberRetries:     numberRetries,
	}
}

// IncCreated counts a committed order.
func (o *OrderMetrics) IncCreated() {
	if o == nil || o.created == nil {
		return
	}
	o.created.Inc()
}

// IncInsufficientStock counts a rejected order attempt.
func (o *OrderMetrics) IncInsufficientStock() {
	if o == nil || o.insufficientStock == nil {
		return
	}
	o.insufficientStock.Inc()
}

// IncNumberRetry counts an order number regeneration.
func (o *OrderMetrics) IncNumberRetry() {
	if o == nil || o.numberRetries == nil {
		return
	}
	o.numberRetries.Inc()
}
