package cart

import (
	"github.com/go-faster/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "storefront"

// Metrics counts cart activity. A nil *Metrics records nothing.
type Metrics struct {
	mutations     *prometheus.CounterVec
	checkouts     prometheus.Counter
	checkoutValue prometheus.Counter
	sessions      prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_mutations_total",
			Help:      "Cart mutations by operation and outcome",
		}, []string{"op", "result"}),
		checkouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkouts_total",
			Help:      "Completed checkouts",
		}),
		checkoutValue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_value_total",
			Help:      "Sum of completed checkout totals",
		}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cart_sessions",
			Help:      "Carts currently held by the session registry",
		}),
	}

	reg.MustRegister(m.mutations, m.checkouts, m.checkoutValue, m.sessions)
	return m
}

func (m *Metrics) observe(op string, err error) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(op, resultLabel(err)).Inc()
}

func (m *Metrics) observeCheckout(c Cart, err error) {
	if m == nil {
		return
	}
	m.observe(opCheckout, err)
	if err != nil {
		return
	}
	m.checkouts.Inc()
	m.checkoutValue.Add(c.Total.InexactFloat64())
}

func (m *Metrics) setSessions(n int) {
	if m == nil {
		return
	}
	m.sessions.Set(float64(n))
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	}
	return "error"
}
