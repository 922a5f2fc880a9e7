package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WithMetrics registers request, retry and refresh counters on reg so the
// embedding application can expose them alongside its own metrics endpoint.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Client) { c.metrics = newMetrics(reg) }
}

type metrics struct {
	requests  *prometheus.CounterVec
	retries   *prometheus.CounterVec
	refreshes *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campus_client",
			Name:      "requests_total",
			Help:      "Requests by method and terminal outcome.",
		}, []string{"method", "outcome"}),
		retries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campus_client",
			Name:      "retries_total",
			Help:      "Retransmissions by reason.",
		}, []string{"reason"}),
		refreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campus_client",
			Name:      "token_refreshes_total",
			Help:      "Token refresh calls by outcome.",
		}, []string{"outcome"}),
	}
}

func (c *Client) count(method, outcome string) {
	if c.metrics != nil {
		c.metrics.requests.WithLabelValues(method, outcome).Inc()
	}
}

func (c *Client) retry(reason string) {
	if c.metrics != nil {
		c.metrics.retries.WithLabelValues(reason).Inc()
	}
}

func (c *Client) refreshCount(outcome string) {
	if c.metrics != nil {
		c.metrics.refreshes.WithLabelValues(outcome).Inc()
	}
}
