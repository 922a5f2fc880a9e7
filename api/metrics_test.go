package api

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := &Client{metrics: newMetrics(reg)}

	c.count("GET", "ok")
	c.count("GET", "ok")
	c.count("POST", "rate_limited")
	c.retry("rate_limited")
	c.refreshCount("ok")

	if got := testutil.ToFloat64(c.metrics.requests.WithLabelValues("GET", "ok")); got != 2 {
		t.Fatalf("requests counter: %v", got)
	}
	if got := testutil.ToFloat64(c.metrics.requests.WithLabelValues("POST", "rate_limited")); got != 1 {
		t.Fatalf("requests counter: %v", got)
	}
	if got := testutil.ToFloat64(c.metrics.retries.WithLabelValues("rate_limited")); got != 1 {
		t.Fatalf("retries counter: %v", got)
	}
	if got := testutil.ToFloat64(c.metrics.refreshes.WithLabelValues("ok")); got != 1 {
		t.Fatalf("refreshes counter: %v", got)
	}
}

func TestNilMetricsAreNoOps(t *testing.T) {
	c := &Client{}
	c.count("GET", "ok")
	c.retry("rate_limited")
	c.refreshCount("ok")
}
