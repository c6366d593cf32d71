package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewHTTPMetricsNilRegisterer(t *testing.T) {
	m := NewHTTPMetrics(nil)
	if m == nil {
		t.Fatal("expected metrics instance")
	}
	// No-op without a registry.
	m.Observe("GET", "/api/products", 200, 50*time.Millisecond)
}

func TestObserveRecordsSamples(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Observe("GET", "/api/products", 200, 10*time.Millisecond)
	m.Observe("POST", "", 500, time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) != 2 {
		t.Fatalf("expected 2 metric families, got %d", len(families))
	}
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *HTTPMetrics
	m.Observe("GET", "/api/products", 200, time.Millisecond)
}
