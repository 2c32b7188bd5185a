package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics("fras_test")

	m.RecordRequest("/admin/tickets", "GET", 200, 15*time.Millisecond)
	m.RecordRequest("/admin/tickets", "GET", 200, 5*time.Millisecond)
	m.RecordError("/admin/tickets/:id", "PUT", "INVALID_TRANSITION")
	m.RecordTransition("pending", "in_progress")
	m.RecordTicketCreated()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/admin/tickets", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("/admin/tickets/:id", "PUT", "INVALID_TRANSITION")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("pending", "in_progress")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.created))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "X")
		m.RecordTransition("a", "b")
		m.RecordTicketCreated()
	})
}
