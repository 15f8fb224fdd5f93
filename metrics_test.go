package interprocess

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestMetricsWiredThroughPublishAndDequeue(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, "metrics-test")

	q := newTestQueue(t, 256)
	q.metrics = m
	pub := q.NewPublisher()
	sub := q.NewSubscriber()
	pub.metrics = m
	sub.metrics = m

	if err := pub.TryEnqueue([]byte("x")); err != nil {
		t.Fatalf("TryEnqueue: %v", err)
	}
	if _, err := sub.TryDequeue(nil); err != nil {
		t.Fatalf("TryDequeue: %v", err)
	}
	if _, err := sub.TryDequeue(nil); err != ErrQueueEmpty {
		t.Fatalf("TryDequeue on empty queue = %v, want ErrQueueEmpty", err)
	}

	if got := counterValue(t, m.published); got != 1 {
		t.Errorf("published = %v, want 1", got)
	}
	if got := counterValue(t, m.dequeued); got != 1 {
		t.Errorf("dequeued = %v, want 1", got)
	}
	if got := counterValue(t, m.queueEmpty); got != 1 {
		t.Errorf("queueEmpty = %v, want 1", got)
	}
}
