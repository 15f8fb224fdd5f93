package interprocess

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is an optional Prometheus collector for a queue. The core queue
// never requires one — Options.Metrics may be left nil, in which case
// every increment below is a no-op — but attaching one surfaces the same
// publish/dequeue/backpressure counters the sharedmem link layers in this
// ecosystem (cloudwego-shmipc-go, gvisor's pkg/tcpip/link/sharedmem)
// expose for their ring buffers.
type Metrics struct {
	published    prometheus.Counter
	dequeued     prometheus.Counter
	queueFull    prometheus.Counter
	queueEmpty   prometheus.Counter
	signalMisses prometheus.Counter
}

// NewMetrics registers a Metrics collector for queueName against reg. Pass
// prometheus.DefaultRegisterer for the global registry, or a dedicated
// prometheus.NewRegistry() in tests to avoid collisions between queues
// sharing a process.
func NewMetrics(reg prometheus.Registerer, queueName string) *Metrics {
	f := promauto.With(reg)
	labels := prometheus.Labels{"queue": queueName}
	return &Metrics{
		published: f.NewCounter(prometheus.CounterOpts{
			Name:        "interprocess_messages_published_total",
			Help:        "Messages successfully published.",
			ConstLabels: labels,
		}),
		dequeued: f.NewCounter(prometheus.CounterOpts{
			Name:        "interprocess_messages_dequeued_total",
			Help:        "Messages successfully dequeued.",
			ConstLabels: labels,
		}),
		queueFull: f.NewCounter(prometheus.CounterOpts{
			Name:        "interprocess_queue_full_total",
			Help:        "TryEnqueue calls that found insufficient space.",
			ConstLabels: labels,
		}),
		queueEmpty: f.NewCounter(prometheus.CounterOpts{
			Name:        "interprocess_queue_empty_total",
			Help:        "TryDequeue calls that found nothing to claim.",
			ConstLabels: labels,
		}),
		signalMisses: f.NewCounter(prometheus.CounterOpts{
			Name:        "interprocess_signal_wait_timeouts_total",
			Help:        "Blocking waits that elapsed their timeout without a wake-up signal.",
			ConstLabels: labels,
		}),
	}
}

func (m *Metrics) incPublished() {
	if m != nil {
		m.published.Inc()
	}
}

func (m *Metrics) incDequeued() {
	if m != nil {
		m.dequeued.Inc()
	}
}

func (m *Metrics) incQueueFull() {
	if m != nil {
		m.queueFull.Inc()
	}
}

func (m *Metrics) incQueueEmpty() {
	if m != nil {
		m.queueEmpty.Inc()
	}
}

func (m *Metrics) incSignalMiss() {
	if m != nil {
		m.signalMisses.Inc()
	}
}
