package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the relay client instruments. It implements client.Recorder.
type Metrics struct {
	FramesReceived *prometheus.CounterVec
	MessagesSent   *prometheus.CounterVec
	ForwardsTotal  *prometheus.CounterVec
	ForwardLatency prometheus.Histogram
	ForwardedBytes prometheus.Counter
}

// NewMetrics creates the instruments and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FramesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_frames_received_total",
			Help: "Frames received from the relay, by event type.",
		}, []string{"type"}),
		MessagesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_messages_sent_total",
			Help: "Control messages sent to the relay, by action.",
		}, []string{"action"}),
		ForwardsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_forwards_total",
			Help: "Webhook forwards, by outcome.",
		}, []string{"outcome"}),
		ForwardLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "relay_forward_latency_seconds",
			Help:    "Time from request start until the response body was fully streamed.",
			Buckets: prometheus.DefBuckets,
		}),
		ForwardedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relay_forward_response_bytes_total",
			Help: "Response body bytes written to the output sink.",
		}),
	}

	reg.MustRegister(
		m.FramesReceived,
		m.MessagesSent,
		m.ForwardsTotal,
		m.ForwardLatency,
		m.ForwardedBytes,
	)
	return m
}

func (m *Metrics) FrameReceived(eventType string) {
	m.FramesReceived.WithLabelValues(eventType).Inc()
}

func (m *Metrics) MessageSent(action string) {
	m.MessagesSent.WithLabelValues(action).Inc()
}

func (m *Metrics) ForwardCompleted(outcome string, latency time.Duration, bytes int64) {
	m.ForwardsTotal.WithLabelValues(outcome).Inc()
	m.ForwardLatency.Observe(latency.Seconds())
	m.ForwardedBytes.Add(float64(bytes))
}
