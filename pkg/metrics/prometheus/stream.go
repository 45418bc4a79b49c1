// Package prometheus provides Prometheus-backed implementations of the
// jukecast metrics interfaces.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jukecast/jukecast/pkg/metrics"
)

// streamMetrics is the Prometheus implementation of metrics.StreamMetrics.
type streamMetrics struct {
	activeStreams  *prometheus.GaugeVec
	streamsTotal   *prometheus.CounterVec
	streamDuration *prometheus.HistogramVec
	bytesStreamed  *prometheus.CounterVec
	filesStreamed  *prometheus.CounterVec
	filesSkipped   *prometheus.CounterVec
}

// NewStreamMetrics creates a Prometheus-backed StreamMetrics instance,
// registering its collectors with reg.
func NewStreamMetrics(reg prometheus.Registerer) metrics.StreamMetrics {
	return &streamMetrics{
		activeStreams: promauto.With(reg).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "jukecast_active_streams",
				Help: "Number of stream sessions currently in progress per queue",
			},
			[]string{"queue"},
		),
		streamsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "jukecast_streams_total",
				Help: "Total number of finished stream sessions by outcome",
			},
			[]string{"queue", "outcome"}, // outcome: "completed", "disconnected", "cancelled", "aborted"
		),
		streamDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "jukecast_stream_duration_seconds",
				Help: "Duration of finished stream sessions in seconds",
				Buckets: []float64{
					1,    // short preview
					10,   //
					60,   // single track
					300,  // 5m
					900,  // 15m
					3600, // long-running radio listener
					14400,
				},
			},
			[]string{"queue"},
		),
		bytesStreamed: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "jukecast_streamed_bytes_total",
				Help: "Total bytes delivered to stream clients",
			},
			[]string{"queue"},
		),
		filesStreamed: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "jukecast_files_streamed_total",
				Help: "Total files fully delivered within stream sessions",
			},
			[]string{"queue"},
		),
		filesSkipped: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "jukecast_files_skipped_total",
				Help: "Total referenced files skipped because they could not be opened",
			},
			[]string{"queue"},
		),
	}
}

func (m *streamMetrics) RecordStreamStart(queue string) {
	m.activeStreams.WithLabelValues(queue).Inc()
}

func (m *streamMetrics) RecordStreamEnd(queue string, outcome string, duration time.Duration) {
	m.activeStreams.WithLabelValues(queue).Dec()
	m.streamsTotal.WithLabelValues(queue, outcome).Inc()
	m.streamDuration.WithLabelValues(queue).Observe(duration.Seconds())
}

func (m *streamMetrics) RecordBytesStreamed(queue string, bytes uint64) {
	m.bytesStreamed.WithLabelValues(queue).Add(float64(bytes))
}

func (m *streamMetrics) RecordFileStreamed(queue string) {
	m.filesStreamed.WithLabelValues(queue).Inc()
}

func (m *streamMetrics) RecordFileSkipped(queue string) {
	m.filesSkipped.WithLabelValues(queue).Inc()
}

// queueMetrics is the Prometheus implementation of metrics.QueueMetrics.
type queueMetrics struct {
	operations *prometheus.CounterVec
	queueCount prometheus.Gauge
}

// NewQueueMetrics creates a Prometheus-backed QueueMetrics instance,
// registering its collectors with reg.
func NewQueueMetrics(reg prometheus.Registerer) metrics.QueueMetrics {
	return &queueMetrics{
		operations: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "jukecast_queue_operations_total",
				Help: "Total queue mutation operations by type and status",
			},
			[]string{"operation", "status"}, // status: "ok", "error"
		),
		queueCount: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "jukecast_queues",
				Help: "Number of currently registered queues",
			},
		),
	}
}

func (m *queueMetrics) RecordOperation(op string, success bool) {
	status := "ok"
	if !success {
		status = "error"
	}
	m.operations.WithLabelValues(op, status).Inc()
}

func (m *queueMetrics) SetQueueCount(count int) {
	m.queueCount.Set(float64(count))
}
