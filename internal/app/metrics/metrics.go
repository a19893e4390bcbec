package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upload outcomes
const (
	OutcomeSuccess   = "success"
	OutcomeTransport = "transport_error"
	OutcomeMalformed = "malformed_response"
	OutcomeRejected  = "rejected"
)

// Recorder collects upload metrics on its own registry.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry
	uploads  *prometheus.CounterVec
	duration prometheus.Histogram
	busy     prometheus.Gauge
}

// NewRecorder creates a recorder with Go runtime collectors registered
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()

	r := &Recorder{
		registry: registry,
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "whisper_ui",
			Name:      "uploads_total",
			Help:      "Upload attempts by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "whisper_ui",
			Name:      "upload_duration_seconds",
			Help:      "Time from submit to service response.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		busy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "whisper_ui",
			Name:      "upload_in_flight",
			Help:      "1 while a transcription request is outstanding.",
		}),
	}

	registry.MustRegister(
		r.uploads,
		r.duration,
		r.busy,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveUpload records one finished upload
func (r *Recorder) ObserveUpload(outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.uploads.WithLabelValues(outcome).Inc()
	r.duration.Observe(elapsed.Seconds())
}

// ObserveRejected records a submit refused before the network
func (r *Recorder) ObserveRejected() {
	if r == nil {
		return
	}
	r.uploads.WithLabelValues(OutcomeRejected).Inc()
}

// SetBusy mirrors the busy flag
func (r *Recorder) SetBusy(busy bool) {
	if r == nil {
		return
	}
	if busy {
		r.busy.Set(1)
	} else {
		r.busy.Set(0)
	}
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
