package app

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	reg *prometheus.Registry

	drawEvents      *prometheus.CounterVec
	completions     *prometheus.CounterVec
	persistFailures prometheus.Counter
	droppedFrames   prometheus.Counter
}

func NewMetrics(registry *Registry) *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		drawEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sketch_draw_events_total",
			Help: "Draw events accepted, by shape type.",
		}, []string{"shape_type"}),
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sketch_completions_total",
			Help: "Synthesized shape completions, by detected label.",
		}, []string{"label"}),
		persistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sketch_persist_failures_total",
			Help: "Draw events rejected because the event store failed.",
		}),
		droppedFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sketch_dropped_frames_total",
			Help: "Outbound frames dropped for slow or closed peers.",
		}),
	}
	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.drawEvents,
		m.completions,
		m.persistFailures,
		m.droppedFrames,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "sketch_ws_connections_active",
			Help: "Live authenticated connections.",
		}, func() float64 { return float64(registry.ConnectionCount()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "sketch_ws_active_rooms",
			Help: "Rooms with at least one member.",
		}, func() float64 { return float64(registry.RoomCount()) }),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

func (m *Metrics) Gatherer() prometheus.Gatherer { return m.reg }

func (m *Metrics) DrawEvent(shapeType string) {
	if m == nil {
		return
	}
	m.drawEvents.WithLabelValues(shapeType).Inc()
}

func (m *Metrics) Completion(label string) {
	if m == nil {
		return
	}
	m.completions.WithLabelValues(label).Inc()
}

func (m *Metrics) PersistFailure() {
	if m == nil {
		return
	}
	m.persistFailures.Inc()
}

func (m *Metrics) DroppedFrames(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.droppedFrames.Add(float64(n))
}
