package harvest

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records harvest runs in Prometheus.
type Metrics struct {
	documents   *prometheus.CounterVec
	duration    prometheus.Histogram
	unknownTags *prometheus.CounterVec
	references  prometheus.Counter
}

// NewMetrics creates the harvest metrics and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		documents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "harvester_documents_total",
				Help: "Total number of harvested documents by outcome",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "harvester_document_duration_seconds",
				Help:    "Time spent transforming one document",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
			},
		),
		unknownTags: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "harvester_unknown_tags_total",
				Help: "Total number of elements handled by the pass-through handler",
			},
			[]string{"tag"},
		),
		references: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "harvester_references_total",
				Help: "Total number of cross-references collected",
			},
		),
	}

	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.documents, m.duration, m.unknownTags, m.references} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(res Result, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.documents.WithLabelValues(res.Outcome()).Inc()
	m.duration.Observe(elapsed.Seconds())
	for _, w := range res.Warnings {
		m.unknownTags.WithLabelValues(w.Tag).Inc()
	}
	m.references.Add(float64(len(res.References)))
}
