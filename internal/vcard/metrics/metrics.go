package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for vCard imports. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	// Imports by outcome: "imported", "invalid", "failed"
	Imports *prometheus.CounterVec

	DecodeLatency prometheus.Histogram

	// Vocabulary cache lookups by kind and result: "hit", "miss", "created"
	VocabularyLookups *prometheus.CounterVec

	// Decoded entities by collection
	EntitiesDecoded *prometheus.CounterVec
}

// New creates a Metrics instance registered with the default registry.
func New() *Metrics {
	return &Metrics{
		Imports: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vcard_imports_total",
			Help: "Total vCard imports by outcome",
		}, []string{"outcome"}),

		DecodeLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vcard_decode_duration_seconds",
			Help:    "Duration of decoding one vCard document",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),

		VocabularyLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vcard_vocabulary_lookups_total",
			Help: "Vocabulary cache lookups by kind and result",
		}, []string{"kind", "result"}),

		EntitiesDecoded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vcard_entities_decoded_total",
			Help: "Entities decoded by contact collection",
		}, []string{"collection"}),
	}
}

// IncrementImport records an import outcome.
func (m *Metrics) IncrementImport(outcome string) {
	if m != nil {
		m.Imports.WithLabelValues(outcome).Inc()
	}
}

// ObserveDecodeLatency records how long one decode took.
func (m *Metrics) ObserveDecodeLatency(d time.Duration) {
	if m != nil {
		m.DecodeLatency.Observe(d.Seconds())
	}
}

// ObserveEntities adds per-collection entity counts.
func (m *Metrics) ObserveEntities(counts map[string]int) {
	if m == nil {
		return
	}
	for collection, n := range counts {
		m.EntitiesDecoded.WithLabelValues(collection).Add(float64(n))
	}
}

func (m *Metrics) IncrementVocabularyHit(kind string) {
	if m != nil {
		m.VocabularyLookups.WithLabelValues(kind, "hit").Inc()
	}
}

func (m *Metrics) IncrementVocabularyMiss(kind string) {
	if m != nil {
		m.VocabularyLookups.WithLabelValues(kind, "miss").Inc()
	}
}

func (m *Metrics) IncrementVocabularyCreated(kind string) {
	if m != nil {
		m.VocabularyLookups.WithLabelValues(kind, "created").Inc()
	}
}
