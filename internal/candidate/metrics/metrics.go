package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the candidate module. Tracks mutation
// counts and search latency.
type Metrics struct {
	CandidatesCreated   prometheus.Counter
	CandidatesUpdated   prometheus.Counter
	CandidatesDeleted   prometheus.Counter
	CandidatesGenerated prometheus.Counter
	SearchDuration      prometheus.Histogram
}

// New creates a Metrics instance with all candidate module metrics registered.
func New() *Metrics {
	return &Metrics{
		CandidatesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rollcall_candidates_created_total",
			Help: "Total number of candidates created",
		}),
		CandidatesUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rollcall_candidates_updated_total",
			Help: "Total number of candidates updated",
		}),
		CandidatesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rollcall_candidates_deleted_total",
			Help: "Total number of candidates deleted",
		}),
		CandidatesGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rollcall_candidates_generated_total",
			Help: "Total number of candidates synthesized by the generator",
		}),
		SearchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rollcall_candidate_search_duration_seconds",
			Help:    "Duration of candidate search operations",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
	}
}

// ObserveSearch records the duration of a search operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveSearch(start time.Time) {
	m.SearchDuration.Observe(time.Since(start).Seconds())
}
