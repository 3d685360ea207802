package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reporter holds the Prometheus instruments for the assessment core. It is
// handed to the orchestrator as an interface so nothing else in the process
// reaches for package-global state.
type Reporter struct {
	sessionsStarted      *prometheus.CounterVec
	responsesRecorded    prometheus.Counter
	testsCompleted       *prometheus.CounterVec
	assessmentsCompleted prometheus.Counter
	completionConflicts  prometheus.Counter
}

// New creates and registers all assessment metrics on the default registry.
func New() *Reporter {
	return &Reporter{
		sessionsStarted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "psymap_sessions_started_total",
			Help: "Assessment sessions started, by backing kind.",
		}, []string{"kind"}),
		responsesRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "psymap_responses_recorded_total",
			Help: "User responses upserted.",
		}),
		testsCompleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "psymap_tests_completed_total",
			Help: "Tests scored and completed, by test type.",
		}, []string{"test_type"}),
		assessmentsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "psymap_assessments_completed_total",
			Help: "Sessions that reached the end of their test sequence.",
		}),
		completionConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "psymap_completion_conflicts_total",
			Help: "Duplicate completions rejected by the conditional index advance.",
		}),
	}
}

func (r *Reporter) SessionStarted(demo bool) {
	kind := "persistent"
	if demo {
		kind = "demo"
	}
	r.sessionsStarted.WithLabelValues(kind).Inc()
}

func (r *Reporter) ResponseRecorded() {
	r.responsesRecorded.Inc()
}

func (r *Reporter) TestCompleted(testType string) {
	r.testsCompleted.WithLabelValues(testType).Inc()
}

func (r *Reporter) AssessmentCompleted() {
	r.assessmentsCompleted.Inc()
}

func (r *Reporter) CompletionConflict() {
	r.completionConflicts.Inc()
}
