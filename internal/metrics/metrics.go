package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AssessmentsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "maturity_assessments_created_total",
			Help: "Total number of assessments created",
		},
	)

	ResponsesStored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "maturity_responses_stored_total",
			Help: "Total number of question responses persisted",
		},
	)

	AssessmentsScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maturity_assessments_scored_total",
			Help: "Total number of scoring runs by resulting archetype",
		},
		[]string{"archetype"},
	)

	RecommendationsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maturity_recommendations_generated_total",
			Help: "Total number of recommendations generated by category",
		},
		[]string{"category"},
	)

	ScoringDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "maturity_scoring_duration_seconds",
			Help:    "Duration of response submission including scoring in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SummariesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maturity_summaries_generated_total",
			Help: "Total number of executive summaries by source",
		},
		[]string{"source"},
	)
)

// ObserveScoring records a scoring run duration.
func ObserveScoring(elapsed time.Duration) {
	ScoringDuration.Observe(elapsed.Seconds())
}
