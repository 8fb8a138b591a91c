package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	EvaluationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "truth_meter_evaluation_duration_seconds",
			Help:    "End-to-end evaluation pipeline duration in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"provider"},
	)

	EvaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "truth_meter_evaluations_total",
			Help: "Total number of evaluation runs",
		},
		[]string{"provider", "status"},
	)

	DegradedResponses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "truth_meter_degraded_responses_total",
			Help: "Candidate-model calls that produced an error sentinel instead of an answer",
		},
		[]string{"provider"},
	)

	AccuracyScores = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "truth_meter_accuracy_score",
			Help:    "Judge-assigned accuracy scores",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 95, 100},
		},
	)

	QuestionsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "truth_meter_questions_created_total",
			Help: "Total questions created",
		},
	)

	QuestionsDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "truth_meter_questions_deleted_total",
			Help: "Total questions deleted",
		},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "truth_meter_cache_hits_total",
			Help: "Analytics cache hits",
		},
		[]string{"query"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "truth_meter_cache_misses_total",
			Help: "Analytics cache misses",
		},
		[]string{"query"},
	)
)

func Init() {
	prometheus.MustRegister(EvaluationDuration)
	prometheus.MustRegister(EvaluationsTotal)
	prometheus.MustRegister(DegradedResponses)
	prometheus.MustRegister(AccuracyScores)
	prometheus.MustRegister(QuestionsCreated)
	prometheus.MustRegister(QuestionsDeleted)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
