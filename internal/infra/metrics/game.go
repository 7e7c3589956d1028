package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		evaluations,
		evaluationScore,
		levelUps,
		gameCompletions,
	)
}

var (
	evaluations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "game_evaluations_total",
			Help: "Evaluated turns per level and pass/fail outcome.",
		},
		[]string{"level", "passed"},
	)

	evaluationScore = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "game_evaluation_score",
			Help:    "Total score distribution per level.",
			Buckets: []float64{10, 25, 40, 55, 70, 77, 85, 90, 95, 100},
		},
		[]string{"level"},
	)

	levelUps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "game_level_ups_total",
			Help: "Level transitions per level passed.",
		},
		[]string{"level"},
	)

	gameCompletions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "game_completions_total",
			Help: "Sessions that finished the last level.",
		},
	)
)

func ObserveEvaluation(level int, score float64, passed bool) {
	lvl := strconv.Itoa(level)
	evaluations.WithLabelValues(lvl, strconv.FormatBool(passed)).Inc()
	evaluationScore.WithLabelValues(lvl).Observe(score)
}

func IncLevelUp(level int) {
	levelUps.WithLabelValues(strconv.Itoa(level)).Inc()
}

func IncGameCompletion() {
	gameCompletions.Inc()
}
