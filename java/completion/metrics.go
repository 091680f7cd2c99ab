package completion

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// queriesTotal counts resolved queries by location.
	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "caret",
		Subsystem: "completion",
		Name:      "queries_total",
		Help:      "Completion queries resolved, by location",
	}, []string{"location"})

	// staleTotal counts queries that failed because the class index was
	// being rebuilt.
	staleTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "caret",
		Subsystem: "completion",
		Name:      "stale_total",
		Help:      "Completion queries rejected by a stale class index",
	})

	queryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "caret",
		Subsystem: "completion",
		Name:      "query_duration_seconds",
		Help:      "Time spent resolving one completion query",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
	})
)

func recordQuery(loc Location, start time.Time) {
	queriesTotal.WithLabelValues(loc.String()).Inc()
	queryDuration.Observe(time.Since(start).Seconds())
}
