package filter

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/loghive/logsearch/query"
)

// MustRegisterMetrics will register all filter related metrics on the given
// registry. If metrics with the same name already exist on the registry this
// function will panic.
func MustRegisterMetrics(registry *prometheus.Registry) {
	registry.MustRegister(clausesTotal)
}

func sampleClause(c query.Clause) {
	clausesTotal.With(prometheus.Labels{
		"mode":    c.Mode.String(),
		"negated": strconv.FormatBool(c.Negate),
	}).Inc()
}

var clausesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "filter_clauses_total",
		Help: "Total of filter clauses appended to search queries",
	},
	[]string{"mode", "negated"},
)
