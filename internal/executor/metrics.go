package executor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	executionsTotal = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "paramset_executions_total",
			Help: "Number of config executions, differentiated by result type.",
		},
		[]string{"result"},
	)

	executionDuration = promauto.NewHistogram( //nolint:gochecknoglobals
		prometheus.HistogramOpts{
			Name:    "paramset_execution_duration_seconds",
			Help:    "Duration of the external update call of a config execution.",
			Buckets: prometheus.DefBuckets,
		},
	)
)
