package tree

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Validation outcomes recorded in validationsTotal.
const (
	resultOK          = "ok"
	resultRoot        = "root"
	resultPlaceholder = "placeholder"
	resultDuplicate   = "duplicate"
	resultCycle       = "cycle"
	resultUnknown     = "unknown"
)

var (
	validationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "notetree",
		Subsystem: "tree",
		Name:      "validations_total",
		Help:      "Parent/child validations by outcome.",
	}, []string{"result"})

	cycleCheckVisited = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "notetree",
		Subsystem: "tree",
		Name:      "cycle_check_visited",
		Help:      "Notes visited by a single cycle check.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
	})
)
