package revisions

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var revisionsErased = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "notetree",
	Subsystem: "revisions",
	Name:      "erased_total",
	Help:      "Revision erase attempts by result.",
}, []string{"result"})
