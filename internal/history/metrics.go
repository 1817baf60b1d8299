package history

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var commandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "gitbridge",
	Name:      "git_commands_total",
	Help:      "Mutating git commands dispatched through the facade.",
}, []string{"op", "outcome"})
