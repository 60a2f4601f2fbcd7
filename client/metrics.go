package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nutriclaude_client",
			Name:      "requests_total",
			Help:      "Requests sent to the nutriclaude service by outcome.",
		},
		[]string{"method", "outcome"},
	)

	retriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nutriclaude_client",
			Name:      "retries_total",
			Help:      "Read requests attempted again after a transient failure.",
		},
	)
)
