package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "descent_runs_started_total",
		Help: "Number of descent runs accepted by the service.",
	})

	runsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "descent_runs_finished_total",
		Help: "Number of descent runs finished, by terminal status.",
	}, []string{"status"})
)
