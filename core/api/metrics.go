package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gea",
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "Requests sent to the backend API by method and response status.",
	}, []string{"method", "status"})

	refreshesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gea",
		Subsystem: "api",
		Name:      "token_refreshes_total",
		Help:      "Token refresh attempts by result.",
	}, []string{"result"})
)
