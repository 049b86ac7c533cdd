// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// VotesTotal counts ballots by outcome ("accepted", "rejected", "error").
	VotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bantora",
		Name:      "votes_total",
		Help:      "Votes submitted, partitioned by outcome.",
	}, []string{"outcome"})

	IdeasSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bantora",
		Name:      "ideas_submitted_total",
		Help:      "Ideas accepted for review.",
	})

	IdeasPromoted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bantora",
		Name:      "ideas_promoted_total",
		Help:      "Ideas turned into polls by the promotion job.",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bantora",
		Name:      "http_requests_total",
		Help:      "HTTP requests served, partitioned by route pattern and status class.",
	}, []string{"route", "status"})
)
