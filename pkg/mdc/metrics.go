package mdc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	compilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mdc_compiles_total",
			Help: "Total number of documents compiled by target",
		},
		[]string{"target"},
	)

	emptyBodiesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mdc_empty_bodies_total",
			Help: "Documents whose body was empty after frontmatter stripping",
		},
		[]string{"target"},
	)
)
