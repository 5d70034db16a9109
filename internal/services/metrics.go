package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Provider calls by operation and reported status ("error" for transport failures)
	providerRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "companyinfo_provider_requests_total",
			Help: "Total number of places provider requests",
		},
		[]string{"operation", "status"},
	)

	enrichmentPlacesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "companyinfo_enrichment_places_total",
			Help: "Places processed by detail enrichment, by outcome",
		},
		[]string{"outcome"},
	)

	searchCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "companyinfo_search_cache_total",
			Help: "Search requests served from cache (hit) or fetched (miss)",
		},
		[]string{"result"},
	)
)
