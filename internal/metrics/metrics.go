// Package metrics holds Prometheus instruments that are used across the
// storefront core.  All collectors are registered with the global
// registry, so importing this package in main.go is enough to expose them
// on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ActiveStores = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_stores",
			Help: "Number of store configurations currently cached in memory.",
		})

	StoreLoadTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "store_load_total",
			Help: "Cumulative number of store configurations successfully loaded.",
		})

	StoreLoadErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "store_load_errors_total",
			Help: "Cumulative number of store configuration load errors.",
		})

	StoreEvictTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "store_evict_total",
			Help: "Cumulative number of stores evicted from the cache.",
		})

	ResolverRewritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolver_rewrites_total",
			Help: "Tenant resolutions by outcome (subdomain, custom_domain, path, passthrough).",
		},
		[]string{"kind"})

	CartOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_ops_total",
			Help: "Cart store operations by name and outcome.",
		},
		[]string{"op", "outcome"})

	AuthPurgeTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_purge_total",
			Help: "Cumulative number of credential purges triggered by 401 responses.",
		})
)

func init() {
	prometheus.MustRegister(
		ActiveStores,
		StoreLoadTotal,
		StoreLoadErrorsTotal,
		StoreEvictTotal,
		ResolverRewritesTotal,
		CartOpsTotal,
		AuthPurgeTotal,
	)
}
