// Package metrics exposes the service's Prometheus counters.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	linksCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "links_created_total",
		Help: "Total short links created.",
	})
	redirects = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "redirect_requests_total",
		Help: "Total redirects served.",
	})
	cacheHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_hit_total",
		Help: "Cache hits by lookup kind.",
	}, []string{"kind"})
	cacheMisses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_miss_total",
		Help: "Cache misses by lookup kind.",
	}, []string{"kind"})
	linksSwept = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "links_swept_total",
		Help: "Links removed by cleanup jobs.",
	}, []string{"job"})
)

func init() {
	prometheus.MustRegister(linksCreated, redirects, cacheHits, cacheMisses, linksSwept)
}

// LinkCreated records a successful link creation.
func LinkCreated() { linksCreated.Inc() }

// Redirect records a served redirect.
func Redirect() { redirects.Inc() }

// CacheHit records a cache hit for a lookup kind.
func CacheHit(kind string) { cacheHits.WithLabelValues(kind).Inc() }

// CacheMiss records a cache miss for a lookup kind.
func CacheMiss(kind string) { cacheMisses.WithLabelValues(kind).Inc() }

// LinksSwept records links removed by the named cleanup job.
func LinksSwept(job string, count int) { linksSwept.WithLabelValues(job).Add(float64(count)) }

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
