// Package metrics holds the Prometheus collectors of the engine's host service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	BracketsGenerated    *prometheus.CounterVec
	DuplicateGenerations prometheus.Counter
	GenerationFailures   *prometheus.CounterVec
	PlaceholdersResolved prometheus.Counter
	LeagueRecomputes     *prometheus.CounterVec
	RecomputeDuration    prometheus.Histogram
	UnresolvedEntities   *prometheus.GaugeVec
	CacheLookups         *prometheus.CounterVec
}

// New registers every collector on a private registry, so tests can build as many as
// they like.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		BracketsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "brackets_generated_total",
			Help: "Knockout and group stages generated, by category format.",
		}, []string{"format", "stage"}),
		DuplicateGenerations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bracket_duplicate_generations_total",
			Help: "Generation requests that found the stage already generated.",
		}),
		GenerationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bracket_generation_failures_total",
			Help: "Generation requests rejected by a precondition, by reason.",
		}, []string{"reason"}),
		PlaceholdersResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bracket_placeholders_resolved_total",
			Help: "Matches whose placeholder slots were filled after a feeder finished.",
		}),
		LeagueRecomputes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "league_recomputes_total",
			Help: "Full league standings rebuilds, by trigger.",
		}, []string{"trigger"}),
		RecomputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "league_recompute_duration_seconds",
			Help:    "Duration of a full league standings rebuild.",
			Buckets: prometheus.DefBuckets,
		}),
		UnresolvedEntities: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "league_unresolved_participants",
			Help: "Placements without an entity link at the last rebuild.",
		}, []string{"league"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "standings_cache_lookups_total",
			Help: "Standings cache lookups, by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.BracketsGenerated,
		m.DuplicateGenerations,
		m.GenerationFailures,
		m.PlaceholdersResolved,
		m.LeagueRecomputes,
		m.RecomputeDuration,
		m.UnresolvedEntities,
		m.CacheLookups,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
