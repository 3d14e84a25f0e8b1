// Package metrics exports navigation events as Prometheus metrics.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/wricardo/tilenav/observability"
)

// Observer implements observability.Observer by updating collectors
// registered on a prometheus.Registerer.
type Observer struct {
	searchTotal    *prometheus.CounterVec
	searchDuration prometheus.Histogram
	searchExpanded prometheus.Histogram
	pathLength     prometheus.Histogram
	cellToggles    *prometheus.CounterVec
	agentSteps     prometheus.Counter
}

// NewObserver registers the navigation collectors on reg. Pass
// prometheus.DefaultRegisterer to expose them through promhttp.Handler.
func NewObserver(reg prometheus.Registerer) *Observer {
	factory := promauto.With(reg)
	return &Observer{
		// searchTotal counts searches by outcome and failure reason
		searchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tilenav_path_search_total",
			Help: "Total path searches by result and reason",
		}, []string{"result", "reason"}),

		searchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tilenav_path_search_duration_seconds",
			Help:    "Path search duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00001, 2, 14), // 10µs to ~80ms
		}),

		searchExpanded: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tilenav_path_search_expanded_nodes",
			Help:    "Nodes expanded per path search",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
		}),

		pathLength: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tilenav_path_length_cells",
			Help:    "Waypoints per found path",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 200},
		}),

		cellToggles: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tilenav_cell_toggle_total",
			Help: "Total walkability toggles by resulting state",
		}, []string{"walkable"}),

		agentSteps: factory.NewCounter(prometheus.CounterOpts{
			Name: "tilenav_agent_steps_total",
			Help: "Total cells walked by agents",
		}),
	}
}

// RegisterSessionGauge exports count as the number of sessions held in
// memory. It is sampled on every scrape, so sessions loaded from disk or
// dropped by cleanup are reflected without events.
func RegisterSessionGauge(reg prometheus.Registerer, count func() int) prometheus.GaugeFunc {
	return promauto.With(reg).NewGaugeFunc(prometheus.GaugeOpts{
		Name: "tilenav_active_sessions",
		Help: "Sessions currently held in memory",
	}, func() float64 {
		return float64(count())
	})
}

// OnEvent implements observability.Observer.
func (o *Observer) OnEvent(ctx context.Context, event observability.Event) {
	switch event.Type {
	case observability.EventSearchComplete:
		o.recordSearch(event.Data)
	case observability.EventCellToggled:
		walkable, _ := event.Data["walkable"].(bool)
		o.cellToggles.WithLabelValues(strconv.FormatBool(walkable)).Inc()
	case observability.EventAgentMoved:
		if steps, ok := event.Data["steps"].(int); ok {
			o.agentSteps.Add(float64(steps))
		}
	}
}

func (o *Observer) recordSearch(data map[string]any) {
	found, _ := data["found"].(bool)
	reason, _ := data["reason"].(string)

	result := "found"
	if !found {
		result = "failed"
	}
	o.searchTotal.WithLabelValues(result, reason).Inc()

	if d, ok := data["duration"].(time.Duration); ok {
		o.searchDuration.Observe(d.Seconds())
	}
	if expanded, ok := data["expanded"].(int); ok {
		o.searchExpanded.Observe(float64(expanded))
	}
	if length, ok := data["path_length"].(int); ok && found {
		o.pathLength.Observe(float64(length))
	}
}
