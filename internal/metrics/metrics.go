package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var AccessDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "versioncontrol_access_decisions_total",
	Help: "Number of write access evaluations by outcome",
}, []string{"outcome"})

var EntityEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "versioncontrol_entity_events_total",
	Help: "Number of entity lifecycle events dispatched",
}, []string{"kind", "action"})

var HookFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "versioncontrol_hook_failures_total",
	Help: "Number of hook observers that failed to handle an event",
}, []string{"observer"})

var AttributionRebinds = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "versioncontrol_attribution_rebinds_total",
	Help: "Number of operation rows whose resolved uid was changed",
}, []string{"direction"})
