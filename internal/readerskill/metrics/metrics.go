// Package metrics provides Prometheus metrics for the skill. Label values are
// drawn from fixed sets so unknown request types or intents cannot grow the
// series count.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label value used for anything outside the known sets.
const Unknown = "unknown"

// Outcomes of a handled intent.
const (
	OutcomeOK       = "ok"
	OutcomeUpsell   = "upsell"
	OutcomeApology  = "apology"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Upstream services.
const (
	ServiceFeed    = "feed"
	ServiceCatalog = "catalog"
)

var (
	// RequestsTotal counts inbound requests by request type.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "redditreader_requests_total",
		Help: "Total number of skill requests, by request type.",
	}, []string{"type"})

	// IntentsTotal counts dispatched intents by intent name and outcome.
	IntentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "redditreader_intents_total",
		Help: "Total number of intents handled, by intent and outcome.",
	}, []string{"intent", "outcome"})

	// PurchaseResultsTotal counts purchase callbacks by result code and token.
	PurchaseResultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "redditreader_purchase_results_total",
		Help: "Total number of purchase connection responses, by result and token.",
	}, []string{"result", "token"})

	// UpstreamFailuresTotal counts failed upstream calls by service.
	UpstreamFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "redditreader_upstream_failures_total",
		Help: "Total number of failed upstream calls, by service.",
	}, []string{"service"})
)

// Label returns v when it is one of known, Unknown otherwise.
func Label(v string, known ...string) string {
	for _, k := range known {
		if v == k {
			return v
		}
	}
	return Unknown
}
