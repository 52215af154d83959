// Package metrics exposes the service's Prometheus counters and the
// /metrics handler.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ReceiptsCreated counts shared expenses successfully recorded
	ReceiptsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tripsplit_receipts_created_total",
		Help: "Number of receipts created.",
	})

	// SettlementsComputed counts settlement aggregations served
	SettlementsComputed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tripsplit_settlements_computed_total",
		Help: "Number of settlement summaries computed.",
	})
)

// Handler returns the HTTP handler serving the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
