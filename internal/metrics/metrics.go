package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// URLsCreated counts successful shorten calls.
	URLsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shortkey_urls_created_total",
		Help: "Total number of short URLs created",
	})

	// Redirects counts successful resolves, labeled by which tier served them.
	Redirects = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shortkey_redirects_total",
		Help: "Total number of successful redirects by source tier",
	}, []string{"source"})

	// ClicksRecorded counts click events persisted by the worker pool.
	ClicksRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shortkey_clicks_recorded_total",
		Help: "Total number of click events recorded",
	})

	// ClicksDropped counts click events dropped because the queue was full or
	// the mapping was already gone.
	ClicksDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shortkey_clicks_dropped_total",
		Help: "Total number of click events dropped",
	})
)

// RegisterTotals exposes database row totals as gauges. The count functions
// are called on each scrape and should swallow their own errors.
func RegisterTotals(userCount, urlCount func() float64) {
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "shortkey_users_total",
		Help: "Total number of registered users",
	}, userCount)

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "shortkey_mappings_total",
		Help: "Total number of short URL mappings",
	}, urlCount)
}

// Handler returns the prometheus exposition handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
