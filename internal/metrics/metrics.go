package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "profile_uploads_total",
		Help: "Media uploads by asset class and outcome.",
	}, []string{"class", "status"})

	EventsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "profile_events_recorded_total",
		Help: "Interaction events recorded by type.",
	}, []string{"event_type"})
)

// Handler returns an http.Handler for Prometheus scraping
func Handler() http.Handler {
	return promhttp.Handler()
}
