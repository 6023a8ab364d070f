package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "kumitsu_http_requests_total",
	Help: "HTTP requests by method, route pattern and status code",
}, []string{"method", "route", "status"})

var HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "kumitsu_http_request_duration_seconds",
	Help:    "Duration of HTTP requests by method and route pattern",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "route"})

var LiveEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "kumitsu_live_events_total",
	Help: "Live updates published to tournament rooms, by message type",
}, []string{"type"})

var LiveClients = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "kumitsu_live_clients",
	Help: "Websocket clients currently connected",
})

// Publisher is anything that pushes live updates for a tournament.
type Publisher interface {
	Publish(tournamentID int, messageType string, payload any)
}

type countingPublisher struct {
	next Publisher
}

// CountEvents wraps next so every published message is counted by type.
func CountEvents(next Publisher) Publisher {
	return &countingPublisher{next: next}
}

func (p *countingPublisher) Publish(tournamentID int, messageType string, payload any) {
	LiveEventsTotal.WithLabelValues(messageType).Inc()
	p.next.Publish(tournamentID, messageType, payload)
}
