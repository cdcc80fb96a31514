package protocol

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	failureUnknownVertex   = "unknown_vertex"
	failureMissingAck      = "missing_ack"
	failureMalformedInput  = "malformed_request"
	failureNoRoute         = "no_route"
	failurePeerEndedStream = "peer_ended"
)

// Metrics session counters.
type Metrics struct {
	Sessions         prometheus.Counter
	Requests         prometheus.Counter
	Waypoints        prometheus.Counter
	AckRetries       prometheus.Counter
	Comments         prometheus.Counter
	DeliveryFailures *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Sessions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "navigatorx",
			Subsystem: "session",
			Name:      "sessions_total",
			Help:      "The total number of protocol sessions served",
		}),
		Requests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "navigatorx",
			Subsystem: "session",
			Name:      "path_requests_total",
			Help:      "The total number of path requests received",
		}),
		Waypoints: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "navigatorx",
			Subsystem: "session",
			Name:      "waypoints_sent_total",
			Help:      "The total number of waypoints written to the peer",
		}),
		AckRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "navigatorx",
			Subsystem: "session",
			Name:      "ack_retries_total",
			Help:      "The number of lines or timeouts received while waiting for an acknowledgement",
		}),
		Comments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "navigatorx",
			Subsystem: "session",
			Name:      "comments_total",
			Help:      "The number of comment lines skipped",
		}),
		DeliveryFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "navigatorx",
			Subsystem: "session",
			Name:      "delivery_failures_total",
			Help:      "The number of requests whose waypoint delivery did not complete",
		}, []string{"reason"}),
	}
	reg.MustRegister(m.Sessions, m.Requests, m.Waypoints, m.AckRetries, m.Comments, m.DeliveryFailures)
	return m
}
