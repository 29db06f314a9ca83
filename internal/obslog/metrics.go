package obslog

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	framesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sendplugin",
			Subsystem: "transport",
			Name:      "frames_sent_total",
			Help:      "Total frames written to the FSM socket.",
		},
		[]string{"kind"},
	)
	framesReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sendplugin",
			Subsystem: "transport",
			Name:      "frames_received_total",
			Help:      "Total frames read from the FSM socket.",
		},
		[]string{"kind"},
	)
	reconnects = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sendplugin",
			Subsystem: "transport",
			Name:      "reconnects_total",
			Help:      "Total times the plugin has re-dialed the FSM socket.",
		},
	)
	pendingRequests = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "sendplugin",
			Subsystem: "transport",
			Name:      "pending_requests",
			Help:      "Outbound requests currently awaiting an FSM response.",
		},
	)
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sendplugin",
			Subsystem: "transport",
			Name:      "request_duration_seconds",
			Help:      "Round-trip latency of sendSync calls.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)
	contractOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sendplugin",
			Subsystem: "contract",
			Name:      "tx_outcomes_total",
			Help:      "checkTx/deliverTx outcomes by handler and error code (0 = success).",
		},
		[]string{"handler", "code"},
	)
)

func RegisterMetrics(registry prometheus.Registerer) {
	registerOnce.Do(func() {
		registry.MustRegister(framesSent, framesReceived, reconnects, pendingRequests, requestDuration, contractOutcomes)
	})
}

func RecordFrameSent(kind string) { framesSent.WithLabelValues(kind).Inc() }

func RecordFrameReceived(kind string) { framesReceived.WithLabelValues(kind).Inc() }

func RecordReconnect() { reconnects.Inc() }

func SetPendingRequests(n int) { pendingRequests.Set(float64(n)) }

func RecordRequestDuration(outcome string, d time.Duration) {
	requestDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

func RecordContractOutcome(handler string, code uint32) {
	contractOutcomes.WithLabelValues(handler, strconv.FormatUint(uint64(code), 10)).Inc()
}
