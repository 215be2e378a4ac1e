package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mmuslimabdulj/quickmeet/internal/domain"
)

// unknownIntent labels every intent type the session does not define.
// Types arrive from browsers, so they never become label values as-is.
const unknownIntent = "unknown"

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quickmeet_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quickmeet_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	activeRooms = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "quickmeet_active_rooms",
			Help: "Meeting rooms currently held in memory",
		},
	)

	wsActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "quickmeet_ws_active_connections",
			Help: "Open WebSocket connections",
		},
	)

	sessionsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quickmeet_sessions_created_total",
			Help: "Sessions created, by entry point",
		},
		[]string{"via"},
	)

	sessionsEnded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quickmeet_sessions_ended_total",
			Help: "Sessions ended with end call",
		},
	)

	intentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quickmeet_intents_total",
			Help: "Intents applied to sessions, by type and result",
		},
		[]string{"intent", "result"},
	)

	chatMessages = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quickmeet_chat_messages_total",
			Help: "Chat messages appended to transcripts",
		},
	)
)

// RecordHTTP records one served request
func RecordHTTP(method, route string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func SetActiveRooms(n int) {
	activeRooms.Set(float64(n))
}

func IncrementWSConnections() {
	wsActiveConnections.Inc()
}

func DecrementWSConnections() {
	wsActiveConnections.Dec()
}

// SessionCreated counts a new session; via is "create", "join" or "link"
func SessionCreated(via string) {
	sessionsCreated.WithLabelValues(via).Inc()
}

func SessionEnded() {
	sessionsEnded.Inc()
}

// IntentApplied counts one dispatched intent
func IntentApplied(intent domain.IntentType, err error) {
	label := unknownIntent
	if intent.Known() {
		label = string(intent)
	}
	result := "ok"
	if err != nil {
		result = "rejected"
	}
	intentsTotal.WithLabelValues(label, result).Inc()
}

func ChatMessageSent() {
	chatMessages.Inc()
}
