// Package metrics provides Prometheus instrumentation for the chat client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ConnectionsActive tracks whether a websocket session is currently open.
	ConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_ws_connections_active",
			Help: "Number of active chat websocket sessions",
		},
	)

	// FramesReceived tracks inbound frames by type.
	FramesReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_ws_frames_received_total",
			Help: "Inbound websocket frames by frame type",
		},
		[]string{"type"},
	)

	// FramesSent tracks outbound frames by type.
	FramesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_ws_frames_sent_total",
			Help: "Outbound websocket frames by frame type",
		},
		[]string{"type"},
	)

	// MalformedFrames tracks frames that failed to decode.
	MalformedFrames = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_ws_frames_malformed_total",
			Help: "Inbound frames discarded because they failed to parse",
		},
	)

	// DroppedChunks tracks text deltas discarded because no assistant
	// placeholder was open to receive them.
	DroppedChunks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_stream_chunks_dropped_total",
			Help: "Text chunks ignored because no streaming placeholder was open",
		},
	)

	// RejectedSends tracks sendMessage calls refused by the facade.
	RejectedSends = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_sends_rejected_total",
			Help: "Send attempts rejected by the client",
		},
		[]string{"reason"},
	)

	// TurnDuration tracks how long a streamed assistant turn takes from send
	// to completion.
	TurnDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chat_turn_duration_seconds",
			Help:    "Duration of one streamed assistant turn",
			Buckets: []float64{.25, .5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
	)

	// TurnsTotal tracks completed turns by outcome.
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_turns_total",
			Help: "Completed assistant turns by outcome",
		},
		[]string{"outcome"},
	)
)

// RecordFrameReceived records one inbound frame.
func RecordFrameReceived(frameType string) {
	FramesReceived.WithLabelValues(frameType).Inc()
}

// RecordFrameSent records one outbound frame.
func RecordFrameSent(frameType string) {
	FramesSent.WithLabelValues(frameType).Inc()
}

// RecordTurn records one finished turn with its outcome and duration.
func RecordTurn(outcome string, seconds float64) {
	TurnsTotal.WithLabelValues(outcome).Inc()
	TurnDuration.Observe(seconds)
}
