// Package observability holds the Prometheus collectors of a dbchat process.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

var (
	connectAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dbchat_connect_attempts_total",
			Help: "Total number of connect attempts by outcome.",
		},
		[]string{"outcome"},
	)

	turnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dbchat_turns_total",
			Help: "Total number of conversation turns by outcome.",
		},
		[]string{"outcome"},
	)

	turnDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dbchat_turn_duration_seconds",
			Help:    "Wall time of a conversation turn, agent included.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
	)

	agentToolCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dbchat_agent_tool_calls_total",
			Help: "Total number of tool calls issued by the SQL agent.",
		},
		[]string{"tool"},
	)
)

func init() {
	prometheus.MustRegister(
		connectAttemptsTotal,
		turnsTotal,
		turnDurationSeconds,
		agentToolCallsTotal,
	)
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}

// ObserveConnect records one connect attempt.
func ObserveConnect(err error) {
	connectAttemptsTotal.WithLabelValues(outcome(err)).Inc()
}

// ObserveTurn records one conversation turn.
func ObserveTurn(err error, elapsed time.Duration) {
	turnsTotal.WithLabelValues(outcome(err)).Inc()
	turnDurationSeconds.Observe(elapsed.Seconds())
}

// IncrementToolCall records one agent tool call.
func IncrementToolCall(tool string) {
	agentToolCallsTotal.WithLabelValues(tool).Inc()
}
