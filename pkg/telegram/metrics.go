package telegram

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Telegram bot metrics
var (
	commandsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expenses_bot_commands_processed_total",
			Help: "Total number of processed commands by type",
		},
		[]string{"command"}, // start
	)

	messagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expenses_bot_messages_processed_total",
			Help: "Total number of processed messages by type",
		},
		[]string{"type"}, // text, voice
	)

	expensesRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "expenses_bot_expenses_recorded_total",
			Help: "Total number of expense rows appended to the ledger",
		},
	)

	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expenses_bot_errors_total",
			Help: "Total number of errors by type",
		},
		[]string{"type"}, // download_file, transcription, extraction, ledger
	)

	transcriptionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "expenses_bot_transcription_duration_seconds",
			Help:    "Duration of voice transcription in seconds",
			Buckets: []float64{0.5, 1.5, 2.5, 3.5, 5, 10},
		},
	)

	recordDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "expenses_bot_record_duration_seconds",
			Help:    "Duration of expense extraction plus ledger append in seconds",
			Buckets: []float64{0.5, 1.5, 2.5, 3.5},
		},
	)
)
