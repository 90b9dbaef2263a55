package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Conversion metrics.
var (
	ConversionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coptic_conversions_total",
		Help: "Name conversions by input script",
	}, []string{"script"})

	EmptyInputsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coptic_empty_inputs_total",
		Help: "Conversions short-circuited on empty input",
	})

	ConversionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "coptic_conversion_duration_seconds",
		Help:    "Time spent in the transliteration pipeline",
		Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005},
	})
)

// Speech metrics.
var (
	SpeechRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coptic_speech_requests_total",
		Help: "Speech requests by result",
	}, []string{"result"})

	SpeechVoiceSelections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coptic_speech_voice_selections_total",
		Help: "Voice selections by outcome (arabic or fallback)",
	}, []string{"outcome"})

	SynthesisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "coptic_speech_synthesis_duration_seconds",
		Help:    "Speech synthesis call duration in seconds",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})

	SpeechCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coptic_speech_cache_lookups_total",
		Help: "Synthesized audio cache lookups by result",
	}, []string{"result"})
)

// Web server metrics.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coptic_http_requests_total",
		Help: "Total HTTP requests by route, method, and status code",
	}, []string{"route", "method", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "coptic_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"route", "method"})

	RateLimitHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coptic_rate_limit_hits_total",
		Help: "Total rate limit rejections by surface",
	}, []string{"surface"})
)

// Bot metrics.
var (
	BotCommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coptic_bot_commands_total",
		Help: "Discord commands handled by command and result",
	}, []string{"command", "result"})
)
