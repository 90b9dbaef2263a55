package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jusunglee/copticname/internal/converter"
	"github.com/jusunglee/copticname/internal/health"
	"github.com/jusunglee/copticname/internal/web/handlers"
	"github.com/jusunglee/copticname/internal/web/middleware"
)

// Config tunes the router's middleware.
type Config struct {
	// RateLimit is the number of convert or speak requests one IP may make
	// per RateWindow.
	RateLimit  int
	RateWindow time.Duration
	// SpeakAPIKey, when set, is required in X-API-Key on the speak route.
	SpeakAPIKey string
}

func DefaultConfig() Config {
	return Config{RateLimit: 30, RateWindow: time.Minute}
}

type Router struct {
	conv    *converter.Converter
	speaker Speaker
	log     *slog.Logger
	cfg     Config
	limiter *middleware.IPRateLimiter
}

// Speaker is what the router needs from speech: synthesis for the speak
// endpoint and a capability check for /health. A nil Speaker answers every
// speak request with 503.
type Speaker interface {
	handlers.Synthesizer
	health.SpeechChecker
}

func NewRouter(conv *converter.Converter, speaker Speaker, log *slog.Logger, cfg Config) *Router {
	return &Router{
		conv:    conv,
		speaker: speaker,
		log:     log,
		cfg:     cfg,
		limiter: middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow),
	}
}

// Close stops the rate limiter's cleanup goroutine.
func (r *Router) Close() {
	r.limiter.Stop()
}

func (r *Router) Handler() http.Handler {
	mux := http.NewServeMux()

	convertHandler := handlers.NewConvertHandler(r.conv, r.log)

	mux.Handle("GET /api/v1/convert",
		middleware.Chain(
			http.HandlerFunc(convertHandler.Get),
			middleware.PrometheusMetrics(),
			middleware.RequestLogger(r.log),
			middleware.RateLimit(r.limiter),
			middleware.CacheControl("public, max-age=86400"),
		),
	)

	mux.Handle("POST /api/v1/convert",
		middleware.Chain(
			http.HandlerFunc(convertHandler.Create),
			middleware.PrometheusMetrics(),
			middleware.RequestLogger(r.log),
			middleware.RateLimit(r.limiter),
		),
	)

	var speak http.Handler = http.HandlerFunc(speechUnavailable)
	var checker health.SpeechChecker
	if r.speaker != nil {
		speak = http.HandlerFunc(handlers.NewSpeakHandler(r.conv, r.speaker, r.log).Create)
		checker = r.speaker
	}
	mux.Handle("POST /api/v1/speak",
		middleware.Chain(
			speak,
			middleware.PrometheusMetrics(),
			middleware.RequestLogger(r.log),
			middleware.APIKeyAuth(r.cfg.SpeakAPIKey),
			middleware.RateLimit(r.limiter),
		),
	)

	mux.Handle("GET /health", health.Handler(checker))
	mux.Handle("GET /metrics", promhttp.Handler())

	return middleware.CORS(mux)
}

func speechUnavailable(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusServiceUnavailable)
	w.Write([]byte(`{"error":"` + converter.NoticeSpeechUnsupported + `"}` + "\n"))
}
