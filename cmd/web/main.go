package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"golang.org/x/sync/errgroup"

	"github.com/jusunglee/copticname/internal/converter"
	"github.com/jusunglee/copticname/internal/logger"
	"github.com/jusunglee/copticname/internal/speech"
	"github.com/jusunglee/copticname/internal/web"
)

func main() {
	if err := mainE(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
	slog.Info("exiting without error")
}

func mainE() error {
	_ = godotenv.Load()

	fs := ff.NewFlagSet("coptic-web")

	var (
		port          = fs.Int64Long("port", 3000, "HTTP server port")
		espeakPath    = fs.StringLong("espeak-path", "espeak-ng", "espeak-ng binary used for the speak endpoint")
		speakAPIKey   = fs.StringLong("speak-api-key", "", "API key required on the speak endpoint (empty disables)")
		rateLimit     = fs.IntLong("rate-limit", 30, "requests per IP per rate window")
		rateWindow    = fs.DurationLong("rate-window", time.Minute, "rate limit window")
		cacheBytes    = fs.Int64Long("speech-cache-bytes", 64<<20, "PCM bytes of synthesized audio kept in memory")
		synthPerSec   = fs.IntLong("synth-per-second", 10, "espeak-ng invocations allowed per second")
		shutdownGrace = fs.DurationLong("shutdown-timeout", 10*time.Second, "time allowed for in-flight requests on shutdown")
	)

	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVars()); err != nil {
		fmt.Printf("%s\n", ffhelp.Flags(fs))
		return fmt.Errorf("parsing flags: %w", err)
	}

	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := speech.NewESpeakEngine(speech.ESpeakConfig{
		Path:              *espeakPath,
		RequestsPerSecond: *synthPerSec,
	})
	if err := engine.Available(); err != nil {
		log.WarnContext(ctx, "speech disabled until espeak-ng is installed", "error", err)
	}
	speaker := speech.NewSpeaker(engine, nil,
		speech.WithCache(speech.NewCache(*cacheBytes)),
		speech.WithLogger(log),
	)

	router := web.NewRouter(converter.New(converter.WithLogger(log)), speaker, log, web.Config{
		RateLimit:   *rateLimit,
		RateWindow:  *rateWindow,
		SpeakAPIKey: *speakAPIKey,
	})
	defer router.Close()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", *port),
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.InfoContext(gctx, "starting web server", "port", *port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.InfoContext(gctx, "shutting down gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), *shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
