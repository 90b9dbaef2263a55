package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/jusunglee/copticname/internal/bot"
	"github.com/jusunglee/copticname/internal/converter"
	"github.com/jusunglee/copticname/internal/envsetup"
	"github.com/jusunglee/copticname/internal/health"
	"github.com/jusunglee/copticname/internal/logger"
	"github.com/jusunglee/copticname/internal/speech"
)

const envFile = ".env"

func main() {
	if err := mainE(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func mainE() error {
	_ = godotenv.Load(envFile)

	fs := ff.NewFlagSet("coptic-bot")
	var (
		setup        = fs.BoolLong("setup", "run the configuration wizard and exit")
		discordToken = fs.StringLong("discord-token", "", "Discord bot token")
		guildID      = fs.StringLong("discord-guild-id", "", "register commands to this guild only")
		espeakPath   = fs.StringLong("espeak-path", "espeak-ng", "espeak-ng binary used for recordings")
		healthPort   = fs.IntLong("health-port", 8080, "port for /health and /metrics")
		cacheBytes   = fs.Int64Long("speech-cache-bytes", 32<<20, "PCM bytes of synthesized audio kept in memory")
		timeout      = fs.DurationLong("command-timeout", 30*time.Second, "time allowed to answer one command")
	)

	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVars()); err != nil {
		fmt.Printf("%s\n", ffhelp.Flags(fs))
		return fmt.Errorf("parsing flags: %w", err)
	}

	if *setup {
		saved, err := envsetup.Run(envFile)
		if err != nil {
			return fmt.Errorf("running setup: %w", err)
		}
		if saved {
			fmt.Printf("Saved %s. Start the bot again without --setup.\n", envFile)
		}
		return nil
	}

	if *discordToken == "" {
		if envsetup.NeedsSetup(envFile) {
			return fmt.Errorf("discord-token is required; run with --setup to create %s", envFile)
		}
		return errors.New("discord-token is required")
	}

	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := speech.NewESpeakEngine(speech.ESpeakConfig{Path: *espeakPath})
	var synth bot.Synthesizer
	if err := engine.Available(); err != nil {
		log.WarnContext(ctx, "recordings disabled", "error", err)
	} else {
		synth = speech.NewSpeaker(engine, nil,
			speech.WithCache(speech.NewCache(*cacheBytes)),
			speech.WithLogger(log),
		)
	}

	dg, err := discordgo.New("Bot " + *discordToken)
	if err != nil {
		return fmt.Errorf("creating Discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	b := bot.New(log, bot.NewDiscordSession(dg), converter.New(converter.WithLogger(log)), synth, bot.Config{
		GuildID:        *guildID,
		CommandTimeout: *timeout,
	})

	healthServer := health.New(*healthPort, engine)
	healthServer.Handle("GET /metrics", promhttp.Handler())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return b.Run(gctx)
	})
	g.Go(func() error {
		log.InfoContext(gctx, "starting health server", "port", *healthPort)
		return healthServer.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return healthServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
