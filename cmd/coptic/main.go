package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/jusunglee/copticname/internal/audio"
	"github.com/jusunglee/copticname/internal/converter"
	"github.com/jusunglee/copticname/internal/logger"
	"github.com/jusunglee/copticname/internal/speech"
	"github.com/jusunglee/copticname/internal/tui"
)

func main() {
	if err := mainE(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func mainE() error {
	_ = godotenv.Load()

	fs := ff.NewFlagSet("coptic")
	var (
		speak      = fs.BoolLong("speak", "speak the Coptic name aloud")
		tuiMode    = fs.BoolLong("tui", "open the interactive form")
		verbose    = fs.BoolLong("verbose", "also print the detected script and the Arabic intermediate")
		espeakPath = fs.StringLong("espeak-path", "espeak-ng", "espeak-ng binary used for speech")
		logLevel   = fs.StringLong("log-level", "warn", "log level: debug, info, warn, error")
		logFormat  = fs.StringEnumLong("log-format", "log format", "pretty", "json")
	)

	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("COPTIC")); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs, "coptic [flags] NAME..."))
		if errors.Is(err, ff.ErrHelp) {
			return nil
		}
		return fmt.Errorf("parsing flags: %w", err)
	}

	log := logger.NewLogger(os.Stderr, logger.ParseLevel(*logLevel), *logFormat)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	display := converter.DisplayFunc(func(text string) {
		fmt.Fprintln(os.Stdout, text)
	})
	if *tuiMode {
		// The form renders results itself.
		display = func(string) {}
	}
	opts := []converter.Option{converter.WithLogger(log), converter.WithDisplay(display)}

	var speaker *speech.Speaker
	if *speak || *tuiMode {
		speaker = newSpeaker(ctx, log, *espeakPath)
		if speaker != nil {
			defer speaker.Close()
			opts = append(opts, converter.WithSpeaker(speaker))
		}
	}

	conv := converter.New(opts...)
	if *tuiMode {
		return tui.Run(ctx, conv)
	}

	names := fs.GetArgs()
	if len(names) == 0 && !isTerminal(os.Stdin) {
		return convertLines(ctx, conv, os.Stdin, *verbose)
	}

	name := strings.Join(names, " ")
	var res converter.Result
	if *speak {
		var err error
		res, err = conv.ConvertAndSpeak(ctx, name)
		if err != nil {
			return err
		}
		if speaker != nil && res.Notice == "" {
			if err := speaker.Wait(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("waiting for playback: %w", err)
			}
		}
	} else {
		res = conv.Convert(ctx, name)
	}

	if *verbose && !res.Empty {
		printDetails(os.Stdout, res)
	}
	return nil
}

// newSpeaker wires espeak-ng to the audio device. It returns nil when
// either is missing, which the converter reports as unsupported speech.
func newSpeaker(ctx context.Context, log *slog.Logger, espeakPath string) *speech.Speaker {
	engine := speech.NewESpeakEngine(speech.ESpeakConfig{Path: espeakPath})
	if err := engine.Available(); err != nil {
		log.InfoContext(ctx, "speech engine unavailable", "error", err)
		return nil
	}

	player, err := audio.NewPlayer(audio.DefaultPlayerConfig())
	if err != nil {
		log.InfoContext(ctx, "audio output unavailable", "error", err)
		return nil
	}

	return speech.NewSpeaker(engine, player,
		speech.WithCache(speech.NewCache(8<<20)),
		speech.WithLogger(log),
	)
}

// convertLines converts one name per input line.
func convertLines(ctx context.Context, conv *converter.Converter, r io.Reader, verbose bool) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		res := conv.Convert(ctx, scanner.Text())
		if verbose && !res.Empty {
			printDetails(os.Stdout, res)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading names: %w", err)
	}
	return nil
}

func printDetails(w io.Writer, res converter.Result) {
	fmt.Fprintf(w, "  script: %s\n", res.Script)
	fmt.Fprintf(w, "  arabic: %s\n", res.Arabic)
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return true
	}
	return info.Mode()&os.ModeCharDevice != 0
}
