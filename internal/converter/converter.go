// Package converter ties the transliteration pipeline to its display and
// speech collaborators: it trims and checks the input, runs the stages,
// shows the result and optionally speaks it.
package converter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jusunglee/copticname/internal/metrics"
	"github.com/jusunglee/copticname/internal/speech"
	"github.com/jusunglee/copticname/internal/transliteration"
)

const (
	// NoticeEmptyInput is shown instead of a result when the name is blank.
	NoticeEmptyInput = "الرجاء إدخال اسم لتبدأ عملية التحويل."

	// NoticeSpeechUnsupported is shown when speech cannot be played here.
	NoticeSpeechUnsupported = "النظام لا يدعم النطق الصوتي المباشر."
)

// Display receives the text to show the user: the Coptic result or a notice.
type Display interface {
	Show(text string)
}

// DisplayFunc adapts a function to Display.
type DisplayFunc func(text string)

func (f DisplayFunc) Show(text string) { f(text) }

// Speaker speaks converted text.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Result is the outcome of one conversion.
type Result struct {
	Input  string
	Script transliteration.Script
	Arabic string
	Coptic string
	// Notice is NoticeEmptyInput when Empty is set, or
	// NoticeSpeechUnsupported when speech was asked for and could not run.
	Notice string
	Empty  bool
}

type Converter struct {
	display Display
	speaker Speaker
	log     *slog.Logger
}

type Option func(*Converter)

func WithDisplay(d Display) Option {
	return func(c *Converter) { c.display = d }
}

func WithSpeaker(s Speaker) Option {
	return func(c *Converter) { c.speaker = s }
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Converter) { c.log = log }
}

func New(opts ...Option) *Converter {
	c := &Converter{
		display: DisplayFunc(func(string) {}),
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert transliterates raw to Coptic and shows the result. Blank input
// shows NoticeEmptyInput and runs no stage.
func (c *Converter) Convert(ctx context.Context, raw string) Result {
	input := strings.TrimSpace(raw)
	if input == "" {
		metrics.EmptyInputsTotal.Inc()
		c.display.Show(NoticeEmptyInput)
		return Result{Empty: true, Notice: NoticeEmptyInput}
	}

	start := time.Now()
	arabic, coptic, script := transliteration.Transliterate(input)
	metrics.ConversionDuration.Observe(time.Since(start).Seconds())
	metrics.ConversionsTotal.WithLabelValues(script.String()).Inc()

	c.log.DebugContext(ctx, "converted name", "input", input, "script", script, "arabic", arabic, "coptic", coptic)
	c.display.Show(coptic)

	return Result{
		Input:  input,
		Script: script,
		Arabic: arabic,
		Coptic: coptic,
	}
}

// ConvertAndSpeak converts raw and speaks the result. When speech is not
// available the user sees NoticeSpeechUnsupported and no error is returned.
func (c *Converter) ConvertAndSpeak(ctx context.Context, raw string) (Result, error) {
	res := c.Convert(ctx, raw)
	if res.Empty || res.Coptic == "" {
		return res, nil
	}

	if c.speaker == nil {
		c.display.Show(NoticeSpeechUnsupported)
		res.Notice = NoticeSpeechUnsupported
		return res, nil
	}

	if err := c.speaker.Speak(ctx, res.Coptic); err != nil {
		if errors.Is(err, speech.ErrUnsupported) {
			c.log.InfoContext(ctx, "speech unavailable", "error", err)
			c.display.Show(NoticeSpeechUnsupported)
			res.Notice = NoticeSpeechUnsupported
			return res, nil
		}
		return res, fmt.Errorf("speaking %q: %w", res.Coptic, err)
	}
	return res, nil
}
