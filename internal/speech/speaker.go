package speech

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jusunglee/copticname/internal/metrics"
)

// Speaker turns text into audible speech. At most one utterance plays at a
// time: Speak cancels whatever is still synthesizing or playing first.
type Speaker struct {
	engine Engine
	player Player
	cache  *Cache
	log    *slog.Logger

	mu         sync.Mutex
	cancel     context.CancelFunc
	generation uint64
}

type SpeakerOption func(*Speaker)

// WithCache caches synthesized audio across calls.
func WithCache(c *Cache) SpeakerOption {
	return func(s *Speaker) { s.cache = c }
}

func WithLogger(log *slog.Logger) SpeakerOption {
	return func(s *Speaker) { s.log = log }
}

// NewSpeaker creates a speaker. player may be nil for a speaker that only
// synthesizes (HTTP and bot surfaces); Speak then reports ErrUnsupported.
func NewSpeaker(engine Engine, player Player, opts ...SpeakerOption) *Speaker {
	s := &Speaker{
		engine: engine,
		player: player,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Available reports whether Synthesize can work on this host.
func (s *Speaker) Available() error {
	if s.engine == nil {
		return ErrUnsupported
	}
	return s.engine.Available()
}

// Prepare queries the installed voices and builds the request for text.
// A failed voice query is treated as an empty voice list.
func (s *Speaker) Prepare(ctx context.Context, text string) Request {
	voices, err := s.engine.Voices(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "voice list unavailable, using fallback language", "engine", s.engine.Name(), "error", err)
		voices = nil
	}

	req := NewRequest(text, voices)
	if req.Voice != nil {
		metrics.SpeechVoiceSelections.WithLabelValues("arabic").Inc()
	} else {
		metrics.SpeechVoiceSelections.WithLabelValues("fallback").Inc()
	}
	return req
}

// Synthesize renders text to audio without playing it.
func (s *Speaker) Synthesize(ctx context.Context, text string) (Audio, Request, error) {
	if err := s.Available(); err != nil {
		metrics.SpeechRequestsTotal.WithLabelValues("unsupported").Inc()
		return Audio{}, Request{}, err
	}

	req := s.Prepare(ctx, text)
	audio, err := s.synthesize(ctx, req)
	if err != nil {
		metrics.SpeechRequestsTotal.WithLabelValues("failed").Inc()
		return Audio{}, req, err
	}
	return audio, req, nil
}

func (s *Speaker) synthesize(ctx context.Context, req Request) (Audio, error) {
	var key string
	if s.cache != nil {
		key = CacheKey(req)
		if audio, ok := s.cache.Get(key); ok {
			metrics.SpeechCacheLookups.WithLabelValues("hit").Inc()
			return audio, nil
		}
		metrics.SpeechCacheLookups.WithLabelValues("miss").Inc()
	}

	start := time.Now()
	audio, err := s.engine.Synthesize(ctx, req)
	metrics.SynthesisDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return Audio{}, err
	}

	if s.cache != nil {
		s.cache.Put(key, audio)
	}
	return audio, nil
}

// Speak cancels any in-flight utterance, then synthesizes and starts
// playing text. It returns once playback has started.
func (s *Speaker) Speak(ctx context.Context, text string) error {
	if s.player == nil {
		metrics.SpeechRequestsTotal.WithLabelValues("unsupported").Inc()
		return ErrUnsupported
	}

	ctx, gen := s.begin(ctx)

	audio, req, err := s.Synthesize(ctx, text)
	if err != nil {
		if errors.Is(err, context.Canceled) && s.superseded(gen) {
			return nil
		}
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		// A newer Speak call took over while we were synthesizing.
		return nil
	}
	if err := s.player.Play(audio); err != nil {
		metrics.SpeechRequestsTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("playing speech: %w", err)
	}

	metrics.SpeechRequestsTotal.WithLabelValues("success").Inc()
	s.log.DebugContext(ctx, "speaking", "language", req.Language, "duration", audio.Duration())
	return nil
}

// Wait blocks until the current playback finishes.
func (s *Speaker) Wait(ctx context.Context) error {
	if s.player == nil {
		return nil
	}
	return s.player.Wait(ctx)
}

// Cancel stops any in-flight synthesis and playback.
func (s *Speaker) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

func (s *Speaker) Close() error {
	s.Cancel()
	if s.player == nil {
		return nil
	}
	return s.player.Close()
}

func (s *Speaker) begin(ctx context.Context) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.generation++
	return ctx, s.generation
}

func (s *Speaker) superseded(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation != gen
}

func (s *Speaker) cancelLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.player != nil {
		if err := s.player.Stop(); err != nil {
			s.log.Warn("stopping playback", "error", err)
		}
	}
}
