// Package speech speaks Coptic text through a text-to-speech engine.
//
// The voice list is queried at call time and may be empty; selection always
// settles on a voice or a fallback language, so a request can always be
// built. Playback of a previous request is cancelled before a new one starts.
package speech

import (
	"context"
	"errors"
	"time"
)

// ErrUnsupported means the host cannot synthesize or play speech: the
// engine binary is missing or there is no audio device.
var ErrUnsupported = errors.New("speech is not supported on this system")

const (
	// DefaultRate and DefaultPitch are relative to the engine's normal
	// speaking rate and pitch.
	DefaultRate  = 0.8
	DefaultPitch = 0.9

	// FallbackLanguage is used when no Arabic voice is installed.
	FallbackLanguage = "en-US"
)

// Voice is one voice reported by an engine.
type Voice struct {
	Name       string
	Language   string
	Gender     string
	Identifier string // engine-specific handle, e.g. espeak's voice file
}

// Request is a single utterance to synthesize.
type Request struct {
	Text     string
	Voice    *Voice // nil when no matching voice was found
	Language string
	Rate     float64
	Pitch    float64
}

// Audio is signed little-endian PCM.
type Audio struct {
	PCM        []byte
	SampleRate int
	Channels   int
	BitDepth   int
}

// Duration is the playback length of the PCM data.
func (a Audio) Duration() time.Duration {
	frame := a.Channels * a.BitDepth / 8
	if frame == 0 || a.SampleRate == 0 {
		return 0
	}
	return time.Duration(len(a.PCM)/frame) * time.Second / time.Duration(a.SampleRate)
}

// Engine synthesizes speech.
type Engine interface {
	// Name identifies the engine in logs.
	Name() string

	// Available reports ErrUnsupported (wrapped) if the engine cannot run here.
	Available() error

	// Voices lists the installed voices. An empty list is not an error.
	Voices(ctx context.Context) ([]Voice, error)

	// Synthesize renders req to PCM audio.
	Synthesize(ctx context.Context, req Request) (Audio, error)
}

// Player plays synthesized audio on a local device.
type Player interface {
	// Play starts playback and returns without waiting for it to finish.
	Play(audio Audio) error

	// Wait blocks until the current playback ends or ctx is done.
	Wait(ctx context.Context) error

	// Stop ends the current playback, if any.
	Stop() error

	Close() error
}
