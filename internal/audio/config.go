package audio

import (
	"errors"
	"fmt"

	"github.com/jusunglee/copticname/internal/speech"
)

func validateConfig(config PlayerConfig) error {
	switch config.SampleRate {
	case 16000, 22050, 44100, 48000:
	default:
		return fmt.Errorf("unsupported sample rate %d Hz", config.SampleRate)
	}

	if config.Channels != 1 && config.Channels != 2 {
		return fmt.Errorf("channels must be 1 (mono) or 2 (stereo), got %d", config.Channels)
	}

	if config.BitDepth != 16 {
		return fmt.Errorf("bit depth must be 16, got %d", config.BitDepth)
	}

	if config.BufferSize < 0 {
		return errors.New("buffer size must not be negative")
	}

	return nil
}

// checkFormat rejects audio the opened device cannot play as-is.
func checkFormat(config PlayerConfig, a speech.Audio) error {
	if a.SampleRate != config.SampleRate || a.Channels != config.Channels || a.BitDepth != config.BitDepth {
		return fmt.Errorf("audio format %d Hz/%dch/%d-bit does not match device %d Hz/%dch/%d-bit",
			a.SampleRate, a.Channels, a.BitDepth,
			config.SampleRate, config.Channels, config.BitDepth)
	}
	if len(a.PCM) == 0 {
		return errors.New("audio data is empty")
	}
	return nil
}
