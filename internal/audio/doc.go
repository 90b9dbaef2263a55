// Package audio plays synthesized speech on the local sound device.
//
// The oto context can only be created once per process, so every Player
// shares it and must use the same sample format. Builds tagged nocgo get a
// stub whose NewPlayer reports speech.ErrUnsupported; the tag, not
// CGO_ENABLED, selects it.
package audio

import "time"

// PlayerConfig describes the PCM format the device is opened with.
type PlayerConfig struct {
	SampleRate int
	Channels   int
	BitDepth   int
	BufferSize time.Duration
}

// DefaultPlayerConfig matches espeak-ng's output: 22050 Hz mono 16-bit.
func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		SampleRate: 22050,
		Channels:   1,
		BitDepth:   16,
		BufferSize: 100 * time.Millisecond,
	}
}
