package audio

import (
	"testing"
	"time"

	"github.com/jusunglee/copticname/internal/speech"
	"github.com/stretchr/testify/assert"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name      string
		config    PlayerConfig
		expectErr bool
	}{
		{name: "default", config: DefaultPlayerConfig()},
		{name: "stereo 48000Hz", config: PlayerConfig{SampleRate: 48000, Channels: 2, BitDepth: 16}},
		{name: "invalid sample rate", config: PlayerConfig{SampleRate: 11025, Channels: 1, BitDepth: 16}, expectErr: true},
		{name: "invalid channels", config: PlayerConfig{SampleRate: 22050, Channels: 3, BitDepth: 16}, expectErr: true},
		{name: "invalid bit depth", config: PlayerConfig{SampleRate: 22050, Channels: 1, BitDepth: 8}, expectErr: true},
		{name: "negative buffer", config: PlayerConfig{SampleRate: 22050, Channels: 1, BitDepth: 16, BufferSize: -time.Second}, expectErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfig(tt.config)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckFormat(t *testing.T) {
	config := DefaultPlayerConfig()
	ok := speech.Audio{PCM: []byte{0, 0}, SampleRate: 22050, Channels: 1, BitDepth: 16}
	assert.NoError(t, checkFormat(config, ok))

	wrongRate := ok
	wrongRate.SampleRate = 44100
	assert.ErrorContains(t, checkFormat(config, wrongRate), "does not match device")

	empty := ok
	empty.PCM = nil
	assert.ErrorContains(t, checkFormat(config, empty), "empty")
}
