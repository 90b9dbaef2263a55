//go:build !nocgo

package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/jusunglee/copticname/internal/speech"
)

var (
	otoOnce    sync.Once
	otoContext *oto.Context
	otoConfig  PlayerConfig
	otoErr     error
)

func sharedContext(config PlayerConfig) (*oto.Context, error) {
	otoOnce.Do(func() {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   config.SampleRate,
			ChannelCount: config.Channels,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   config.BufferSize,
		})
		if err != nil {
			otoErr = fmt.Errorf("%w: %v", speech.ErrUnsupported, err)
			return
		}
		<-ready
		otoContext, otoConfig = ctx, config
	})
	if otoErr != nil {
		return nil, otoErr
	}
	if otoConfig != config {
		return nil, errors.New("audio device already opened with a different format")
	}
	return otoContext, nil
}

var _ speech.Player = (*Player)(nil)

// Player implements speech.Player with oto.
type Player struct {
	context *oto.Context
	config  PlayerConfig

	mu     sync.Mutex
	player *oto.Player
	// data backs the current oto player's reader and must outlive playback.
	data   []byte
	closed bool
}

// NewPlayer opens the sound device.
func NewPlayer(config PlayerConfig) (*Player, error) {
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	ctx, err := sharedContext(config)
	if err != nil {
		return nil, err
	}
	return &Player{context: ctx, config: config}, nil
}

func (p *Player) Play(a speech.Audio) error {
	if err := checkFormat(p.config, a); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return errors.New("player is closed")
	}
	if err := p.stopLocked(); err != nil {
		return fmt.Errorf("stopping current playback: %w", err)
	}

	data := make([]byte, len(a.PCM))
	copy(data, a.PCM)

	player := p.context.NewPlayer(bytes.NewReader(data))
	player.Play()

	p.player = player
	p.data = data
	return nil
}

// Wait polls until the current player drains or ctx is done.
func (p *Player) Wait(ctx context.Context) error {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	for {
		if !p.IsPlaying() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.player != nil && p.player.IsPlaying()
}

func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopLocked()
}

func (p *Player) stopLocked() error {
	if p.player == nil {
		return nil
	}
	p.player.Pause()
	err := p.player.Close()
	p.player = nil
	p.data = nil
	return err
}

// Close stops playback. The shared oto context stays open for the process.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return p.stopLocked()
}
