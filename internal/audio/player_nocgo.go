//go:build nocgo

package audio

import (
	"context"
	"fmt"

	"github.com/jusunglee/copticname/internal/speech"
)

var _ speech.Player = (*Player)(nil)

// Player is unavailable in nocgo builds.
type Player struct{}

func NewPlayer(config PlayerConfig) (*Player, error) {
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return nil, fmt.Errorf("%w: audio not available in nocgo build", speech.ErrUnsupported)
}

func (p *Player) Play(speech.Audio) error { return speech.ErrUnsupported }
func (p *Player) Wait(ctx context.Context) error { return nil }
func (p *Player) Stop() error { return nil }
func (p *Player) Close() error { return nil }
func (p *Player) IsPlaying() bool { return false }
