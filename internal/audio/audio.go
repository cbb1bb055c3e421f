// Package audio plays a beep whenever a chip8.VM's sound timer is active.
// The VM itself exposes only a boolean "beep active" flag; this package is
// the host-side collaborator that turns that flag into an audible tone.
package audio

import (
	"fmt"
	"os"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
)

// Player decodes a beep sound once and replays it on every rising edge of
// the VM's sound timer.
type Player struct {
	streamer beep.StreamSeekCloser
	format   beep.Format
	wasOn    bool
}

// New decodes the beep asset at path and initializes the speaker. It
// returns a no-op Player (Tick becomes a silent no-op) if the asset can't
// be opened, so a missing sound asset disables audio instead of aborting
// VM startup.
func New(path string) *Player {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chip8vm: audio disabled: %v\n", err)
		return &Player{}
	}
	streamer, format, err := mp3.Decode(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chip8vm: audio disabled: %v\n", err)
		return &Player{}
	}
	speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10))
	return &Player{streamer: streamer, format: format}
}

// Tick inspects the current sound-active flag and plays the beep once per
// 0-to-nonzero transition, not on every call while ST stays nonzero.
func (p *Player) Tick(soundActive bool) {
	if p.streamer == nil {
		return
	}
	if soundActive && !p.wasOn {
		p.streamer.Seek(0)
		speaker.Play(p.streamer)
	}
	p.wasOn = soundActive
}

// Close releases the decoded audio stream.
func (p *Player) Close() error {
	if p.streamer == nil {
		return nil
	}
	return p.streamer.Close()
}
