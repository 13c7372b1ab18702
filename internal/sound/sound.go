// Package sound plays the per-tier audio cues. Playback is best-effort:
// every failure is reported to the caller for logging and nothing here
// is ever fatal.
package sound

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"github.com/rs/zerolog"

	"github.com/Sharx05/netbuddy/internal/tier"
)

// mixRate is the speaker's fixed sample rate; decoded files are
// resampled to it.
const mixRate beep.SampleRate = 44100

// Player resolves tier sound files under a directory and plays them
// through the default output device.
type Player struct {
	dir string
	log zerolog.Logger

	mu    sync.Mutex
	muted bool

	initOnce sync.Once
	initErr  error
}

// NewPlayer returns a Player rooted at dir. The audio device is opened
// lazily on first play so a headless machine only fails when sound is
// actually requested.
func NewPlayer(dir string, muted bool, log zerolog.Logger) *Player {
	return &Player{dir: dir, muted: muted, log: log}
}

// SetMuted toggles playback without touching the device.
func (p *Player) SetMuted(m bool) {
	p.mu.Lock()
	p.muted = m
	p.mu.Unlock()
}

// Muted reports the current mute state.
func (p *Player) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

// Path returns where the tier's sound file is expected.
func (p *Player) Path(t tier.Tier) string {
	return filepath.Join(p.dir, t.Sound())
}

// Play decodes the tier's wav file and plays it asynchronously.
func (p *Player) Play(t tier.Tier) error {
	if p.Muted() {
		return nil
	}

	path := p.Path(t)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open sound %s: %w", path, err)
	}

	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode sound %s: %w", path, err)
	}

	p.initOnce.Do(func() {
		p.initErr = speaker.Init(mixRate, mixRate.N(time.Second/10))
	})
	if p.initErr != nil {
		streamer.Close()
		return fmt.Errorf("init speaker: %w", p.initErr)
	}

	var s beep.Streamer = streamer
	if format.SampleRate != mixRate {
		s = beep.Resample(4, format.SampleRate, mixRate, streamer)
	}

	p.log.Debug().Str("tier", t.Name).Str("file", path).Msg("playing sound")
	speaker.Play(beep.Seq(s, beep.Callback(func() {
		streamer.Close()
	})))
	return nil
}
