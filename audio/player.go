package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/vi-traffic/parameter"
)

const sampleRate = beep.SampleRate(parameter.AudioSampleRate)

// HornPlayer plays the diversion cue, rate limited so a crowd of agents stays one honk
// All methods are safe without Init, they become no-ops
type HornPlayer struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool

	volume   float64
	cooldown time.Duration
	last     time.Time
	now      func() time.Time

	played     int
	suppressed int
}

// NewHornPlayer creates a player at volume in [0,1]
func NewHornPlayer(volume float64) *HornPlayer {
	return &HornPlayer{
		mixer:    &beep.Mixer{},
		volume:   volume,
		cooldown: parameter.HornCooldown,
		now:      time.Now,
	}
}

// Init opens the output device
func (p *HornPlayer) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(parameter.AudioBufferDuration)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// PlayHorn queues one cue, returns false when muted or cooling down
func (p *HornPlayer) PlayHorn() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return false
	}
	if !p.allowLocked() {
		p.suppressed++
		return false
	}

	horn := NewHornGenerator(sampleRate, parameter.HornFrequencyLow, parameter.HornFrequencyHigh,
		parameter.HornDuration, p.volume)
	speaker.Lock()
	p.mixer.Add(horn)
	speaker.Unlock()
	p.played++
	return true
}

func (p *HornPlayer) allowLocked() bool {
	now := p.now()
	if !p.last.IsZero() && now.Sub(p.last) < p.cooldown {
		return false
	}
	p.last = now
	return true
}

// Counts returns played and cooldown-suppressed cue totals
func (p *HornPlayer) Counts() (played, suppressed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.played, p.suppressed
}

// Close stops playback and releases the device
func (p *HornPlayer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.initialized = false
}
