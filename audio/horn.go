package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// HornGenerator streams a two-tone horn chord with a short attack and release
// It ends after its duration so callers can add it to a mixer and forget it
type HornGenerator struct {
	sr       beep.SampleRate
	low      float64
	high     float64
	volume   float64
	pos      int
	samples  int
	envelope int // Attack and release length in samples
}

// NewHornGenerator creates a horn cue of the given length
func NewHornGenerator(sr beep.SampleRate, low, high float64, duration time.Duration, volume float64) *HornGenerator {
	samples := sr.N(duration)
	return &HornGenerator{
		sr:       sr,
		low:      low,
		high:     high,
		volume:   volume,
		samples:  samples,
		envelope: max(samples/10, 1),
	}
}

func (g *HornGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if g.pos >= g.samples {
			return i, i > 0
		}
		t := float64(g.pos) / float64(g.sr)

		// Square-ish tone from the first two odd harmonics, horns are bright
		val := 0.0
		for _, f := range [2]float64{g.low, g.high} {
			val += math.Sin(2*math.Pi*f*t) + math.Sin(2*math.Pi*3*f*t)/3
		}
		val *= 0.5 * g.volume * g.gain()

		samples[i][0] = val
		samples[i][1] = val
		g.pos++
	}
	return len(samples), true
}

func (g *HornGenerator) Err() error {
	return nil
}

// Len returns the total length in samples
func (g *HornGenerator) Len() int {
	return g.samples
}

func (g *HornGenerator) gain() float64 {
	switch {
	case g.pos < g.envelope:
		return float64(g.pos) / float64(g.envelope)
	case g.pos >= g.samples-g.envelope:
		return float64(g.samples-g.pos) / float64(g.envelope)
	default:
		return 1
	}
}
