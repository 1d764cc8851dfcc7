package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(s beep.Streamer) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
}

func TestHornGeneratorLengthAndLevel(t *testing.T) {
	sr := beep.SampleRate(8000)
	const volume = 0.5
	g := NewHornGenerator(sr, 349.23, 440, 100*time.Millisecond, volume)

	out := drain(g)
	require.Len(t, out, sr.N(100*time.Millisecond))
	assert.Equal(t, g.Len(), len(out))

	peak := 0.0
	for _, s := range out {
		assert.Equal(t, s[0], s[1], "mono cue on both channels")
		peak = max(peak, math.Abs(s[0]))
	}
	assert.Greater(t, peak, 0.1)
	assert.LessOrEqual(t, peak, volume*4/3+1e-9)

	// Envelope starts silent and fades out
	assert.Equal(t, 0.0, out[0][0])
	assert.Less(t, math.Abs(out[len(out)-1][0]), peak/5)

	n, ok := g.Stream(make([][2]float64, 16))
	assert.Zero(t, n)
	assert.False(t, ok)
	assert.NoError(t, g.Err())
}

func TestHornPlayerWithoutDevice(t *testing.T) {
	p := NewHornPlayer(0.3)
	assert.NotPanics(t, func() {
		assert.False(t, p.PlayHorn())
		p.Close()
	})
	played, suppressed := p.Counts()
	assert.Zero(t, played)
	assert.Zero(t, suppressed)
}

func TestHornPlayerCooldown(t *testing.T) {
	p := NewHornPlayer(0.3)
	clock := time.Unix(1000, 0)
	p.now = func() time.Time { return clock }

	assert.True(t, p.allowLocked())
	clock = clock.Add(p.cooldown / 2)
	assert.False(t, p.allowLocked())
	clock = clock.Add(p.cooldown)
	assert.True(t, p.allowLocked())
}
