package parameter

import "time"

// Horn cue
const (
	// AudioSampleRate for the output device
	AudioSampleRate = 44100

	// AudioBufferDuration is the speaker buffer length
	AudioBufferDuration = 50 * time.Millisecond

	// HornFrequencyLow and HornFrequencyHigh form the two-tone horn chord
	HornFrequencyLow  = 349.23
	HornFrequencyHigh = 440.0

	// HornDuration is the length of one cue
	HornDuration = 180 * time.Millisecond

	// HornVolume is the linear amplitude, 0..1
	HornVolume = 0.25

	// HornCooldown suppresses cue spam when many agents divert at once
	HornCooldown = 400 * time.Millisecond
)
