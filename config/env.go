package config

import (
	"os"
	"strconv"
)

// Environment overrides, applied after file decoding
const (
	EnvLogLevel     = "VI_TRAFFIC_LOG_LEVEL"
	EnvAudioEnabled = "VI_TRAFFIC_AUDIO_ENABLED"
	EnvNetworkAddr  = "VI_TRAFFIC_WS_ADDR"
	EnvSeed         = "VI_TRAFFIC_SEED"
)

// ApplyEnv overlays recognised environment variables, ignoring unparsable values
func (c *Config) ApplyEnv() {
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Log.Level = level
	}

	if enabled := os.Getenv(EnvAudioEnabled); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			c.Audio.Enabled = val
		}
	}

	if addr := os.Getenv(EnvNetworkAddr); addr != "" {
		c.Network.Address = addr
		c.Network.Enabled = true
	}

	if seed := os.Getenv(EnvSeed); seed != "" {
		if val, err := strconv.ParseUint(seed, 10, 64); err == nil {
			c.Sim.Seed = val
		}
	}
}
