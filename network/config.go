package network

import (
	"time"

	"github.com/lixenwraith/vi-traffic/parameter"
)

// Config holds debug hub settings
type Config struct {
	// Address to bind the HTTP listener
	Address string

	// Path serving the websocket upgrade
	Path string

	// Connection limits
	MaxPeers int

	// Timing
	WriteTimeout time.Duration
	PingInterval time.Duration

	// Buffer sizes
	SendQueueSize int
	ReadLimit     int64
}

// DefaultConfig returns loopback defaults
func DefaultConfig() *Config {
	return &Config{
		Address:       parameter.NetworkDefaultAddress,
		Path:          "/ws",
		MaxPeers:      16,
		WriteTimeout:  parameter.NetworkWriteTimeout,
		PingInterval:  10 * time.Second,
		SendQueueSize: parameter.NetworkSendQueueSize,
		ReadLimit:     4 * 1024,
	}
}
