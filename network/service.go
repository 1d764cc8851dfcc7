package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/vi-traffic/core"
	"github.com/lixenwraith/vi-traffic/status"
)

var ErrAlreadyRunning = errors.New("network service already running")

// Service owns the HTTP listener in front of a Hub
type Service struct {
	config  *Config
	hub     *Hub
	metrics *status.Registry

	server   *http.Server
	listener net.Listener
	running  atomic.Bool
}

// NewService serves hub on cfg.Path and a JSON metrics dump on /metrics
func NewService(cfg *Config, hub *Hub, metrics *status.Registry) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Service{config: cfg, hub: hub, metrics: metrics}
}

// Start binds the listener and serves in the background
func (s *Service) Start() error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		s.running.Store(false)
		return fmt.Errorf("listen %s: %w", s.config.Address, err)
	}
	s.listener = ln

	mux := http.NewServeMux()
	mux.Handle(s.config.Path, s.hub)
	mux.HandleFunc("/metrics", s.serveMetrics)

	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	core.Go(func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.hub.logger.Error("serve failed", "err", err)
		}
	})
	s.hub.logger.Info("listening", "addr", ln.Addr().String(), "path", s.config.Path)
	return nil
}

func (s *Service) serveMetrics(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var snap map[string]float64
	if s.metrics != nil {
		snap = s.metrics.Snapshot()
	}
	_ = json.NewEncoder(w).Encode(snap)
}

// Addr returns the bound address, empty before Start
func (s *Service) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the listener down and disconnects peers
func (s *Service) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	err := s.server.Shutdown(ctx)
	s.hub.Close()
	return err
}

// IsRunning returns true between Start and Stop
func (s *Service) IsRunning() bool {
	return s.running.Load()
}
