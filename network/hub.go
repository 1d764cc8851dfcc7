package network

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lixenwraith/vi-traffic/core"
	"github.com/lixenwraith/vi-traffic/engine"
	"github.com/lixenwraith/vi-traffic/status"
)

// Hub fans world snapshots out to websocket debug clients
// Slow clients lose frames rather than stall the simulation
type Hub struct {
	config   *Config
	upgrader websocket.Upgrader
	logger   *log.Logger
	metrics  *status.Registry

	mu     sync.RWMutex
	peers  map[PeerID]*Peer
	nextID atomic.Uint32
	seq    atomic.Uint32
	closed atomic.Bool
	wg     sync.WaitGroup

	onInput func(PeerID, InputPayload)
}

// NewHub creates a hub, logger and metrics may be nil
func NewHub(cfg *Config, logger *log.Logger, metrics *status.Registry) *Hub {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if metrics == nil {
		metrics = status.NewRegistry()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		config: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
			// Debug viewers are served from file:// or other local origins
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger:  logger.WithPrefix("network"),
		metrics: metrics,
		peers:   make(map[PeerID]*Peer),
	}
}

// SetInputHandler routes remote vehicle input, must be called before serving
func (h *Hub) SetInputHandler(fn func(PeerID, InputPayload)) {
	h.onInput = fn
}

// ServeHTTP upgrades the request and registers the peer
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.closed.Load() {
		http.Error(w, "hub closed", http.StatusServiceUnavailable)
		return
	}
	if h.PeerCount() >= h.config.MaxPeers {
		http.Error(w, "too many peers", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	peer := newPeer(PeerID(h.nextID.Add(1)), conn, h.config.SendQueueSize)
	if !h.register(peer) {
		return
	}

	hello, err := NewMessage(MsgHello, Hello{Peer: peer.ID})
	if err == nil {
		if frame, err := json.Marshal(hello); err == nil {
			peer.Send(frame)
		}
	}

	core.Go(func() {
		defer h.wg.Done()
		peer.writeLoop(h.config.WriteTimeout, h.config.PingInterval)
	})
	core.Go(func() {
		defer h.wg.Done()
		peer.readLoop(h.config.ReadLimit, h.handleFrame)
		h.unregister(peer)
	})
}

// register adds the peer and reserves its loops, closing it instead if the hub shut down mid-upgrade
func (h *Hub) register(p *Peer) bool {
	h.mu.Lock()
	if h.closed.Load() {
		h.mu.Unlock()
		p.Close()
		h.logger.Debug("peer rejected, hub closed", "remote", p.Addr)
		return false
	}
	h.peers[p.ID] = p
	h.wg.Add(2)
	n := len(h.peers)
	h.mu.Unlock()

	h.metrics.Ints.Get(status.MetricClients).Store(int64(n))
	h.logger.Info("peer connected", "peer", p.ID, "remote", p.Addr)
	return true
}

func (h *Hub) unregister(p *Peer) {
	h.mu.Lock()
	delete(h.peers, p.ID)
	n := len(h.peers)
	h.mu.Unlock()

	h.metrics.Ints.Get(status.MetricClients).Store(int64(n))
	h.logger.Info("peer disconnected", "peer", p.ID, "dropped", p.Dropped.Load())
}

func (h *Hub) handleFrame(p *Peer, data []byte) {
	msg, err := Decode(data)
	if err != nil {
		h.logger.Debug("bad frame", "peer", p.ID, "err", err)
		return
	}

	switch msg.Type {
	case MsgInput:
		var in InputPayload
		if err := json.Unmarshal(msg.Payload, &in); err != nil {
			h.logger.Debug("bad input payload", "peer", p.ID, "err", err)
			return
		}
		if h.onInput != nil {
			h.onInput(p.ID, in)
		}
	default:
		h.logger.Debug("ignored frame", "peer", p.ID, "type", msg.Type)
	}
}

// Broadcast encodes the snapshot once and queues it for every peer
// Returns the number of peers that accepted the frame
func (h *Hub) Broadcast(snap *engine.Snapshot) int {
	if h.closed.Load() {
		return 0
	}

	msg, err := NewMessage(MsgSnapshot, snap)
	if err != nil {
		h.logger.Error("snapshot encode failed", "err", err)
		return 0
	}
	msg.Seq = h.seq.Add(1)
	frame, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("frame encode failed", "err", err)
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := 0
	for _, p := range h.peers {
		if p.Send(frame) {
			sent++
		} else {
			h.metrics.Ints.Get(status.MetricDroppedFrames).Add(1)
		}
	}
	return sent
}

// PeerCount returns connected peer count
func (h *Hub) PeerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

// Close disconnects every peer and waits for their loops
func (h *Hub) Close() {
	if !h.closed.CompareAndSwap(false, true) {
		return
	}

	// Serializes with register so no wg.Add lands after Wait
	h.mu.Lock()
	for _, p := range h.peers {
		p.Close()
	}
	h.mu.Unlock()

	h.wg.Wait()
}
