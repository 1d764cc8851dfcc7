package network

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// PeerID uniquely identifies a connected peer
type PeerID uint32

// Peer is one websocket client
type Peer struct {
	ID       PeerID
	Addr     string
	LastSeen atomic.Int64 // UnixNano

	Dropped atomic.Uint64

	conn   *websocket.Conn
	sendCh chan []byte

	closeCh   chan struct{}
	closeOnce sync.Once
}

func newPeer(id PeerID, conn *websocket.Conn, sendQueueSize int) *Peer {
	p := &Peer{
		ID:      id,
		Addr:    conn.RemoteAddr().String(),
		conn:    conn,
		sendCh:  make(chan []byte, sendQueueSize),
		closeCh: make(chan struct{}),
	}
	p.LastSeen.Store(time.Now().UnixNano())
	return p
}

// Send queues an encoded frame, returns false when closed or the queue is full
func (p *Peer) Send(frame []byte) bool {
	select {
	case <-p.closeCh:
		return false
	default:
	}

	select {
	case p.sendCh <- frame:
		return true
	default:
		p.Dropped.Add(1)
		return false
	}
}

// Close initiates shutdown, safe to call repeatedly
func (p *Peer) Close() {
	p.closeOnce.Do(func() {
		close(p.closeCh)
		p.conn.Close()
	})
}

// Done is closed once the peer shuts down
func (p *Peer) Done() <-chan struct{} {
	return p.closeCh
}

// readLoop delivers frames until the connection fails
func (p *Peer) readLoop(limit int64, handler func(*Peer, []byte)) {
	defer p.Close()

	p.conn.SetReadLimit(limit)
	p.conn.SetPongHandler(func(string) error {
		p.LastSeen.Store(time.Now().UnixNano())
		return nil
	})

	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			return
		}
		p.LastSeen.Store(time.Now().UnixNano())
		handler(p, data)
	}
}

// writeLoop drains the send queue and keeps the connection alive
func (p *Peer) writeLoop(writeTimeout, pingInterval time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		p.Close()
	}()

	for {
		select {
		case <-p.closeCh:
			return

		case frame := <-p.sendCh:
			p.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := p.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
