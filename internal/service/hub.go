package service

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"portfolio-backend/internal/model"

	"github.com/rs/zerolog/log"
)

// WelcomeText is sent to every socket right after it registers.
const WelcomeText = "Welcome to the portfolio chat! How can I help you today?"

// Hub is the relay: a single goroutine owns registration, deregistration
// and fan-out so a broadcast never interleaves with a registry change.
type Hub struct {
	registry   *Registry
	register   chan Peer
	unregister chan Peer
	broadcast  chan []byte
	done       chan struct{}
	stopped    chan struct{}
	stopOnce   sync.Once
	now        func() time.Time

	connMu  sync.Mutex
	closing bool
	conns   sync.WaitGroup

	relayed atomic.Uint64
	dropped atomic.Uint64
}

func NewHub(registry *Registry) *Hub {
	return &Hub{
		registry:   registry,
		register:   make(chan Peer),
		unregister: make(chan Peer),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
		now:        time.Now,
	}
}

func (h *Hub) Run() {
	defer close(h.stopped)
	for {
		select {
		case p := <-h.register:
			if h.registry.Add(p) {
				h.welcome(p)
				log.Info().Str("conn_id", p.ID()).Int("online", h.registry.Len()).Msg("ws: connected")
			}

		case p := <-h.unregister:
			if h.registry.Remove(p) {
				p.Close()
				log.Info().Str("conn_id", p.ID()).Int("online", h.registry.Len()).Msg("ws: disconnected")
			}

		case data := <-h.broadcast:
			h.fanOut(data)

		case <-h.done:
			for _, p := range h.registry.Drain() {
				p.Close()
			}
			return
		}
	}
}

func (h *Hub) welcome(p Peer) {
	msg := model.NewChatMessage(model.MessageSystem, model.SystemSender, WelcomeText, h.now())
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if err := p.Deliver(data); err != nil {
		log.Warn().Err(err).Str("conn_id", p.ID()).Msg("ws: welcome not delivered")
	}
}

// fanOut sends data to every open peer. Peers that are closing are skipped
// and stay registered until their own close event removes them.
func (h *Hub) fanOut(data []byte) {
	h.relayed.Add(1)
	h.registry.Each(func(p Peer) {
		if !p.Open() {
			return
		}
		if err := p.Deliver(data); err != nil {
			h.dropped.Add(1)
			log.Warn().Err(err).Str("conn_id", p.ID()).Msg("ws: delivery failed")
		}
	})
}

// Shutdown asks Run to close every peer and stop. Use Wait to block until
// that has happened.
func (h *Hub) Shutdown() {
	h.connMu.Lock()
	h.closing = true
	h.connMu.Unlock()
	h.stopOnce.Do(func() { close(h.done) })
}

// Track marks a connection handler as running until the returned func is
// called. Handlers started after Shutdown are not tracked.
func (h *Hub) Track() (release func()) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.closing {
		return func() {}
	}
	h.conns.Add(1)
	var once sync.Once
	return func() { once.Do(h.conns.Done) }
}

// Wait blocks until Run has drained the registry after Shutdown and every
// tracked handler has returned, or ctx ends.
func (h *Hub) Wait(ctx context.Context) error {
	select {
	case <-h.stopped:
	case <-ctx.Done():
		return ctx.Err()
	}

	handlers := make(chan struct{})
	go func() {
		h.conns.Wait()
		close(handlers)
	}()
	select {
	case <-handlers:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Register adds p and sends it the welcome message. After shutdown the peer
// is closed instead.
func (h *Hub) Register(p Peer) {
	select {
	case h.register <- p:
	case <-h.done:
		p.Close()
	}
}

func (h *Hub) Unregister(p Peer) {
	select {
	case h.unregister <- p:
	case <-h.done:
		p.Close()
	}
}

// Relay fans out an already encoded frame unchanged.
func (h *Hub) Relay(data []byte) {
	select {
	case h.broadcast <- data:
	case <-h.done:
	}
}

func (h *Hub) Broadcast(msg model.ChatMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Msg("ws: marshal broadcast")
		return
	}
	h.Relay(data)
}

func (h *Hub) OnlineCount() int {
	return h.registry.Len()
}

// Counters returns frames relayed and per-peer deliveries dropped.
func (h *Hub) Counters() (relayed, dropped uint64) {
	return h.relayed.Load(), h.dropped.Load()
}
