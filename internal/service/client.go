package service

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

const sendBuffer = 256

var (
	ErrPeerClosed     = errors.New("peer closed")
	ErrSendBufferFull = errors.New("send buffer full")
)

// Client is a websocket peer. The connection handler owns the socket and
// drains Outbound; the hub only ever queues frames.
type Client struct {
	id     string
	remote string
	send   chan []byte

	mu     sync.Mutex
	closed bool
}

func NewClient(remote string) *Client {
	return &Client{
		id:     uuid.NewString(),
		remote: remote,
		send:   make(chan []byte, sendBuffer),
	}
}

func (c *Client) ID() string     { return c.id }
func (c *Client) Remote() string { return c.remote }

// Outbound is closed once the client is closed.
func (c *Client) Outbound() <-chan []byte {
	return c.send
}

func (c *Client) Open() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

func (c *Client) Deliver(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrPeerClosed
	}
	select {
	case c.send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Close is idempotent.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}
