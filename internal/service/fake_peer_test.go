package service

import (
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"portfolio-backend/internal/model"
)

// fakePeer records delivered frames.
type fakePeer struct {
	id string

	mu      sync.Mutex
	open    bool
	closed  bool
	fail    bool
	frames  [][]byte
	arrived chan struct{}
}

func newFakePeer(id string) *fakePeer {
	return &fakePeer{id: id, open: true, arrived: make(chan struct{}, 64)}
}

func (p *fakePeer) ID() string { return p.id }

func (p *fakePeer) Open() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

func (p *fakePeer) Deliver(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broken pipe")
	}
	p.frames = append(p.frames, data)
	select {
	case p.arrived <- struct{}{}:
	default:
	}
	return nil
}

func (p *fakePeer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = false
	p.closed = true
}

func (p *fakePeer) setOpen(open bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = open
}

func (p *fakePeer) Frames() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]byte, len(p.frames))
	copy(out, p.frames)
	return out
}

func (p *fakePeer) Messages(t *testing.T) []model.ChatMessage {
	t.Helper()
	var out []model.ChatMessage
	for _, f := range p.Frames() {
		var m model.ChatMessage
		if err := json.Unmarshal(f, &m); err != nil {
			t.Fatalf("peer %s got undecodable frame %q: %v", p.id, f, err)
		}
		out = append(out, m)
	}
	return out
}

func fakePeers(n int) []*fakePeer {
	peers := make([]*fakePeer, n)
	for i := range peers {
		peers[i] = newFakePeer("peer-" + strconv.Itoa(i))
	}
	return peers
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
