package service

import "sync"

// Peer is one registered chat socket as seen by the relay.
type Peer interface {
	ID() string
	// Open reports whether the transport can still accept frames.
	Open() bool
	// Deliver queues one frame without blocking.
	Deliver(data []byte) error
	Close()
}

// Registry is the set of currently registered peers. Membership is by
// identity; adding the same peer twice keeps one entry.
type Registry struct {
	mu    sync.RWMutex
	peers map[Peer]struct{}
}

func NewRegistry() *Registry {
	return &Registry{peers: make(map[Peer]struct{})}
}

// Add reports whether p was not already present.
func (r *Registry) Add(p Peer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.peers[p]; ok {
		return false
	}
	r.peers[p] = struct{}{}
	return true
}

// Remove reports whether p was present. Removing an unknown peer is a no-op.
func (r *Registry) Remove(p Peer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.peers[p]; !ok {
		return false
	}
	delete(r.peers, p)
	return true
}

func (r *Registry) Contains(p Peer) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.peers[p]
	return ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.peers)
}

// Each calls fn for every peer while holding the read lock; fn must not
// call back into the registry.
func (r *Registry) Each(fn func(Peer)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for p := range r.peers {
		fn(p)
	}
}

// Drain removes and returns every peer.
func (r *Registry) Drain() []Peer {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Peer, 0, len(r.peers))
	for p := range r.peers {
		out = append(out, p)
	}
	r.peers = make(map[Peer]struct{})
	return out
}
