package relay

import "sync"

// Registry tracks every live peer connection. Removal cascades pairing
// cleanup for code-owning controllers so a departed session cannot be
// joined with its stale code.
type Registry struct {
	codes *PairingStore

	mu    sync.RWMutex
	peers map[*Peer]struct{}
}

func NewRegistry(codes *PairingStore) *Registry {
	return &Registry{
		codes: codes,
		peers: make(map[*Peer]struct{}),
	}
}

// Add admits a peer. Peers enter anonymous and unauthenticated.
func (r *Registry) Add(p *Peer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.peers[p] = struct{}{}
}

// Remove drops a peer and, when it owned a session's pairing code, deletes
// that code before returning. The pairing delete happens after membership
// removal so no auth attempt can bind a session whose owner is already gone.
// Returns false if the peer was not present (already evicted).
func (r *Registry) Remove(p *Peer) bool {
	r.mu.Lock()
	_, present := r.peers[p]
	delete(r.peers, p)
	r.mu.Unlock()
	if !present {
		return false
	}
	if id := p.Identity(); id.Authenticated() && id.Role == RoleController {
		r.codes.DeleteSession(id.SessionID)
	}
	return true
}

// Contains reports current membership.
func (r *Registry) Contains(p *Peer) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.peers[p]
	return ok
}

// Snapshot returns the current peer set. Callers iterate the copy, so
// mutation (including removal mid-sweep) never invalidates iteration.
func (r *Registry) Snapshot() []*Peer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Peer, 0, len(r.peers))
	for p := range r.peers {
		out = append(out, p)
	}
	return out
}

// Len reports the live connection count.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.peers)
}
