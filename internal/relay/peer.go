package relay

import (
	"sync"

	"github.com/google/uuid"
)

// Role is a peer's declared side of the pairing.
type Role string

const (
	RoleUnknown    Role = "unknown"
	RoleController Role = "controller"
	RoleRemote     Role = "remote"
)

// Identity is a peer's session binding. The zero value is unauthenticated;
// an authenticated identity always carries both role and session, so an
// authenticated peer with no session is unrepresentable.
type Identity struct {
	Role      Role
	SessionID string
}

// Authenticated reports whether the identity grants routing rights.
func (id Identity) Authenticated() bool {
	return id.SessionID != ""
}

// Transport is the outbound surface of one peer connection. Implementations
// must serialize their own writes; the relay never retries a failed send.
type Transport interface {
	WriteMessage(data []byte) error
	Ping() error
	Close() error
}

// Peer is the relay-side record for one live connection. Mutable fields are
// guarded by the peer's own mutex; membership is the Registry's concern.
type Peer struct {
	id        string
	transport Transport

	mu    sync.Mutex
	role  Role
	auth  Identity
	alive bool
}

// NewPeer wraps a transport in an anonymous, alive peer record.
func NewPeer(t Transport) *Peer {
	return &Peer{
		id:        uuid.NewString(),
		transport: t,
		role:      RoleUnknown,
		alive:     true,
	}
}

// ID is the peer's relay-assigned identity, used in logs and nowhere on the wire.
func (p *Peer) ID() string {
	return p.id
}

// Role returns the declared role, RoleUnknown before registration.
func (p *Peer) Role() Role {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.role
}

// SetRole records the declared role. Registration never grants authentication.
func (p *Peer) SetRole(role Role) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.role = role
}

// Identity returns the current session binding snapshot.
func (p *Peer) Identity() Identity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.auth
}

// Bind authenticates the peer into a session. The role on the identity also
// becomes the peer's role, so a bare setPairingCode implies controller.
func (p *Peer) Bind(id Identity) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.role = id.Role
	p.auth = id
}

// Alive reports whether the peer has been heard from since the last sweep.
func (p *Peer) Alive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.alive
}

// MarkAlive is called on any inbound traffic, including transport pongs.
func (p *Peer) MarkAlive() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.alive = true
}

// ClearAlive arms the peer for the next sweep.
func (p *Peer) ClearAlive() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.alive = false
}
