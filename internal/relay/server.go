package relay

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"padrelay/internal/observability"
	"padrelay/internal/protocol"
)

// Reply texts sent to peers. Clients string-match these, keep them stable.
const (
	msgInvalidPairingCode = "Invalid pairing code"
	msgNotAuthenticated   = "Not authenticated. Please enter pairing code."
)

// Server owns the relay state machine: registry, pairing store, the two
// authentication paths, and session routing. It is transport-agnostic;
// inbound frames arrive via HandleMessage and replies leave through each
// peer's Transport.
type Server struct {
	codes    *PairingStore
	registry *Registry
	log      zerolog.Logger
}

func NewServer(logger zerolog.Logger) *Server {
	codes := NewPairingStore()
	return &Server{
		codes:    codes,
		registry: NewRegistry(codes),
		log:      logger,
	}
}

// Registry exposes the live connection set for supervision and status.
func (s *Server) Registry() *Registry {
	return s.registry
}

// Connect admits a transport as an anonymous peer.
func (s *Server) Connect(t Transport) *Peer {
	p := NewPeer(t)
	s.registry.Add(p)
	active := s.registry.Len()
	observability.SetRelayConnections(active)
	s.log.Info().Str("peer", p.ID()).Int("active", active).Msg("peer connected")
	return p
}

// Disconnect removes a peer after a clean or failed transport close,
// cascading pairing cleanup when the peer owned a session's code.
func (s *Server) Disconnect(p *Peer) {
	if !s.registry.Remove(p) {
		return
	}
	active := s.registry.Len()
	observability.SetRelayConnections(active)
	s.log.Info().
		Str("peer", p.ID()).
		Str("role", string(p.Role())).
		Int("active", active).
		Msg("peer disconnected")
}

// Evict terminates an unresponsive peer: registry removal with pairing
// cascade, then transport close. Used only by the liveness supervisor.
func (s *Server) Evict(p *Peer) {
	if !s.registry.Remove(p) {
		return
	}
	_ = p.transport.Close()
	observability.RecordEviction()
	observability.SetRelayConnections(s.registry.Len())
	s.log.Warn().
		Str("peer", p.ID()).
		Str("role", string(p.Role())).
		Msg("evicted unresponsive peer")
}

// HandleMessage processes one inbound frame. Malformed frames are logged
// and dropped; the connection always stays open.
func (s *Server) HandleMessage(p *Peer, data []byte) {
	env, err := protocol.Decode(data)
	if err != nil {
		s.log.Warn().Str("peer", p.ID()).Err(err).Msg("dropping malformed message")
		return
	}
	p.MarkAlive()

	switch env.Type {
	case protocol.TypeRegister:
		s.handleRegister(p, env)
	case protocol.TypeSetPairingCode:
		s.handleSetPairingCode(p, env)
	case protocol.TypeAuth:
		s.handleAuth(p, env)
	case protocol.TypePing:
		s.handlePing(p, env)
	default:
		s.route(p, env)
	}
}

func (s *Server) handleRegister(p *Peer, env protocol.Envelope) {
	var msg protocol.Register
	if err := decodeValid(env, &msg); err != nil {
		s.log.Warn().Str("peer", p.ID()).Err(err).Msg("dropping invalid register")
		return
	}
	p.SetRole(Role(msg.ClientType))
	s.log.Info().Str("peer", p.ID()).Str("role", msg.ClientType).Msg("peer registered")
	s.send(p, protocol.NewRegistered())
}

func (s *Server) handleSetPairingCode(p *Peer, env protocol.Envelope) {
	var msg protocol.SetPairingCode
	if err := decodeValid(env, &msg); err != nil {
		s.log.Warn().Str("peer", p.ID()).Err(err).Msg("dropping invalid setPairingCode")
		return
	}
	// The code issuer is trusted: publishing a code authenticates the
	// sender as that session's controller, no challenge.
	s.codes.SetCode(msg.SessionID, msg.Code)
	p.Bind(Identity{Role: RoleController, SessionID: msg.SessionID})
	observability.RecordPairingCodeSet()
	s.log.Info().Str("peer", p.ID()).Str("session", msg.SessionID).Msg("pairing code set")
	s.send(p, protocol.NewPairingCodeSet())
}

func (s *Server) handleAuth(p *Peer, env protocol.Envelope) {
	var msg protocol.Auth
	if err := decodeValid(env, &msg); err != nil {
		s.log.Warn().Str("peer", p.ID()).Err(err).Msg("dropping invalid auth")
		return
	}
	sessionID, ok := s.codes.FindSessionByCode(msg.Code)
	if !ok {
		observability.RecordAuthAttempt(false)
		s.log.Info().Str("peer", p.ID()).Msg("auth rejected: invalid code")
		s.send(p, protocol.NewAuthFailure(msgInvalidPairingCode))
		return
	}
	p.Bind(Identity{Role: RoleRemote, SessionID: sessionID})
	observability.RecordAuthAttempt(true)
	s.log.Info().Str("peer", p.ID()).Str("session", sessionID).Msg("remote authenticated")
	s.send(p, protocol.NewAuthSuccess())
}

// handlePing answers the latency probe. It is the one message type exempt
// from the authentication gate.
func (s *Server) handlePing(p *Peer, env protocol.Envelope) {
	var msg protocol.Ping
	if err := env.Payload(&msg); err != nil {
		s.log.Warn().Str("peer", p.ID()).Err(err).Msg("dropping invalid ping")
		return
	}
	s.send(p, protocol.NewPong(msg.Timestamp))
}

func decodeValid(env protocol.Envelope, msg interface{ Validate() error }) error {
	if err := env.Payload(msg); err != nil {
		return err
	}
	return msg.Validate()
}

// send marshals and writes one reply, fire-and-forget. A failed send is
// logged and the peer left for the liveness supervisor to reap.
func (s *Server) send(p *Peer, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Error().Err(err).Msg("marshal reply")
		return
	}
	s.sendRaw(p, data)
}

func (s *Server) sendRaw(p *Peer, data []byte) {
	if err := p.transport.WriteMessage(data); err != nil {
		observability.RecordSendFailure()
		s.log.Warn().Str("peer", p.ID()).Err(err).Msg("send failed")
	}
}
