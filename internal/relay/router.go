package relay

import (
	"padrelay/internal/observability"
	"padrelay/internal/protocol"
)

// route fans a routed payload out to every authenticated same-session peer
// of the complementary role. Delivery is fire-and-forget with no
// acknowledgment; zero recipients is silent success.
func (s *Server) route(sender *Peer, env protocol.Envelope) {
	id := sender.Identity()
	if !id.Authenticated() {
		s.log.Info().Str("peer", sender.ID()).Str("type", env.Type).Msg("rejected unauthenticated message")
		s.send(sender, protocol.NewError(msgNotAuthenticated))
		return
	}

	var target Role
	switch {
	case protocol.RemoteInput(env.Type):
		target = RoleController
	case protocol.ControllerNotice(env.Type):
		target = RoleRemote
	default:
		s.log.Debug().Str("peer", sender.ID()).Str("type", env.Type).Msg("ignoring unknown message type")
		return
	}

	delivered := 0
	for _, peer := range s.registry.Snapshot() {
		other := peer.Identity()
		if other.Role != target || other.SessionID != id.SessionID {
			continue
		}
		s.sendRaw(peer, env.Raw())
		delivered++
	}
	observability.RecordRouted(env.Type, delivered)
}
