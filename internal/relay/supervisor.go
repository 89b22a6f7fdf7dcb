package relay

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DefaultHeartbeatInterval matches the relay's probe period: a silent peer
// is evicted within two cycles of going quiet.
const DefaultHeartbeatInterval = 15 * time.Second

// Supervisor periodically sweeps the registry, probing live peers and
// evicting those that missed a full cycle. It is the only mechanism that
// reclaims state for peers that vanish without a clean close.
type Supervisor struct {
	server   *Server
	interval time.Duration
	log      zerolog.Logger
}

func NewSupervisor(server *Server, interval time.Duration, logger zerolog.Logger) *Supervisor {
	if interval <= 0 {
		interval = DefaultHeartbeatInterval
	}
	return &Supervisor{
		server:   server,
		interval: interval,
		log:      logger,
	}
}

// Run sweeps on a fixed period until the context is canceled.
func (s *Supervisor) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	s.log.Info().Dur("interval", s.interval).Msg("liveness supervisor started")
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("liveness supervisor stopped")
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep runs one supervision cycle: evict peers that never answered the
// previous probe, then disarm the rest and probe them again. A transport
// pong or any inbound message re-arms a peer before the next sweep.
func (s *Supervisor) Sweep() {
	for _, p := range s.server.Registry().Snapshot() {
		if !p.Alive() {
			s.server.Evict(p)
			continue
		}
		p.ClearAlive()
		if err := p.transport.Ping(); err != nil {
			// Probe failure alone is not an eviction; the peer just
			// stays disarmed and falls to the next sweep.
			s.log.Debug().Str("peer", p.ID()).Err(err).Msg("liveness probe failed")
		}
	}
}
