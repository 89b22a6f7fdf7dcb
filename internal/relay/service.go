package relay

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"padrelay/internal/netutil"
	"padrelay/internal/observability"
	"padrelay/internal/protocol"
)

// Relay HTTP/websocket endpoint configuration.
type ServiceConfig struct {
	Name              string
	ListenAddr        string
	CorsOrigins       []string
	HeartbeatInterval time.Duration
}

// Relay service defaults: the original desktop relay port and probe period.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Name:              "padrelay",
		ListenAddr:        ":8765",
		HeartbeatInterval: DefaultHeartbeatInterval,
	}
}

// Service hosts the relay core on a gin engine: the /ws upgrade endpoint,
// the observational status surface, and the liveness supervisor lifecycle.
type Service struct {
	cfg        ServiceConfig
	server     *Server
	supervisor *Supervisor
	router     *gin.Engine
	upgrader   websocket.Upgrader
	log        zerolog.Logger

	startedAt time.Time
	boundPort int
}

// NewService constructs a relay service with default configuration.
func NewService(logger zerolog.Logger) *Service {
	return NewServiceWithConfig(DefaultServiceConfig(), logger)
}

// NewServiceWithConfig constructs a relay service with explicit configuration.
func NewServiceWithConfig(cfg ServiceConfig, logger zerolog.Logger) *Service {
	if strings.TrimSpace(cfg.Name) == "" {
		cfg.Name = DefaultServiceConfig().Name
	}
	if strings.TrimSpace(cfg.ListenAddr) == "" {
		cfg.ListenAddr = DefaultServiceConfig().ListenAddr
	}
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = DefaultHeartbeatInterval
	}

	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(logger))
	r.Use(observability.RequestMetricsMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(cfg.CorsOrigins),
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	svc := &Service{
		cfg:    cfg,
		server: NewServer(logger),
		router: r,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Mobile peers connect by LAN IP; the Origin header carries no
			// trust signal here, authentication is the pairing code.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log:       logger,
		startedAt: time.Now(),
	}
	svc.supervisor = NewSupervisor(svc.server, cfg.HeartbeatInterval, logger)
	svc.registerRoutes()
	return svc
}

// Server returns the relay state machine owner.
func (s *Service) Server() *Server {
	return s.server
}

// HTTPRouter exposes the gin engine for embedding and tests.
func (s *Service) HTTPRouter() *gin.Engine {
	return s.router
}

// Run serves until signal shutdown.
func (s *Service) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return err
	}
	port := portOf(ln.Addr())
	s.log.Info().
		Str("local", hostURL("localhost", port)).
		Str("network", hostURL(netutil.LocalIP(), port)).
		Msg("relay listening")
	return s.Serve(ctx, ln)
}

// Serve runs the relay on an existing listener until ctx is canceled. The
// supervisor shares the serve lifetime; shutdown closes every peer.
func (s *Service) Serve(ctx context.Context, ln net.Listener) error {
	s.boundPort = portOf(ln.Addr())
	go s.supervisor.Run(ctx)

	srv := &http.Server{Handler: s.router}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		s.closeAllPeers()
		<-serveErr
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Service) closeAllPeers() {
	for _, p := range s.server.Registry().Snapshot() {
		_ = p.transport.Close()
	}
}

// handleWS upgrades the request and runs the peer's read loop until the
// transport fails or closes. One goroutine per connection, nothing shared
// beyond the registry and pairing store.
func (s *Service) handleWS(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn().Err(err).Str("remote", c.Request.RemoteAddr).Msg("websocket upgrade failed")
		return
	}
	s.readLoop(conn)
}

func (s *Service) readLoop(conn *websocket.Conn) {
	peer := s.server.Connect(newWSTransport(conn))
	defer s.server.Disconnect(peer)
	defer conn.Close()

	conn.SetReadLimit(protocol.MaxMessageBytes)
	conn.SetPongHandler(func(string) error {
		peer.MarkAlive()
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug().Str("peer", peer.ID()).Err(err).Msg("read loop ended")
			}
			return
		}
		s.server.HandleMessage(peer, data)
	}
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func portOf(addr net.Addr) int {
	if tcp, ok := addr.(*net.TCPAddr); ok {
		return tcp.Port
	}
	return 0
}

func hostURL(host string, port int) string {
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port))
}
