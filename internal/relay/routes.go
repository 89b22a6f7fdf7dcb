package relay

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"padrelay/internal/netutil"
)

func (s *Service) registerRoutes() {
	s.router.GET("/ws", s.handleWS)

	// Observational status surface, not part of the pairing protocol.
	s.router.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "running",
			"clients": s.server.Registry().Len(),
			"ip":      netutil.LocalIP(),
			"port":    s.boundPort,
		})
	})

	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.startedAt).String(),
			"service": s.cfg.Name,
			"version": "0.0.1",
		})
	})

	s.router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ready":   true,
			"uptime":  time.Since(s.startedAt).String(),
			"service": s.cfg.Name,
			"version": "0.0.1",
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
