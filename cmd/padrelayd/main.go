package main

import (
	"flag"
	"fmt"
	"os"

	"padrelay/internal/config"
	"padrelay/internal/logging"
	"padrelay/internal/observability"
	"padrelay/internal/relay"
)

func main() {
	configPath := flag.String("config", "", "path to relay config (TOML)")
	addr := flag.String("addr", "", "listen address override")
	flag.Parse()

	cfg, err := config.LoadRelayConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "padrelayd: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	logger := observability.InitLogger(cfg.Name, logging.RuntimeLevel(cfg.LogLevel))

	svc := relay.NewServiceWithConfig(relay.ServiceConfig{
		Name:              cfg.Name,
		ListenAddr:        cfg.Addr,
		CorsOrigins:       cfg.CorsOrigins,
		HeartbeatInterval: cfg.Heartbeat(),
	}, logger)
	if err := svc.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "padrelayd: %v\n", err)
		os.Exit(1)
	}
}
