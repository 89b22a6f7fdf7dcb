package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type RelayConfig struct {
	Name              string   `toml:"name"`
	Addr              string   `toml:"addr"`
	CorsOrigins       []string `toml:"cors_origins"`
	HeartbeatInterval duration `toml:"heartbeat_interval"`
	LogLevel          string   `toml:"log_level"`
}

// duration wraps time.Duration for TOML strings like "15s".
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = duration(parsed)
	return nil
}

func (c RelayConfig) Heartbeat() time.Duration {
	return time.Duration(c.HeartbeatInterval)
}

func DefaultRelayConfig() RelayConfig {
	return RelayConfig{
		Name:              "padrelay",
		Addr:              ":8765",
		HeartbeatInterval: duration(15 * time.Second),
		LogLevel:          "info",
	}
}

// LoadRelayConfig reads the TOML config at path, applying defaults for
// absent fields. An empty path yields the defaults.
func LoadRelayConfig(path string) (RelayConfig, error) {
	cfg := DefaultRelayConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	if err := loadToml(path, &cfg); err != nil {
		return RelayConfig{}, err
	}
	if cfg.Name == "" {
		cfg.Name = "padrelay"
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8765"
	}
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = duration(15 * time.Second)
	}
	if err := ValidateRelayConfig(cfg); err != nil {
		return RelayConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateRelayConfig(cfg RelayConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("relay config missing name")
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("relay config missing addr")
	}
	if cfg.Heartbeat() < time.Second {
		return fmt.Errorf("relay config heartbeat_interval below 1s")
	}
	for i, origin := range cfg.CorsOrigins {
		if strings.TrimSpace(origin) == "" {
			return fmt.Errorf("cors_origins[%d] is empty", i)
		}
	}
	return nil
}
