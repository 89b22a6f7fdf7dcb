package logging

import (
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const EnvLogLevel = "PADRELAY_LOG_LEVEL"

// RuntimeLevel resolves the daemon log level: configured value first, then
// environment override.
func RuntimeLevel(configured string) zerolog.Level {
	level := zerolog.InfoLevel
	if lvl, ok := ParseLevel(configured); ok {
		level = lvl
	}
	if lvl, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		level = lvl
	}
	return level
}

var testOnce sync.Once

// ConfigureTests pins the global level for package tests.
func ConfigureTests() {
	testOnce.Do(func() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	})
}

func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}
