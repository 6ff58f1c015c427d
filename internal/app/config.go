package app

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"sae/internal/transport"
)

// Config holds runtime options. Everything has a usable default; a TOML file
// and CLI flags can override it. Nothing here is secret: identity keys are
// generated per run and never configured.
type Config struct {
	// Listen is the host-mode bind address.
	Listen string `toml:"listen"`
	// SOCKSProxy is the SOCKS5 proxy for Tor dialing.
	SOCKSProxy string `toml:"socks_proxy"`
	// UseTor routes outgoing connections through SOCKSProxy.
	UseTor bool `toml:"use_tor"`
	// LogLevel is one of ERROR, WARNING, NOTICE, INFO, DEBUG, CRITICAL.
	LogLevel string `toml:"log_level"`
	// Username is the display name attached to outgoing chat messages.
	Username string `toml:"username"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Listen:     "127.0.0.1:4777",
		SOCKSProxy: transport.DefaultSOCKSAddr,
		LogLevel:   "NOTICE",
		Username:   "phantom",
	}
}

// LoadConfig reads a TOML file over the defaults. An empty path returns the
// defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("app: parsing config %s: %w", path, err)
	}
	return cfg, nil
}
