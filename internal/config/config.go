package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds the CLI surface's config.json: which bot accounts the
// agent can log in as, which convention to play, and the server target.
type Config struct {
	UseLocalhost        bool              `json:"use_localhost"`
	Bots                map[string]string `json:"bots"`
	Convention          string            `json:"convention"`
	DisconnectOnGameEnd bool              `json:"disconnect_on_game_end"`
}

// Load reads config from path. path defaults to "config.json" in the
// working directory, overridable via $HANABI_BOT_CONFIG for the one
// setting that legitimately varies per deployment.
func Load(path string) (*Config, error) {
	if path == "" {
		path = envOrDefault("HANABI_BOT_CONFIG", "config.json")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Convention != "encoder" && cfg.Convention != "hgroup" {
		return nil, fmt.Errorf("config %s: convention must be \"encoder\" or \"hgroup\", got %q", path, cfg.Convention)
	}
	return &cfg, nil
}

// ServerURL returns the base URL to dial, honoring UseLocalhost.
func (c *Config) ServerURL() string {
	if c.UseLocalhost {
		return "http://localhost:80"
	}
	return "https://hanabi.live"
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
