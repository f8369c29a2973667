package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `{
		"use_localhost": true,
		"bots": {"alice": "secret"},
		"convention": "encoder",
		"disconnect_on_game_end": true
	}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.UseLocalhost || cfg.Bots["alice"] != "secret" || cfg.Convention != "encoder" || !cfg.DisconnectOnGameEnd {
		t.Errorf("got %+v", cfg)
	}
}

func TestLoadRejectsUnknownConvention(t *testing.T) {
	path := writeConfig(t, `{"convention": "nonsense"}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown convention")
	}
}

func TestServerURLHonorsUseLocalhost(t *testing.T) {
	local := Config{UseLocalhost: true}
	if local.ServerURL() != "http://localhost:80" {
		t.Errorf("got %s", local.ServerURL())
	}
	remote := Config{UseLocalhost: false}
	if remote.ServerURL() != "https://hanabi.live" {
		t.Errorf("got %s", remote.ServerURL())
	}
}
