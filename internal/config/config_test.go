package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("default port: %q", cfg.Port)
	}
	if cfg.BaseURL() != "http://localhost:8080" {
		t.Fatalf("default base url: %q", cfg.BaseURL())
	}
}

func TestBaseURLPrefersPublic(t *testing.T) {
	t.Setenv("PUBLIC_BASE_URL", "https://accounts.example.com")
	t.Setenv("APP_PORT", "9000")
	cfg := Load()
	if cfg.BaseURL() != "https://accounts.example.com" {
		t.Fatalf("base url: %q", cfg.BaseURL())
	}
}
