package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigYAML(t *testing.T) {
	t.Setenv("ONBOARD_TG_TOKEN", "123:abc")
	path := writeConfig(t, "config.yaml", `
gateways:
  telegram:
    token: ${ONBOARD_TG_TOKEN}
    chat_id: "42"
    enabled: true
providers:
  openai:
    api_key: key
    model: gpt-4o-mini
    enabled: true
autofill:
  generation_business_unit: Global Technology
governance:
  deny_patterns: ["internal\\.example"]
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	tg, ok := cfg.GetGateway("telegram")
	if !ok || tg.Token != "123:abc" || tg.ChatID != "42" {
		t.Errorf("telegram = %+v, %v", tg, ok)
	}
	if _, ok := cfg.GetGateway("http"); !ok {
		t.Errorf("default http gateway lost")
	}
	if name, p := cfg.GetDefaultProvider(); name != "openai" || p.Model != "gpt-4o-mini" {
		t.Errorf("provider = %s %+v", name, p)
	}
	if cfg.Memory.Path != "onboard.db" {
		t.Errorf("memory path = %q", cfg.Memory.Path)
	}
	if len(cfg.Governance.DenyPatterns) != 1 || cfg.Governance.DenyPatterns[0] != `internal\.example` {
		t.Errorf("deny patterns = %q", cfg.Governance.DenyPatterns)
	}
}

func TestLoadConfigJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
		"gateways": {"discord": {"token": "t", "channel_id": "c", "enabled": false}},
		"memory": {"type": "sqlite", "path": "/tmp/x.db"}
	}`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if _, ok := cfg.GetGateway("discord"); ok {
		t.Errorf("disabled gateway reported as enabled")
	}
	if cfg.Memory.Path != "/tmp/x.db" {
		t.Errorf("memory path = %q", cfg.Memory.Path)
	}
	if name, _ := cfg.GetDefaultProvider(); name != "" {
		t.Errorf("provider = %q, want none", name)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Errorf("missing file accepted")
	}
	if _, err := LoadConfig(writeConfig(t, "bad.json", "{")); err == nil {
		t.Errorf("malformed file accepted")
	}
	path := writeConfig(t, "c.yaml", "gateways:\n  telegram:\n    enabled: true\n")
	if _, err := LoadConfig(path); err == nil {
		t.Errorf("telegram without token accepted")
	}
	path = writeConfig(t, "c2.yaml", "gateways:\n  slack:\n    enabled: true\n")
	if _, err := LoadConfig(path); err == nil {
		t.Errorf("unknown gateway accepted")
	}
}
