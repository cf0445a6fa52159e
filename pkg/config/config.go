package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig                 `json:"app" yaml:"app"`
	Gateways   map[string]GatewayConfig  `json:"gateways" yaml:"gateways"`
	Providers  map[string]ProviderConfig `json:"providers" yaml:"providers"`
	Memory     MemoryConfig              `json:"memory" yaml:"memory"`
	Catalog    CatalogConfig             `json:"catalog" yaml:"catalog"`
	Autofill   AutofillConfig            `json:"autofill" yaml:"autofill"`
	Governance GovernanceConfig          `json:"governance" yaml:"governance"`
	Logging    LoggingConfig             `json:"logging" yaml:"logging"`
}

type AppConfig struct {
	Name      string `json:"name" yaml:"name"`
	Workspace string `json:"workspace" yaml:"workspace"`
}

// GatewayConfig covers every gateway kind. HTTP uses Addr, Telegram uses
// Token and ChatID, Discord uses Token and ChannelID.
type GatewayConfig struct {
	Addr      string `json:"addr,omitempty" yaml:"addr,omitempty"`
	Token     string `json:"token,omitempty" yaml:"token,omitempty"`
	ChatID    string `json:"chat_id,omitempty" yaml:"chat_id,omitempty"`
	ChannelID string `json:"channel_id,omitempty" yaml:"channel_id,omitempty"`
	Enabled   bool   `json:"enabled" yaml:"enabled"`
}

type ProviderConfig struct {
	APIKey  string `json:"api_key" yaml:"api_key"`
	Model   string `json:"model" yaml:"model"`
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Enabled bool   `json:"enabled" yaml:"enabled"`
}

type MemoryConfig struct {
	Type string `json:"type" yaml:"type"`
	Path string `json:"path" yaml:"path"`
}

// CatalogConfig points at an optional catalog file. Empty means the
// built-in catalog.
type CatalogConfig struct {
	Path string `json:"path" yaml:"path"`
}

type AutofillConfig struct {
	PromptsDir             string `json:"prompts_dir" yaml:"prompts_dir"`
	GenerationBusinessUnit string `json:"generation_business_unit" yaml:"generation_business_unit"`
	Browser                bool   `json:"browser" yaml:"browser"`
	UserAgent              string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
}

type GovernanceConfig struct {
	DenyPatterns []string `json:"deny_patterns" yaml:"deny_patterns"`
	DeniedTypes  []string `json:"denied_types" yaml:"denied_types"`
	AllowedHosts []string `json:"allowed_hosts" yaml:"allowed_hosts"`
}

type LoggingConfig struct {
	LLMLogPath string `json:"llm_log_path" yaml:"llm_log_path"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		App: AppConfig{Name: "onboard", Workspace: "."},
		Gateways: map[string]GatewayConfig{
			"http": {Addr: ":8080", Enabled: true},
		},
		Memory:  MemoryConfig{Type: "sqlite", Path: "onboard.db"},
		Logging: LoggingConfig{LLMLogPath: "logs/llm.jsonl"},
	}
}

// LoadConfig reads a JSON or YAML file, chosen by extension, on top of the
// defaults. ${VAR} references are expanded from the environment first.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	expanded := []byte(os.ExpandEnv(string(data)))

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(expanded, cfg)
	default:
		err = json.Unmarshal(expanded, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	if c.Memory.Path == "" {
		return fmt.Errorf("memory.path is required")
	}
	for name, gw := range c.Gateways {
		if !gw.Enabled {
			continue
		}
		switch name {
		case "http":
			if gw.Addr == "" {
				return fmt.Errorf("gateways.http.addr is required")
			}
		case "telegram", "discord":
			if gw.Token == "" {
				return fmt.Errorf("gateways.%s.token is required", name)
			}
		default:
			return fmt.Errorf("unknown gateway %q", name)
		}
	}
	return nil
}

// GetDefaultProvider returns the first enabled provider by name.
func (c *Config) GetDefaultProvider() (string, ProviderConfig) {
	names := make([]string, 0, len(c.Providers))
	for name := range c.Providers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if p := c.Providers[name]; p.Enabled {
			return name, p
		}
	}
	return "", ProviderConfig{}
}

// GetGateway returns the named gateway config if it is enabled.
func (c *Config) GetGateway(name string) (GatewayConfig, bool) {
	gw, ok := c.Gateways[name]
	if ok && gw.Enabled {
		return gw, true
	}
	return GatewayConfig{}, false
}
