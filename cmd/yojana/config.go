package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/janmitra/yojana/kit"
	"github.com/janmitra/yojana/llm"
	"github.com/janmitra/yojana/websearch"
)

// Config holds the full yojana service configuration.
type Config struct {
	Listen       string           `yaml:"listen"`
	DBPath       string           `yaml:"db_path"`
	RegistryURL  string           `yaml:"registry_url"`
	PortalURL    string           `yaml:"portal_url"`
	CacheTTL     kit.Duration     `yaml:"cache_ttl"`
	LogLevel     string           `yaml:"log_level"`
	MCPTransport string           `yaml:"mcp_transport"`
	LLM          llm.Config       `yaml:"llm"`
	Search       websearch.Config `yaml:"search"`
}

// DefaultConfig returns sane defaults.
func DefaultConfig() *Config {
	return &Config{
		Listen:      ":3000",
		DBPath:      "data/yojana.db",
		RegistryURL: "https://api.mockapi.io/schemes/v1",
		PortalURL:   "https://services.india.gov.in",
		CacheTTL:    kit.Duration(time.Hour),
		LogLevel:    "info",
	}
}

// LoadConfig reads a YAML config file and merges it over DefaultConfig.
// A missing file is not an error; the defaults are used as-is.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg.applyEnv()
		return cfg, cfg.Validate()
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyEnv()
	return cfg, cfg.Validate()
}

// applyEnv lets the common deployment knobs override the file.
func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Listen = ":" + v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("GROQ_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("MCP_TRANSPORT"); v != "" {
		c.MCPTransport = v
	}
}

// Validate checks that required fields are present.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	if c.RegistryURL == "" {
		return fmt.Errorf("registry_url is required")
	}
	if c.PortalURL == "" {
		return fmt.Errorf("portal_url is required")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache_ttl must be > 0")
	}
	switch c.MCPTransport {
	case "", "stdio":
	default:
		return fmt.Errorf("unsupported mcp_transport %q (use stdio)", c.MCPTransport)
	}
	return nil
}
