package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Missing-entity policies.
const (
	PolicyStrict  = "strict"
	PolicyLenient = "lenient"
)

// Cluster detectors for the interaction summary.
const (
	DetectorComponents       = "components"
	DetectorLabelPropagation = "label_propagation"
)

type BackendConfig struct {
	Provider    string  `toml:"provider" yaml:"provider"`
	Model       string  `toml:"model" yaml:"model"`
	BaseURL     string  `toml:"base_url" yaml:"base_url"`
	APIKey      string  `toml:"api_key" yaml:"api_key"`
	APIKeyEnv   string  `toml:"api_key_env" yaml:"api_key_env"`
	Temperature float32 `toml:"temperature" yaml:"temperature"`
	MaxTokens   int     `toml:"max_tokens" yaml:"max_tokens"`
}

type RetryConfig struct {
	MaxRetries  int      `toml:"max_retries" yaml:"max_retries"`
	BackoffStep Duration `toml:"backoff_step" yaml:"backoff_step"`
	Timeout     Duration `toml:"timeout" yaml:"timeout"`
}

type PipelineConfig struct {
	CatalogPath          string   `toml:"catalog_path" yaml:"catalog_path"`
	CatalogURL           string   `toml:"catalog_url" yaml:"catalog_url"`
	MinCatalog           int      `toml:"min_catalog" yaml:"min_catalog"`
	SampleCount          int      `toml:"sample_count" yaml:"sample_count"`
	Seed                 int64    `toml:"seed" yaml:"seed"`
	BatchSize            int      `toml:"batch_size" yaml:"batch_size"`
	MissingPolicy        string   `toml:"missing_policy" yaml:"missing_policy"`
	OutputRoot           string   `toml:"output_root" yaml:"output_root"`
	RunName              string   `toml:"run_name" yaml:"run_name"`
	SpotAudit            []string `toml:"spot_audit" yaml:"spot_audit"`
	ManualMinutesPerGene float64  `toml:"manual_minutes_per_gene" yaml:"manual_minutes_per_gene"`
	ClusterDetector      string   `toml:"cluster_detector" yaml:"cluster_detector"`
}

// Prompts holds the instruction templates. User takes three %s verbs:
// the genes to evaluate, the partner pool, and the JSON schema example.
type Prompts struct {
	System string `toml:"system" yaml:"system"`
	User   string `toml:"user" yaml:"user"`
}

type GraphConfig struct {
	URI      string `toml:"uri" yaml:"uri"`
	User     string `toml:"user" yaml:"user"`
	Password string `toml:"password" yaml:"password"`
}

type ServerConfig struct {
	Addr string `toml:"addr" yaml:"addr"`
}

type RelayConfig struct {
	Models []string `toml:"models" yaml:"models"`
	Prompt string   `toml:"prompt" yaml:"prompt"`
}

type Config struct {
	Backend  BackendConfig  `toml:"backend" yaml:"backend"`
	Retry    RetryConfig    `toml:"retry" yaml:"retry"`
	Pipeline PipelineConfig `toml:"pipeline" yaml:"pipeline"`
	Prompts  Prompts        `toml:"prompts" yaml:"prompts"`
	Graph    GraphConfig    `toml:"graph" yaml:"graph"`
	Server   ServerConfig   `toml:"server" yaml:"server"`
	Relay    RelayConfig    `toml:"relay" yaml:"relay"`
}

// Load reads a TOML or YAML file (chosen by extension) on top of Default().
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes data in the format named by ext (".toml", ".yaml" or ".yml").
func Parse(data []byte, ext string) (*Config, error) {
	cfg := Default()
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".toml", "":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.Backend.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.Backend.Model = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.Backend.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv("GENESCAN_OUTPUT_ROOT"); v != "" {
		c.Pipeline.OutputRoot = v
	}
	if v := os.Getenv("GENESCAN_CATALOG"); v != "" {
		c.Pipeline.CatalogPath = v
	}
	if v := os.Getenv("MEMGRAPH_URI"); v != "" {
		c.Graph.URI = v
	}
	if v := os.Getenv("MEMGRAPH_USER"); v != "" {
		c.Graph.User = v
	}
	if v := os.Getenv("MEMGRAPH_PASSWORD"); v != "" {
		c.Graph.Password = v
	}
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Backend.Provider) {
	case "openai", "ollama", "claude", "gemini":
	default:
		return fmt.Errorf("unsupported llm provider: %s", c.Backend.Provider)
	}
	if c.Backend.Model == "" {
		return fmt.Errorf("backend model is required")
	}
	if c.Pipeline.SampleCount <= 0 {
		return fmt.Errorf("sample count must be positive, got %d", c.Pipeline.SampleCount)
	}
	if c.Pipeline.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", c.Pipeline.BatchSize)
	}
	switch c.Pipeline.MissingPolicy {
	case PolicyStrict, PolicyLenient:
	default:
		return fmt.Errorf("unknown missing-entity policy %q", c.Pipeline.MissingPolicy)
	}
	switch c.Pipeline.ClusterDetector {
	case DetectorComponents, DetectorLabelPropagation:
	default:
		return fmt.Errorf("unknown cluster detector %q", c.Pipeline.ClusterDetector)
	}
	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	return nil
}

// Duration decodes "1.5s"-style strings from TOML and YAML.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}
