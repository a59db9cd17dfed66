package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FunctionsPlaceholder is replaced in the test prompt template by the required function names.
const FunctionsPlaceholder = "{{functions}}"

const (
	SpoolMemory = "memory"
	SpoolBolt   = "bolt"
)

// Config holds all configuration for the miner.
type Config struct {
	Scan     ScanConfig     `yaml:"scan"`
	Comments CommentsConfig `yaml:"comments"`
	Tests    TestsConfig    `yaml:"tests"`
	Emit     EmitConfig     `yaml:"emit"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ScanConfig controls which files the walker visits and how they are classified.
type ScanConfig struct {
	Includes   []string `yaml:"includes"`
	Excludes   []string `yaml:"excludes"`
	Extension  string   `yaml:"extension"`   // implementation file extension, e.g. ".go"
	TestSuffix string   `yaml:"test_suffix"` // test file suffix, e.g. "_test.go"
	Workers    int      `yaml:"workers"`     // 0 = one per CPU, 1 = sequential
}

// CommentsConfig holds the comment pipeline settings.
type CommentsConfig struct {
	Enabled      bool   `yaml:"enabled"`
	SystemPrompt string `yaml:"system_prompt"`
	Output       string `yaml:"output"`
}

// TestsConfig holds the test pipeline settings.
type TestsConfig struct {
	Enabled        bool     `yaml:"enabled"`
	SystemPrompt   string   `yaml:"system_prompt"`
	PromptTemplate string   `yaml:"prompt_template"`
	TestPrefix     string   `yaml:"test_prefix"`
	Denylist       []string `yaml:"denylist"`       // replaces the built-in denylist when set
	ExtraDenylist  []string `yaml:"extra_denylist"` // appended to whichever denylist is in effect
	Output         string   `yaml:"output"`
}

// EmitConfig holds record accumulation settings.
type EmitConfig struct {
	Spool string `yaml:"spool"` // "memory" or "bolt"
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			Includes:   []string{"**/*.go"},
			Excludes:   []string{"**/.git/**", "**/vendor/**", "**/node_modules/**"},
			Extension:  ".go",
			TestSuffix: "_test.go",
			Workers:    1,
		},
		Comments: CommentsConfig{
			Enabled:      true,
			SystemPrompt: "You are a Go developer who writes clear, readable, and idiomatic code.",
			Output:       "comment_based_training_data.jsonl",
		},
		Tests: TestsConfig{
			Enabled:        true,
			SystemPrompt:   "You are a Go developer who writes robust error-handling functions.",
			PromptTemplate: "Write the following functions: " + FunctionsPlaceholder + ", with robust error handling.",
			TestPrefix:     "Test",
			Output:         "training_data.jsonl",
		},
		Emit: EmitConfig{
			Spool: SpoolMemory,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for gendata.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "gendata.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".gendata", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Validate reports the first setting that would make a run meaningless.
func (c *Config) Validate() error {
	if c.Scan.Extension == "" {
		return errors.New("scan.extension must not be empty")
	}
	if c.Scan.TestSuffix == "" {
		return errors.New("scan.test_suffix must not be empty")
	}
	if !strings.HasSuffix(c.Scan.TestSuffix, c.Scan.Extension) {
		return fmt.Errorf("scan.test_suffix %q must end with scan.extension %q", c.Scan.TestSuffix, c.Scan.Extension)
	}
	if c.Scan.Workers < 0 {
		return fmt.Errorf("scan.workers must be >= 0, got %d", c.Scan.Workers)
	}
	if c.Tests.TestPrefix == "" {
		return errors.New("tests.test_prefix must not be empty")
	}
	if !strings.Contains(c.Tests.PromptTemplate, FunctionsPlaceholder) {
		return fmt.Errorf("tests.prompt_template must contain %s", FunctionsPlaceholder)
	}
	switch c.Emit.Spool {
	case SpoolMemory, SpoolBolt:
	default:
		return fmt.Errorf("emit.spool must be %q or %q, got %q", SpoolMemory, SpoolBolt, c.Emit.Spool)
	}
	return nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// OutputPath resolves an artifact name against the scanned root.
func OutputPath(root, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(root, name)
}

// SpoolPath returns the path of the on-disk record spool.
func SpoolPath(dir string) string {
	return filepath.Join(dir, ".gendata", "spool.db")
}

// EnsureDataDir ensures the .gendata directory exists.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".gendata"), 0755)
}
