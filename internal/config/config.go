package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ostafen/extfix/internal/signature"
	"gopkg.in/yaml.v3"
)

// Config mirrors the audit flags. Every field can also be set on the
// command line, which takes precedence.
type Config struct {
	Verbose    bool     `yaml:"verbose"`
	Rename     bool     `yaml:"rename"`
	Skip       []string `yaml:"skip"`
	LogFile    string   `yaml:"log_file"`
	LogLevel   string   `yaml:"log_level"`
	Report     string   `yaml:"report"`
	NoProgress bool     `yaml:"no_progress"`

	// Signatures are appended to the built-in catalog.
	Signatures []SignatureConfig `yaml:"signatures"`
}

// SignatureConfig describes a user-defined format. Patterns are written in
// hex notation, e.g. "FF D8 FF".
type SignatureConfig struct {
	Ext      string   `yaml:"ext"`
	Name     string   `yaml:"name"`
	Alt      []string `yaml:"alt"`
	Patterns []string `yaml:"patterns"`
	Offset   int      `yaml:"offset"`
}

// Load reads the YAML file at path. Environment variables in the form $VAR
// or ${VAR} are expanded before parsing.
func Load(path string) (*Config, error) {
	rawBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(rawBytes)
}

func Parse(data []byte) (*Config, error) {
	contentWithEnv := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(contentWithEnv), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}

	for i, ext := range c.Skip {
		c.Skip[i] = NormalizeExt(ext)
	}

	_, err := c.Catalog()
	return err
}

// Catalog returns the built-in catalog extended with the configured
// signatures.
func (c *Config) Catalog() (*signature.Catalog, error) {
	extra := make([]signature.Signature, 0, len(c.Signatures))

	for i, sc := range c.Signatures {
		sig, err := sc.signature()
		if err != nil {
			return nil, fmt.Errorf("signatures[%d]: %w", i, err)
		}
		extra = append(extra, sig)
	}
	return signature.WithExtra(extra...)
}

func (sc SignatureConfig) signature() (signature.Signature, error) {
	sig := signature.Signature{
		Ext:    NormalizeExt(sc.Ext),
		Name:   sc.Name,
		Offset: sc.Offset,
	}

	for _, alt := range sc.Alt {
		sig.Alt = append(sig.Alt, NormalizeExt(alt))
	}

	for _, p := range sc.Patterns {
		pattern, err := signature.ParsePattern(p)
		if err != nil {
			return signature.Signature{}, err
		}
		sig.Patterns = append(sig.Patterns, pattern)
	}
	return sig, nil
}

// NormalizeExt lowercases ext and strips a leading dot, so ".JPG" and "jpg"
// denote the same extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
