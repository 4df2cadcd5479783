package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Trivaxy/Spyglass/src/symbols"
)

// Config contains the language tool configuration.
type Config struct {
	// DefaultVisibility applies to positions that carry no recorded
	// visibility rules. Either a tier ("private", "internal",
	// "public") or an explicit rule list.
	DefaultVisibility VisibilityConfig `yaml:"default_visibility"`

	// CachePath is where the persisted symbol cache lives, relative
	// to the workspace root unless absolute.
	CachePath string `yaml:"cache_path,omitempty"`

	// LogVerbosity feeds the logging backend; 0 is quiet, higher is
	// chattier.
	LogVerbosity int `yaml:"log_verbosity,omitempty"`
}

// VisibilityConfig accepts either a bare tier string or a rule list in
// YAML:
//
//	default_visibility: internal
//
//	default_visibility:
//	  - pattern: "mypack:**"
//	    type: "*"
type VisibilityConfig struct {
	Tier  symbols.VisibilityTier
	Rules []VisibilityRule
}

// VisibilityRule mirrors one symbols.Visibility in config form.
type VisibilityRule struct {
	Pattern string `yaml:"pattern"`
	Type    string `yaml:"type"`
}

// UnmarshalYAML decodes the scalar-or-sequence form.
func (v *VisibilityConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&v.Tier)
	}
	return node.Decode(&v.Rules)
}

// MarshalYAML emits the same shape UnmarshalYAML accepts.
func (v VisibilityConfig) MarshalYAML() (interface{}, error) {
	if len(v.Rules) > 0 {
		return v.Rules, nil
	}
	return string(v.Tier), nil
}

// Policy converts the configured default into the form the resolver
// consumes.
func (v VisibilityConfig) Policy() symbols.VisibilityPolicy {
	policy := symbols.VisibilityPolicy{Tier: v.Tier}
	for _, rule := range v.Rules {
		policy.Rules = append(policy.Rules, symbols.Visibility{
			Pattern: rule.Pattern,
			Type:    symbols.CacheType(rule.Type),
		})
	}
	return policy
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := GetDefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// SaveConfig saves configuration to a YAML file.
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	switch config.DefaultVisibility.Tier {
	case "", symbols.VisibilityPrivate, symbols.VisibilityInternal, symbols.VisibilityPublic:
	default:
		return fmt.Errorf("unknown visibility tier %q", config.DefaultVisibility.Tier)
	}
	for i, rule := range config.DefaultVisibility.Rules {
		t := symbols.CacheType(rule.Type)
		if t != symbols.TypeWildcard && !symbols.IsValidType(t) {
			return fmt.Errorf("visibility rule %d: unknown cache type %q", i, rule.Type)
		}
	}
	return nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".spyglass", "config.yaml")
}

// GetDefaultConfig returns the configuration used when no file exists.
func GetDefaultConfig() *Config {
	return &Config{
		DefaultVisibility: VisibilityConfig{Tier: symbols.VisibilityPublic},
		CachePath:         filepath.Join(".cache", "spyglass.json"),
		LogVerbosity:      1,
	}
}
