// Package config loads and holds all settings for the obfuscator.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration settings for the obfuscator.
// Struct tags control how Viper maps config file keys and environment variables.
type Config struct {
	// Input/Output settings
	ProjectRoot     string `mapstructure:"project_root" yaml:"project_root"`
	TargetDirectory string `mapstructure:"target_directory" yaml:"target_directory"`

	// General behavior
	Silent       bool `mapstructure:"silent" yaml:"silent"`                 // Suppress informational messages
	AbortOnError bool `mapstructure:"abort_on_error" yaml:"abort_on_error"` // Stop processing on the first error
	DebugMode    bool `mapstructure:"debug_mode" yaml:"debug_mode"`         // Enable verbose debug logging

	// File Handling
	ScriptExtensions []string `mapstructure:"script_extensions" yaml:"script_extensions"` // Extensions treated as GDScript source
	SceneExtensions  []string `mapstructure:"scene_extensions" yaml:"scene_extensions"`   // Extensions treated as scene/resource text
	SkipPaths        []string `mapstructure:"skip" yaml:"skip"`                           // Paths to completely ignore
	KeepPaths        []string `mapstructure:"keep" yaml:"keep"`                           // Paths to copy without rewriting

	// Rewrite Feature Toggles
	Melt          bool `mapstructure:"melt" yaml:"melt"`                     // Resolve and validate res:// paths against the project root
	RemoveCasts   bool `mapstructure:"remove_casts" yaml:"remove_casts"`     // Strip type annotations and `as` casts
	StripComments bool `mapstructure:"strip_comments" yaml:"strip_comments"` // Delete plain comments from output

	// Scrambling Options
	ScrambleMode   string `mapstructure:"scramble_mode" yaml:"scramble_mode"`     // 'identifier', 'hexa', 'numeric'
	ScrambleLength int    `mapstructure:"scramble_length" yaml:"scramble_length"` // Target length for scrambled names

	// String Classification
	TranslationPrefix string `mapstructure:"translation_prefix" yaml:"translation_prefix"` // Prefix marking translation keys inside strings

	// Ignore Lists (names NOT to rename, beyond the built-in reserved set)
	IgnoreNames       []string `mapstructure:"ignore_names" yaml:"ignore_names"`
	IgnoreNamesPrefix []string `mapstructure:"ignore_names_prefix" yaml:"ignore_names_prefix"`
}

// Default values for the configuration.
// Viper requires keys to be lowercase for automatic env var binding.
var defaults = map[string]interface{}{
	"project_root":       "",
	"target_directory":   "",
	"silent":             false,
	"abort_on_error":     true,
	"debug_mode":         false,
	"script_extensions":  []string{"gd"},
	"scene_extensions":   []string{"tscn", "tres", "escn", "godot"},
	"skip":               []string{".git*", ".import*", "*.bak"},
	"keep":               nil,
	"melt":               false,
	"remove_casts":       true,
	"strip_comments":     true,
	"scramble_mode":      "identifier",
	"scramble_length":    5,
	"translation_prefix": "TR_",
	"ignore_names":       nil,
	"ignore_names_prefix": nil,
}

var (
	// Testing controls whether output is suppressed for testing purposes
	Testing bool
)

// PrintInfo prints formatted information with respect for Testing mode.
func PrintInfo(format string, args ...interface{}) {
	if !Testing {
		fmt.Printf(format, args...)
	}
}

// LoadConfig reads configuration from file and environment variables,
// then returns a filled Config struct.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.SetEnvPrefix("GDMIXER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	explicit := configPath != ""
	if configPath == "" {
		configPath = "gdmixer.yaml" // Default path
	}

	if _, err := os.Stat(configPath); err == nil {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configPath, err)
		}
	} else if os.IsNotExist(err) {
		if explicit {
			return nil, fmt.Errorf("specified config file not found: %s", configPath)
		}
		PrintInfo("Info: Configuration file 'gdmixer.yaml' not found, using default settings.\n")
	} else {
		return nil, fmt.Errorf("error checking config file %s: %w", configPath, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}
	if !cfg.Silent && explicit {
		PrintInfo("Info: Loaded configuration from %s\n", configPath)
	}

	if cfg.TargetDirectory != "" {
		cfg.TargetDirectory = filepath.Clean(cfg.TargetDirectory)
	}
	return cfg, nil
}

// SaveConfig saves the default configuration to a file.
func SaveConfig(configPath string) error {
	cfg := DefaultConfig()
	yamlData, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshalling default config: %w", err)
	}
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory for config file %s: %w", configPath, err)
	}
	if err := os.WriteFile(configPath, yamlData, 0644); err != nil {
		return fmt.Errorf("error writing config file %s: %w", configPath, err)
	}
	PrintInfo("Info: Saved default configuration to %s\n", configPath)
	return nil
}

// DefaultConfig returns a configuration with default settings.
func DefaultConfig() *Config {
	return &Config{
		Silent:            false,
		AbortOnError:      true,
		DebugMode:         false,
		ScriptExtensions:  []string{"gd"},
		SceneExtensions:   []string{"tscn", "tres", "escn", "godot"},
		SkipPaths:         []string{".git*", ".import*", "*.bak"},
		KeepPaths:         []string{},
		Melt:              false,
		RemoveCasts:       true,
		StripComments:     true,
		ScrambleMode:      "identifier",
		ScrambleLength:    5,
		TranslationPrefix: "TR_",
	}
}
