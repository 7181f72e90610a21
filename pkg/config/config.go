// Package config loads scry configuration from TOML, YAML or JSON files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ErrInvalid is returned when a configuration file does not satisfy the
// configuration schema.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all configuration options for scry.
type Config struct {
	// Analyzer selection
	Analysis AnalysisConfig `koanf:"analysis" toml:"analysis"`

	// Thresholds for reported metrics
	Thresholds ThresholdConfig `koanf:"thresholds" toml:"thresholds"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude" toml:"exclude"`

	// Per-file review cache
	Cache CacheConfig `koanf:"cache" toml:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output"`

	// Markdown report settings
	Report ReportConfig `koanf:"report" toml:"report"`

	// Fix suggestion settings
	Fixer FixerConfig `koanf:"fixer" toml:"fixer"`

	Server ServerConfig `koanf:"server" toml:"server"`
	Log    LogConfig    `koanf:"log" toml:"log"`
}

// AnalysisConfig controls which analyzers run.
type AnalysisConfig struct {
	Symbols    bool `koanf:"symbols" toml:"symbols"`
	Complexity bool `koanf:"complexity" toml:"complexity"`
	DeadCode   bool `koanf:"dead_code" toml:"dead_code"`
	Loops      bool `koanf:"loops" toml:"loops"`
	MaxWorkers int  `koanf:"max_workers" toml:"max_workers"` // 0 means 2x NumCPU
}

// ThresholdConfig defines metric thresholds.
type ThresholdConfig struct {
	CyclomaticComplexity int `koanf:"cyclomatic_complexity" toml:"cyclomatic_complexity"`
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns  []string `koanf:"patterns" toml:"patterns"`
	Dirs      []string `koanf:"dirs" toml:"dirs"`
	Gitignore bool     `koanf:"gitignore" toml:"gitignore"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" toml:"enabled"`
	Dir     string `koanf:"dir" toml:"dir"`
	TTL     int    `koanf:"ttl" toml:"ttl"` // TTL in hours, 0 keeps entries until the file changes
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format string `koanf:"format" toml:"format"` // text, json, markdown, toon
	Color  bool   `koanf:"color" toml:"color"`
}

// ReportConfig controls the Markdown review report.
type ReportConfig struct {
	Enabled    bool   `koanf:"enabled" toml:"enabled"`
	Dir        string `koanf:"dir" toml:"dir"`
	Individual bool   `koanf:"individual" toml:"individual"`
}

// FixerConfig controls fix suggestions.
type FixerConfig struct {
	Endpoint     string `koanf:"endpoint" toml:"endpoint"` // empty disables generated fixes
	Timeout      int    `koanf:"timeout" toml:"timeout"`   // seconds
	CacheSize    int    `koanf:"cache_size" toml:"cache_size"`
	ContextLines int    `koanf:"context_lines" toml:"context_lines"`
	MaxChars     int    `koanf:"max_chars" toml:"max_chars"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr string `koanf:"addr" toml:"addr"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level string `koanf:"level" toml:"level"` // debug, info, warn, error
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Symbols:    true,
			Complexity: true,
			DeadCode:   true,
			Loops:      true,
		},
		Thresholds: ThresholdConfig{
			CyclomaticComplexity: 10,
		},
		Exclude: ExcludeConfig{
			Patterns: []string{},
			Dirs: []string{
				".git",
				".scry",
				".venv",
				"venv",
				"__pycache__",
				"node_modules",
				"build",
				"dist",
			},
			Gitignore: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".scry/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
		Report: ReportConfig{
			Enabled: false,
			Dir:     "reports",
		},
		Fixer: FixerConfig{
			Timeout:      30,
			CacheSize:    128,
			ContextLines: 10,
			MaxChars:     1000,
		},
		Server: ServerConfig{
			Addr: ":8000",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// DisabledAnalyzers returns the names of the analyzers turned off.
func (c *Config) DisabledAnalyzers() []string {
	var names []string
	if !c.Analysis.Symbols {
		names = append(names, "symbols")
	}
	if !c.Analysis.Complexity {
		names = append(names, "complexity")
	}
	if !c.Analysis.DeadCode {
		names = append(names, "deadcode")
	}
	if !c.Analysis.Loops {
		names = append(names, "loops")
	}
	return names
}

// configNames are the file names searched for, in order.
var configNames = []string{
	"scry.toml",
	"scry.yaml",
	"scry.yml",
	"scry.json",
	".scry.toml",
	".scry.yaml",
	".scry.yml",
	".scry.json",
}

// searchDirs are the directories searched, relative to the working
// directory.
var searchDirs = []string{".", ".scry"}

// LoadResult is a loaded configuration and the file it came from. Source
// is empty when no file was found.
type LoadResult struct {
	Config *Config
	Source string
}

type loadOptions struct {
	path string
	dir  string
}

// LoadOption configures LoadConfig.
type LoadOption func(*loadOptions)

// WithPath loads the given file instead of searching.
func WithPath(path string) LoadOption {
	return func(o *loadOptions) {
		o.path = path
	}
}

// WithDir searches relative to dir instead of the working directory.
func WithDir(dir string) LoadOption {
	return func(o *loadOptions) {
		o.dir = dir
	}
}

// LoadConfig loads an explicit file or searches the standard locations.
// Defaults are returned when no file exists. A file that exists but fails
// to parse or validate is an error.
func LoadConfig(opts ...LoadOption) (*LoadResult, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	path := o.path
	if path == "" {
		path = Find(o.dir)
	}
	if path == "" {
		return &LoadResult{Config: DefaultConfig()}, nil
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &LoadResult{Config: cfg, Source: path}, nil
}

// Find returns the first config file in the standard locations below dir,
// or the empty string.
func Find(dir string) string {
	for _, sub := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, sub, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}
	return ""
}

// Load loads configuration from a file, layered over the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	if err := validate(k.Raw()); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return cfg, nil
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	case ".json":
		return json.Parser()
	default:
		return toml.Parser()
	}
}

// LoadOrDefault tries to load config from standard locations or returns
// defaults.
func LoadOrDefault() *Config {
	result, err := LoadConfig()
	if err != nil {
		return DefaultConfig()
	}
	return result.Config
}

// ShouldExclude checks if a path should be excluded from review.
func (c *Config) ShouldExclude(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, dir := range c.Exclude.Dirs {
		if strings.Contains(slashed, "/"+dir+"/") || strings.HasPrefix(slashed, dir+"/") {
			return true
		}
	}

	base := filepath.Base(path)
	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, slashed); matched {
			return true
		}
	}

	return false
}
