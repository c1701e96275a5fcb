// Package config holds the settings of the tsparse tool: parser limits,
// the batch worker pool and output rendering. Files are TOML or YAML,
// chosen by extension.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/nooga/tsparse/pkg/parser"
)

// Config holds the complete tool configuration
type Config struct {
	Parser ParserConfig `toml:"parser" yaml:"parser"`
	Batch  BatchConfig  `toml:"batch" yaml:"batch"`
	Output OutputConfig `toml:"output" yaml:"output"`
}

// ParserConfig holds per-file parse settings
type ParserConfig struct {
	MaxErrors      int  `toml:"max_errors" yaml:"max_errors"`
	AttachComments bool `toml:"attach_comments" yaml:"attach_comments"`
}

// BatchConfig holds worker pool settings
type BatchConfig struct {
	Workers         int      `toml:"workers" yaml:"workers"`
	JobBuffer       int      `toml:"job_buffer" yaml:"job_buffer"`
	ResultBuffer    int      `toml:"result_buffer" yaml:"result_buffer"`
	ShutdownTimeout Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// OutputConfig holds rendering settings
type OutputConfig struct {
	Format string `toml:"format" yaml:"format"` // text, json or ast
	Color  string `toml:"color" yaml:"color"`   // auto, always or never
}

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatAST  = "ast"
)

// Colour modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a configuration file. The format follows the extension:
// .toml, or .yaml/.yml. Missing fields take their defaults.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg *Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		cfg, err = ParseTOML(string(data))
	case ".yaml", ".yml":
		cfg, err = ParseYAML(data)
	default:
		return nil, fmt.Errorf("unsupported config format %q: use .toml, .yaml or .yml", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseTOML decodes a TOML document and applies defaults.
func ParseTOML(data string) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// ParseYAML decodes a YAML document and applies defaults.
func ParseYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// Batch
	if c.Batch.Workers == 0 {
		c.Batch.Workers = runtime.NumCPU()
	}
	if c.Batch.JobBuffer == 0 {
		c.Batch.JobBuffer = 64
	}
	if c.Batch.ResultBuffer == 0 {
		c.Batch.ResultBuffer = 64
	}
	if c.Batch.ShutdownTimeout.Duration == 0 {
		c.Batch.ShutdownTimeout.Duration = 10 * time.Second
	}

	// Output
	if c.Output.Format == "" {
		c.Output.Format = FormatText
	}
	if c.Output.Color == "" {
		c.Output.Color = ColorAuto
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Parser.MaxErrors < 0 {
		result = multierror.Append(result, fmt.Errorf("parser.max_errors must not be negative, got %d", c.Parser.MaxErrors))
	}
	if c.Batch.Workers < 1 {
		result = multierror.Append(result, fmt.Errorf("batch.workers must be at least 1, got %d", c.Batch.Workers))
	}
	if c.Batch.JobBuffer < 0 {
		result = multierror.Append(result, fmt.Errorf("batch.job_buffer must not be negative, got %d", c.Batch.JobBuffer))
	}
	if c.Batch.ResultBuffer < 0 {
		result = multierror.Append(result, fmt.Errorf("batch.result_buffer must not be negative, got %d", c.Batch.ResultBuffer))
	}
	if c.Batch.ShutdownTimeout.Duration < 0 {
		result = multierror.Append(result, fmt.Errorf("batch.shutdown_timeout must not be negative, got %s", c.Batch.ShutdownTimeout))
	}
	switch c.Output.Format {
	case FormatText, FormatJSON, FormatAST:
	default:
		result = multierror.Append(result, fmt.Errorf("output.format must be one of text, json, ast; got %q", c.Output.Format))
	}
	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		result = multierror.Append(result, fmt.Errorf("output.color must be one of auto, always, never; got %q", c.Output.Color))
	}

	return result.ErrorOrNil()
}

// ParserOptions converts the parser section into parse options.
func (c *Config) ParserOptions() []parser.Option {
	return []parser.Option{
		parser.WithMaxErrors(c.Parser.MaxErrors),
		parser.WithComments(c.Parser.AttachComments),
	}
}
