// Package config provides configuration management for the heritage pipeline.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrInvalidWorkers      = errors.New("pipeline.workers must be at least 1")
	ErrMissingOutputDir    = errors.New("output.dir is required")
	ErrMissingBaseName     = errors.New("output.base_name is required")
	ErrNoOutputFormats     = errors.New("output.formats must list at least one format")
	ErrInvalidOutputFormat = errors.New("output.formats contains an unknown format")
	ErrInvalidLogLevel     = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Output formats.
const (
	FormatJSON       = "json"
	FormatCSV        = "csv"
	FormatStats      = "stats"
	FormatCatalog    = "catalog"
	FormatValidation = "validation"
	FormatReport     = "report"
	FormatJSONL      = "jsonl"
	FormatYAML       = "yaml"
	FormatParquet    = "parquet"
)

// ValidFormats lists every format the exporter understands.
var ValidFormats = []string{
	FormatJSON, FormatCSV, FormatStats, FormatCatalog, FormatValidation,
	FormatReport, FormatJSONL, FormatYAML, FormatParquet,
}

// DefaultFormats are written when the configuration does not choose.
var DefaultFormats = []string{
	FormatJSON, FormatCSV, FormatStats, FormatCatalog, FormatValidation, FormatReport,
}

// Config represents the complete pipeline configuration.
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// PipelineConfig controls record processing.
type PipelineConfig struct {
	ReferenceFile string `yaml:"reference_file"`
	Workers       int    `yaml:"workers" validate:"min=1"`
	IDHashSuffix  bool   `yaml:"id_hash_suffix"`
}

// OutputConfig defines output behavior.
type OutputConfig struct {
	Dir         string   `yaml:"dir" validate:"notblank"`
	BaseName    string   `yaml:"base_name" validate:"notblank"`
	Formats     []string `yaml:"formats" validate:"min=1,dive,oneof=json csv stats catalog validation report jsonl yaml parquet"`
	PrettyPrint bool     `yaml:"pretty_print"`
	Timestamped bool     `yaml:"timestamped"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `yaml:"json"`
}

// MetricsConfig defines where metrics are written.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

var configValidator = newConfigValidator()

func newConfigValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}

	return v
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			Workers: 1,
		},
		Output: OutputConfig{
			Dir:         "./output",
			BaseName:    "heritage_sites",
			Formats:     slices.Clone(DefaultFormats),
			PrettyPrint: true,
			Timestamped: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from YAML file. Keys missing from the file
// keep their default values.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.Output.Formats = NormalizeFormats(cfg.Output.Formats)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	err := configValidator.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	fe := fieldErrs[0]
	field, _, _ := strings.Cut(fe.StructNamespace(), "[")

	switch field {
	case "Config.Pipeline.Workers":
		return ErrInvalidWorkers
	case "Config.Output.Dir":
		return ErrMissingOutputDir
	case "Config.Output.BaseName":
		return ErrMissingBaseName
	case "Config.Output.Formats":
		if fe.Tag() == "min" {
			return ErrNoOutputFormats
		}

		return fmt.Errorf("%w: %q", ErrInvalidOutputFormat, fe.Value())
	case "Config.Logging.Level":
		return ErrInvalidLogLevel
	default:
		return fmt.Errorf("invalid configuration: %s failed %s", fe.Namespace(), fe.Tag())
	}
}

// HasFormat reports whether format is enabled.
func (c *Config) HasFormat(format string) bool {
	return slices.Contains(c.Output.Formats, format)
}

// NormalizeFormats lowercases, trims and de-duplicates format names, splitting
// comma separated entries. Order is preserved.
func NormalizeFormats(formats []string) []string {
	out := make([]string, 0, len(formats))

	for _, entry := range formats {
		for _, f := range strings.Split(entry, ",") {
			f = strings.ToLower(strings.TrimSpace(f))
			if f != "" && !slices.Contains(out, f) {
				out = append(out, f)
			}
		}
	}

	return out
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Workers: %d, Output: %s, Formats: %s}",
		c.Pipeline.Workers,
		c.Output.Dir,
		strings.Join(c.Output.Formats, ","),
	)
}
