// Package output serializes pipeline results to files.
package output

import (
	"errors"
	"fmt"
	"io"
)

// Format represents output format types.
type Format string

// Supported formats.
const (
	FormatJSON    Format = "json"
	FormatJSONL   Format = "jsonl"
	FormatYAML    Format = "yaml"
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
)

// Writer errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported output format")
	ErrNotTabular        = errors.New("value does not implement output.Row")
	ErrNoColumns         = errors.New("tabular output needs columns")
)

// Writer handles output serialization.
type Writer interface {
	// Write outputs a single result.
	Write(data any) error

	// WriteAll outputs multiple results.
	WriteAll(data []any) error

	// Flush ensures all data is written.
	Flush() error

	// Close releases resources.
	Close() error
}

// WriterOption configures a writer.
type WriterOption func(*writerConfig)

type writerConfig struct {
	indent  string
	columns []Column
	pretty  bool
	array   bool
}

// WithPretty enables pretty-printing.
func WithPretty(enabled bool) WriterOption {
	return func(c *writerConfig) {
		c.pretty = enabled
	}
}

// WithArray makes JSON and YAML writers emit a list even for zero or one item.
func WithArray(enabled bool) WriterOption {
	return func(c *writerConfig) {
		c.array = enabled
	}
}

// WithColumns fixes the columns of tabular writers, so that a header or
// schema is written even when there are no rows.
func WithColumns(columns []Column) WriterOption {
	return func(c *writerConfig) {
		c.columns = columns
	}
}

// NewWriter creates a writer for the specified format.
func NewWriter(w io.Writer, format Format, opts ...WriterOption) (Writer, error) {
	cfg := &writerConfig{
		pretty: true,
		indent: "  ",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	switch format {
	case FormatJSON:
		jw := NewJSONWriter(w, cfg.pretty, cfg.indent)
		jw.array = cfg.array

		return jw, nil
	case FormatJSONL:
		return NewJSONLWriter(w), nil
	case FormatYAML:
		yw := NewYAMLWriter(w)
		yw.array = cfg.array

		return yw, nil
	case FormatCSV:
		return NewCSVWriter(w, cfg.columns), nil
	case FormatParquet:
		return NewParquetWriter(w, cfg.columns), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}
