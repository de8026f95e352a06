package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// JSONWriter writes JSON output.
type JSONWriter struct {
	w       *bufio.Writer
	indent  string
	items   []any
	pretty  bool
	array   bool
	flushed bool
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(w io.Writer, pretty bool, indent string) *JSONWriter {
	return &JSONWriter{
		w:      bufio.NewWriter(w),
		pretty: pretty,
		indent: indent,
		items:  make([]any, 0),
	}
}

// Write buffers a single item for JSON array output.
func (w *JSONWriter) Write(data any) error {
	w.items = append(w.items, data)
	return nil
}

// WriteAll writes all items at once.
func (w *JSONWriter) WriteAll(data []any) error {
	w.items = append(w.items, data...)
	return nil
}

// Flush writes the buffered items. A single item is written as a bare
// document unless the writer is in array mode.
func (w *JSONWriter) Flush() error {
	if w.flushed && len(w.items) == 0 {
		return w.w.Flush()
	}

	var payload any = w.items
	if len(w.items) == 1 && !w.array {
		payload = w.items[0]
	}

	var (
		out []byte
		err error
	)

	if w.pretty {
		out, err = json.MarshalIndent(payload, "", w.indent)
	} else {
		out, err = json.Marshal(payload)
	}

	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	if _, err := w.w.Write(out); err != nil {
		return err
	}

	if _, err := w.w.WriteString("\n"); err != nil {
		return err
	}

	w.items = w.items[:0]
	w.flushed = true

	return w.w.Flush()
}

// Close flushes and closes the writer.
func (w *JSONWriter) Close() error {
	return w.Flush()
}

// JSONLWriter writes newline-delimited JSON (JSONL).
type JSONLWriter struct {
	w *bufio.Writer
}

// NewJSONLWriter creates a JSONL writer.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{
		w: bufio.NewWriter(w),
	}
}

// Write writes a single item as a JSON line.
func (w *JSONLWriter) Write(data any) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode JSON line: %w", err)
	}

	if _, err := w.w.Write(out); err != nil {
		return err
	}

	return w.w.WriteByte('\n')
}

// WriteAll writes multiple items as JSON lines.
func (w *JSONLWriter) WriteAll(data []any) error {
	for _, item := range data {
		if err := w.Write(item); err != nil {
			return err
		}
	}

	return nil
}

// Flush flushes the buffer.
func (w *JSONLWriter) Flush() error {
	return w.w.Flush()
}

// Close flushes the writer.
func (w *JSONLWriter) Close() error {
	return w.Flush()
}
