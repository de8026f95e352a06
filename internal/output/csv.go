package output

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVWriter writes rows as comma separated values with a header line.
type CSVWriter struct {
	w             *csv.Writer
	columns       []Column
	headerWritten bool
}

// NewCSVWriter creates a CSV writer. When columns is nil the header is taken
// from the first row.
func NewCSVWriter(w io.Writer, columns []Column) *CSVWriter {
	return &CSVWriter{
		w:       csv.NewWriter(w),
		columns: columns,
	}
}

// Write writes a single row.
func (w *CSVWriter) Write(data any) error {
	row, err := asRow(data)
	if err != nil {
		return err
	}

	if w.columns == nil {
		w.columns = row.Columns()
	}

	if err := w.writeHeader(); err != nil {
		return err
	}

	values := row.Values()
	record := make([]string, len(w.columns))

	for i := range record {
		if i < len(values) {
			record[i] = formatCell(values[i])
		}
	}

	if err := w.w.Write(record); err != nil {
		return fmt.Errorf("failed to write CSV row: %w", err)
	}

	return nil
}

// WriteAll writes multiple rows.
func (w *CSVWriter) WriteAll(data []any) error {
	for _, item := range data {
		if err := w.Write(item); err != nil {
			return err
		}
	}

	return nil
}

// Flush writes the header if no row was written yet and flushes the buffer.
func (w *CSVWriter) Flush() error {
	if w.columns == nil && !w.headerWritten {
		return ErrNoColumns
	}

	if err := w.writeHeader(); err != nil {
		return err
	}

	w.w.Flush()

	return w.w.Error()
}

// Close flushes the writer.
func (w *CSVWriter) Close() error {
	return w.Flush()
}

func (w *CSVWriter) writeHeader() error {
	if w.headerWritten {
		return nil
	}

	if err := w.w.Write(ColumnNames(w.columns)); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	w.headerWritten = true

	return nil
}
