package output

import (
	"encoding/json"
	"fmt"
	"io"

	writerfile "github.com/xitongsys/parquet-go-source/writerfile"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

const parquetParallelism = 4

// ParquetWriter writes rows to a single snappy-compressed Parquet file. Rows
// are buffered and the file is produced on the first Flush.
type ParquetWriter struct {
	w       io.Writer
	columns []Column
	rows    []string
	flushed bool
}

// NewParquetWriter creates a Parquet writer. When columns is nil the schema is
// taken from the first row.
func NewParquetWriter(w io.Writer, columns []Column) *ParquetWriter {
	return &ParquetWriter{
		w:       w,
		columns: columns,
	}
}

// Write buffers a single row.
func (w *ParquetWriter) Write(data any) error {
	row, err := asRow(data)
	if err != nil {
		return err
	}

	if w.columns == nil {
		w.columns = row.Columns()
	}

	values := row.Values()
	record := make(map[string]any, len(w.columns))

	for i, c := range w.columns {
		if i < len(values) {
			record[c.Name] = parquetValue(values[i])
		}
	}

	encoded, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode parquet row: %w", err)
	}

	w.rows = append(w.rows, string(encoded))

	return nil
}

// WriteAll buffers multiple rows.
func (w *ParquetWriter) WriteAll(data []any) error {
	for _, item := range data {
		if err := w.Write(item); err != nil {
			return err
		}
	}

	return nil
}

// Flush encodes the buffered rows. Only the first call writes a file.
func (w *ParquetWriter) Flush() error {
	if w.flushed {
		return nil
	}

	if w.columns == nil {
		return ErrNoColumns
	}

	pfw := writerfile.NewWriterFile(w.w)

	pw, err := writer.NewJSONWriter(ParquetSchema(w.columns), pfw, parquetParallelism)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}

	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, row := range w.rows {
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			return fmt.Errorf("failed to write parquet row: %w", err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}

	w.flushed = true
	w.rows = nil

	return nil
}

// Close flushes the writer.
func (w *ParquetWriter) Close() error {
	return w.Flush()
}

// ParquetSchema builds a parquet-go JSON schema with one optional field per
// column.
func ParquetSchema(columns []Column) string {
	fields := make([]map[string]string, 0, len(columns))
	for _, c := range columns {
		fields = append(fields, map[string]string{
			"Tag": fmt.Sprintf("name=%s, %s, repetitiontype=OPTIONAL", c.Name, parquetPhysicalType(c.Type)),
		})
	}

	schema := map[string]any{
		"Tag":    "name=parquet_go_root, repetitiontype=REQUIRED",
		"Fields": fields,
	}

	b, _ := json.Marshal(schema)

	return string(b)
}

func parquetPhysicalType(t ColumnType) string {
	switch t {
	case ColumnBool:
		return "type=BOOLEAN"
	case ColumnInt:
		return "type=INT64"
	case ColumnFloat:
		return "type=DOUBLE"
	default:
		return "type=BYTE_ARRAY, convertedtype=UTF8"
	}
}

func parquetValue(v any) any {
	switch val := v.(type) {
	case *string:
		if val == nil {
			return nil
		}

		return *val
	case *float64:
		if val == nil {
			return nil
		}

		return *val
	default:
		return val
	}
}
