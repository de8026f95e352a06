package output

import (
	"strconv"
)

// ColumnType is the logical type of a tabular column.
type ColumnType string

// Column types.
const (
	ColumnString ColumnType = "string"
	ColumnInt    ColumnType = "int"
	ColumnFloat  ColumnType = "float"
	ColumnBool   ColumnType = "bool"
)

// Column describes one field of a tabular row.
type Column struct {
	Name string
	Type ColumnType
}

// Row is implemented by values written to CSV or Parquet. Values must line up
// with Columns; a nil value is written as an empty cell or a null.
type Row interface {
	Columns() []Column
	Values() []any
}

// ColumnNames returns the names of columns in order.
func ColumnNames(columns []Column) []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}

	return names
}

func asRow(data any) (Row, error) {
	row, ok := data.(Row)
	if !ok {
		return nil, ErrNotTabular
	}

	return row, nil
}

func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case *string:
		if val == nil {
			return ""
		}

		return *val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case *float64:
		if val == nil {
			return ""
		}

		return strconv.FormatFloat(*val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}
