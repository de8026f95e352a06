package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/reader"
	"gopkg.in/yaml.v3"
)

type testItem struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
}

type testRow struct {
	Region *string
	Name   string
	Score  float64
	Year   int
	Flag   bool
}

var testColumns = []Column{
	{Name: "name", Type: ColumnString},
	{Name: "year", Type: ColumnInt},
	{Name: "score", Type: ColumnFloat},
	{Name: "flag", Type: ColumnBool},
	{Name: "region", Type: ColumnString},
}

func (r testRow) Columns() []Column { return testColumns }

func (r testRow) Values() []any { return []any{r.Name, r.Year, r.Score, r.Flag, r.Region} }

func TestNewWriter_Formats(t *testing.T) {
	tests := []struct {
		format Format
		want   any
	}{
		{FormatJSON, &JSONWriter{}},
		{FormatJSONL, &JSONLWriter{}},
		{FormatYAML, &YAMLWriter{}},
		{FormatCSV, &CSVWriter{}},
		{FormatParquet, &ParquetWriter{}},
	}

	for _, tt := range tests {
		w, err := NewWriter(&bytes.Buffer{}, tt.format)
		require.NoError(t, err)
		assert.IsType(t, tt.want, w)
	}
}

func TestNewWriter_UnsupportedFormat(t *testing.T) {
	_, err := NewWriter(&bytes.Buffer{}, Format("xml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestJSONWriter_SingleItem(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, true, "  ")

	require.NoError(t, w.Write(testItem{Name: "test", Value: 42}))
	require.NoError(t, w.Close())

	var result testItem
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, testItem{Name: "test", Value: 42}, result)
}

func TestJSONWriter_ArrayMode(t *testing.T) {
	buf := &bytes.Buffer{}
	w, err := NewWriter(buf, FormatJSON, WithArray(true), WithPretty(false))
	require.NoError(t, err)

	require.NoError(t, w.Write(testItem{Name: "only", Value: 1}))
	require.NoError(t, w.Flush())
	require.NoError(t, w.Close())

	assert.Equal(t, `[{"name":"only","value":1}]`+"\n", buf.String())
}

func TestJSONWriter_Empty(t *testing.T) {
	buf := &bytes.Buffer{}
	w, err := NewWriter(buf, FormatJSON, WithArray(true))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Equal(t, "[]\n", buf.String())
}

func TestJSONLWriter_WriteAll(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONLWriter(buf)

	require.NoError(t, w.WriteAll([]any{testItem{Name: "a", Value: 1}, testItem{Name: "b", Value: 2}}))
	require.NoError(t, w.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var second testItem
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "b", second.Name)
}

func TestYAMLWriter_MultipleItems(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewYAMLWriter(buf)

	require.NoError(t, w.WriteAll([]any{testItem{Name: "a", Value: 1}, testItem{Name: "b", Value: 2}}))
	require.NoError(t, w.Close())

	var result []testItem
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, []testItem{{"a", 1}, {"b", 2}}, result)
}

func TestCSVWriter_Rows(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewCSVWriter(buf, nil)

	region := "South Asia"
	require.NoError(t, w.Write(testRow{Name: "Taj, Mahal", Year: 1983, Score: 0.9, Flag: true, Region: &region}))
	require.NoError(t, w.Write(testRow{Name: "Nowhere", Score: 0.2}))
	require.NoError(t, w.Close())

	want := "name,year,score,flag,region\n" +
		"\"Taj, Mahal\",1983,0.9,true,South Asia\n" +
		"Nowhere,0,0.2,false,\n"
	assert.Equal(t, want, buf.String())
}

func TestCSVWriter_EmptyWithColumns(t *testing.T) {
	buf := &bytes.Buffer{}
	w, err := NewWriter(buf, FormatCSV, WithColumns(testColumns))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Equal(t, "name,year,score,flag,region\n", buf.String())
}

func TestCSVWriter_Errors(t *testing.T) {
	w := NewCSVWriter(&bytes.Buffer{}, nil)

	assert.ErrorIs(t, w.Write(testItem{Name: "x"}), ErrNotTabular)
	assert.ErrorIs(t, w.Flush(), ErrNoColumns)
}

func TestParquetWriter_Rows(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewParquetWriter(buf, nil)

	region := "East Asia"
	require.NoError(t, w.WriteAll([]any{
		testRow{Name: "Great Wall", Year: 1987, Score: 1, Region: &region},
		testRow{Name: "Nowhere", Score: 0.2},
	}))
	require.NoError(t, w.Close())

	data := buf.Bytes()
	require.True(t, bytes.HasPrefix(data, []byte("PAR1")))
	require.True(t, bytes.HasSuffix(data, []byte("PAR1")))

	// A second flush must not append another file.
	require.NoError(t, w.Flush())
	assert.Len(t, buf.Bytes(), len(data))
}

type parquetSiteRow struct {
	Name   *string  `parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	Year   *int64   `parquet:"name=year, type=INT64, repetitiontype=OPTIONAL"`
	Score  *float64 `parquet:"name=score, type=DOUBLE, repetitiontype=OPTIONAL"`
	Flag   *bool    `parquet:"name=flag, type=BOOLEAN, repetitiontype=OPTIONAL"`
	Region *string  `parquet:"name=region, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
}

func TestParquetWriter_ReadBack(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewParquetWriter(buf, testColumns)

	region := "East Asia"
	require.NoError(t, w.WriteAll([]any{
		testRow{Name: "Great Wall", Year: 1987, Score: 1, Flag: true, Region: &region},
		testRow{Name: "Nowhere", Score: 0.2},
	}))
	require.NoError(t, w.Close())

	pf, err := buffer.NewBufferFile(buf.Bytes())
	require.NoError(t, err)

	pr, err := reader.NewParquetReader(pf, new(parquetSiteRow), 1)
	require.NoError(t, err)
	defer pr.ReadStop()

	require.EqualValues(t, 2, pr.GetNumRows())

	rows := make([]parquetSiteRow, pr.GetNumRows())
	require.NoError(t, pr.Read(&rows))

	require.NotNil(t, rows[0].Name)
	assert.Equal(t, "Great Wall", *rows[0].Name)
	require.NotNil(t, rows[0].Year)
	assert.EqualValues(t, 1987, *rows[0].Year)
	require.NotNil(t, rows[0].Score)
	assert.InDelta(t, 1.0, *rows[0].Score, 1e-9)
	require.NotNil(t, rows[0].Flag)
	assert.True(t, *rows[0].Flag)
	require.NotNil(t, rows[0].Region)
	assert.Equal(t, "East Asia", *rows[0].Region)

	require.NotNil(t, rows[1].Name)
	assert.Equal(t, "Nowhere", *rows[1].Name)
	require.NotNil(t, rows[1].Score)
	assert.InDelta(t, 0.2, *rows[1].Score, 1e-9)
	assert.Nil(t, rows[1].Region)
}

func TestParquetSchema(t *testing.T) {
	schema := ParquetSchema(testColumns)

	assert.Contains(t, schema, "name=parquet_go_root, repetitiontype=REQUIRED")
	assert.Contains(t, schema, "name=year, type=INT64, repetitiontype=OPTIONAL")
	assert.Contains(t, schema, "name=name, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL")
}
