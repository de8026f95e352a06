// Package source loads raw heritage records from flat files.
package source

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"heritage/internal/models"
)

// Source errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported input format")
	ErrMalformedInput    = errors.New("malformed input")
)

// maxLineSize bounds a single JSONL record.
const maxLineSize = 4 * 1024 * 1024

// envelope accepts documents that wrap the records in a "sites" list.
type envelope struct {
	Sites []models.RawRecord `json:"sites" yaml:"sites"`
}

// Load reads raw records from path, choosing the decoder by file extension:
// .json, .jsonl, .yaml, .yml or .csv.
func Load(path string) ([]models.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))

	records, err := Decode(f, ext)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return records, nil
}

// Decode reads raw records from r in the given format.
func Decode(r io.Reader, format string) ([]models.RawRecord, error) {
	switch format {
	case "json":
		return decodeJSON(r)
	case "jsonl":
		return decodeJSONL(r)
	case "yaml", "yml":
		return decodeYAML(r)
	case "csv":
		return decodeCSV(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func decodeJSON(r io.Reader) ([]models.RawRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []models.RawRecord{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if data[0] == '{' {
		var env envelope
		if err := dec.Decode(&env); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
		}

		return nonNil(env.Sites), nil
	}

	var records []models.RawRecord
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}

	return nonNil(records), nil
}

func decodeJSONL(r io.Reader) ([]models.RawRecord, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	records := []models.RawRecord{}
	line := 0

	for scanner.Scan() {
		line++

		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}

		dec := json.NewDecoder(bytes.NewReader(text))
		dec.UseNumber()

		var rec models.RawRecord
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedInput, line, err)
		}

		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func decodeYAML(r io.Reader) ([]models.RawRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}

	if len(node.Content) == 0 {
		return []models.RawRecord{}, nil
	}

	root := node.Content[0]

	if root.Kind == yaml.MappingNode {
		var env envelope
		if err := root.Decode(&env); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
		}

		return nonNil(env.Sites), nil
	}

	var records []models.RawRecord
	if err := root.Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}

	return nonNil(records), nil
}

// decodeCSV maps each row onto the header. Empty cells are left out so they
// read as absent.
func decodeCSV(r io.Reader) ([]models.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []models.RawRecord{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}

	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}

	records := []models.RawRecord{}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
		}

		rec := make(models.RawRecord, len(header))

		for i, cell := range row {
			if i >= len(header) || header[i] == "" || cell == "" {
				continue
			}

			rec[header[i]] = cell
		}

		records = append(records, rec)
	}

	return records, nil
}

func nonNil(records []models.RawRecord) []models.RawRecord {
	if records == nil {
		return []models.RawRecord{}
	}

	return records
}
