package models

import (
	"fmt"
	"strings"
)

// Raw record keys.
const (
	FieldName     = "name"
	FieldCountry  = "country"
	FieldLocation = "location"
	FieldYear     = "year"
	FieldCriteria = "criteria"
)

// UnknownValue is the placeholder used for a missing year or criteria.
const UnknownValue = "Unknown"

// RawRecord is a loosely structured input record as produced by a source.
type RawRecord map[string]any

// Get returns the value stored under key coerced to a string. The boolean is
// false when the key is absent or nil.
func (r RawRecord) Get(key string) (string, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return "", false
	}

	switch val := v.(type) {
	case string:
		return val, true
	case []byte:
		return string(val), true
	default:
		return fmt.Sprint(val), true
	}
}

// GetOr returns Get(key) or def when the key is absent.
func (r RawRecord) GetOr(key, def string) string {
	if v, ok := r.Get(key); ok {
		return v
	}

	return def
}

// Label is a short identifier for log lines.
func (r RawRecord) Label() string {
	name := strings.TrimSpace(r.GetOr(FieldName, ""))
	if name == "" {
		return "unknown"
	}

	return name
}

// CleanedRecord is a raw record after text cleaning.
type CleanedRecord struct {
	Name     string `json:"name" validate:"required,min=3"`
	Country  string `json:"country" validate:"required,min=2"`
	Location string `json:"location"`
	Year     string `json:"year"`
	Criteria string `json:"criteria"`
}
