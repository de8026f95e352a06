// Package reference loads the static lookup tables used to standardize and
// enrich heritage site records.
//
// The tables are a versioned YAML data asset. A default copy is embedded in the
// binary; Load accepts a path to override it without touching pipeline code.
package reference

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"heritage/internal/models"
)

//go:embed tables.yaml
var defaultTables []byte

// Reference table errors.
var (
	ErrReadTables      = errors.New("failed to read reference tables")
	ErrParseTables     = errors.New("failed to parse reference tables")
	ErrInvalidTables   = errors.New("invalid reference tables")
	ErrUnknownRegion   = errors.New("region is not listed in regions table")
	ErrRegionContinent = errors.New("country continent does not match its region")
)

// Country holds the geography for one country key.
type Country struct {
	ISO       string `yaml:"iso" validate:"required,len=2,uppercase"`
	Continent string `yaml:"continent" validate:"required"`
	Region    string `yaml:"region" validate:"required"`
}

// Criterion describes one UNESCO criteria code.
type Criterion struct {
	Type        models.CriteriaType `yaml:"type" validate:"required,oneof=Cultural Natural"`
	Description string              `yaml:"description" validate:"required"`
}

// RegionRule maps location keywords to a region.
type RegionRule struct {
	Region   string   `yaml:"region" validate:"required"`
	Keywords []string `yaml:"keywords" validate:"required,min=1,dive,required"`
}

// TagRule maps name keywords to a tag.
type TagRule struct {
	Tag      string   `yaml:"tag" validate:"required"`
	Keywords []string `yaml:"keywords" validate:"required,min=1,dive,required"`
}

// Tables is the full set of reference data.
type Tables struct {
	Countries          map[string]Country   `yaml:"countries" validate:"required,min=1,dive,keys,required,endkeys,required"`
	Criteria           map[string]Criterion `yaml:"criteria" validate:"required,min=1,dive,keys,required,endkeys,required"`
	Regions            map[string]string    `yaml:"regions" validate:"required,min=1,dive,keys,required,endkeys,required"`
	Version            string               `yaml:"version" validate:"required"`
	RegionKeywords     []RegionRule         `yaml:"region_keywords" validate:"dive"`
	EndangeredKeywords []string             `yaml:"endangered_keywords" validate:"dive,required"`
	ArchitectureTags   []TagRule            `yaml:"architecture_tags" validate:"dive"`
	NatureTags         []TagRule            `yaml:"nature_tags" validate:"dive"`
	NamePrefixes       []string             `yaml:"name_prefixes" validate:"dive,required"`
	NameSuffixes       []string             `yaml:"name_suffixes" validate:"dive,required"`
}

// Default returns the embedded tables. It panics if the embedded asset is
// malformed, which is a build defect.
func Default() *Tables {
	t, err := Parse(defaultTables)
	if err != nil {
		panic(err)
	}

	return t
}

// Load reads tables from path, or returns the embedded tables when path is empty.
func Load(path string) (*Tables, error) {
	if path == "" {
		return Parse(defaultTables)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadTables, err)
	}

	return Parse(data)
}

// Parse decodes and validates tables from YAML.
func Parse(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseTables, err)
	}

	t.normalize()

	if err := t.Validate(); err != nil {
		return nil, err
	}

	return &t, nil
}

// Validate checks the structure of the tables and their cross references.
func (t *Tables) Validate() error {
	if err := validator.New().Struct(t); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTables, err)
	}

	for key, c := range t.Countries {
		continent, ok := t.Regions[c.Region]
		if !ok {
			return fmt.Errorf("%w: country %q region %q", ErrUnknownRegion, key, c.Region)
		}

		if continent != c.Continent {
			return fmt.Errorf("%w: country %q has %q, region %q is in %q",
				ErrRegionContinent, key, c.Continent, c.Region, continent)
		}
	}

	for i, rule := range t.RegionKeywords {
		if _, ok := t.Regions[rule.Region]; !ok {
			return fmt.Errorf("%w: region_keywords[%d] %q", ErrUnknownRegion, i, rule.Region)
		}
	}

	return nil
}

// Country looks up a lowercase country key.
func (t *Tables) Country(key string) (Country, bool) {
	c, ok := t.Countries[key]
	return c, ok
}

// Criterion looks up a lowercase roman numeral code.
func (t *Tables) Criterion(code string) (Criterion, bool) {
	c, ok := t.Criteria[code]
	return c, ok
}

// ContinentOf returns the continent a region belongs to.
func (t *Tables) ContinentOf(region string) (string, bool) {
	c, ok := t.Regions[region]
	return c, ok
}

// Marshal encodes the tables back to YAML.
func (t *Tables) Marshal() ([]byte, error) {
	return yaml.Marshal(t)
}

// normalize lowercases lookup keys and keywords so matching can be done on
// lowercased input.
func (t *Tables) normalize() {
	if t.Countries != nil {
		countries := make(map[string]Country, len(t.Countries))
		for k, v := range t.Countries {
			countries[strings.ToLower(strings.TrimSpace(k))] = v
		}

		t.Countries = countries
	}

	if t.Criteria != nil {
		criteria := make(map[string]Criterion, len(t.Criteria))
		for k, v := range t.Criteria {
			criteria[strings.ToLower(strings.TrimSpace(k))] = v
		}

		t.Criteria = criteria
	}

	for i := range t.RegionKeywords {
		lowerAll(t.RegionKeywords[i].Keywords)
	}

	for i := range t.ArchitectureTags {
		lowerAll(t.ArchitectureTags[i].Keywords)
	}

	for i := range t.NatureTags {
		lowerAll(t.NatureTags[i].Keywords)
	}

	lowerAll(t.EndangeredKeywords)
	lowerAll(t.NamePrefixes)
	lowerAll(t.NameSuffixes)
}

func lowerAll(words []string) {
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
}
