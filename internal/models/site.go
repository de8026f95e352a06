// Package models defines the records that flow through the heritage pipeline.
package models

import (
	"slices"
	"time"
)

// CriteriaType classifies a site by the base type of its inscription criteria.
type CriteriaType string

// Criteria types.
const (
	CriteriaCultural CriteriaType = "Cultural"
	CriteriaNatural  CriteriaType = "Natural"
	CriteriaMixed    CriteriaType = "Mixed"
	CriteriaUnknown  CriteriaType = "Unknown"
)

// Valid reports whether t is one of the known criteria types.
func (t CriteriaType) Valid() bool {
	switch t {
	case CriteriaCultural, CriteriaNatural, CriteriaMixed, CriteriaUnknown:
		return true
	default:
		return false
	}
}

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat  float64 `json:"lat" yaml:"lat"`
	Long float64 `json:"long" yaml:"long"`
}

// Site is the canonical, enriched representation of a heritage site.
//
// Optional fields are pointers so that "unset" can be told apart from an
// empty value. Coordinates, AreaHectares, BufferZoneHectares, Description and
// SourceURL are never populated by the pipeline; they are kept for future
// enrichment sources.
type Site struct {
	LastUpdated         time.Time    `json:"last_updated" yaml:"last_updated"`
	ISOCountryCode      *string      `json:"iso_country_code" yaml:"iso_country_code"`
	Region              *string      `json:"region" yaml:"region"`
	Continent           *string      `json:"continent" yaml:"continent"`
	Coordinates         *Coordinates `json:"coordinates" yaml:"coordinates"`
	AreaHectares        *float64     `json:"area_hectares" yaml:"area_hectares"`
	BufferZoneHectares  *float64     `json:"buffer_zone_hectares" yaml:"buffer_zone_hectares"`
	Description         *string      `json:"description" yaml:"description"`
	SourceURL           *string      `json:"source_url" yaml:"source_url"`
	ID                  string       `json:"id" yaml:"id"`
	Name                string       `json:"name" yaml:"name"`
	NormalizedName      string       `json:"normalized_name" yaml:"normalized_name"`
	Country             string       `json:"country" yaml:"country"`
	Location            string       `json:"location" yaml:"location"`
	CriteriaType        CriteriaType `json:"criteria_type" yaml:"criteria_type"`
	CriteriaDescription string       `json:"criteria_description" yaml:"criteria_description"`
	CriteriaNumbers     []string     `json:"criteria_numbers" yaml:"criteria_numbers"`
	Tags                []string     `json:"tags" yaml:"tags"`
	InscriptionYear     int          `json:"inscription_year" yaml:"inscription_year"`
	DataQualityScore    float64      `json:"data_quality_score" yaml:"data_quality_score"`
	EndangeredStatus    bool         `json:"endangered_status" yaml:"endangered_status"`
}

// Clone returns a copy of s that shares no mutable state with it.
func (s Site) Clone() Site {
	out := s
	out.ISOCountryCode = cloneString(s.ISOCountryCode)
	out.Region = cloneString(s.Region)
	out.Continent = cloneString(s.Continent)
	out.Description = cloneString(s.Description)
	out.SourceURL = cloneString(s.SourceURL)
	out.AreaHectares = cloneFloat(s.AreaHectares)
	out.BufferZoneHectares = cloneFloat(s.BufferZoneHectares)

	if s.Coordinates != nil {
		c := *s.Coordinates
		out.Coordinates = &c
	}

	out.CriteriaNumbers = slices.Clone(s.CriteriaNumbers)
	out.Tags = slices.Clone(s.Tags)

	return out
}

// Str returns the value behind an optional string, or "" when unset.
func Str(p *string) string {
	if p == nil {
		return ""
	}

	return *p
}

// StrPtr returns a pointer to v.
func StrPtr(v string) *string {
	return &v
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}

	v := *p

	return &v
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}

	v := *p

	return &v
}
