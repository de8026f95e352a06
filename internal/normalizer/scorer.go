package normalizer

import (
	"unicode/utf8"

	"heritage/internal/models"
)

// Score thresholds.
const (
	minScoredNameLength        = 5
	minScoredDescriptionLength = 21
)

type qualityCheck struct {
	pass func(models.Site) bool
	name string
}

// Scorer rates the completeness of a site.
type Scorer struct {
	checks []qualityCheck
}

// NewScorer creates a new scorer instance.
func NewScorer() *Scorer {
	return &Scorer{
		checks: []qualityCheck{
			{name: "name_length", pass: func(s models.Site) bool {
				return utf8.RuneCountInString(s.Name) >= minScoredNameLength
			}},
			{name: "iso_country_code", pass: func(s models.Site) bool { return s.ISOCountryCode != nil }},
			{name: "region", pass: func(s models.Site) bool { return s.Region != nil }},
			{name: "continent", pass: func(s models.Site) bool { return s.Continent != nil }},
			{name: "inscription_year", pass: func(s models.Site) bool { return s.InscriptionYear > 0 }},
			{name: "criteria_type", pass: func(s models.Site) bool { return s.CriteriaType != models.CriteriaUnknown }},
			{name: "criteria_numbers", pass: func(s models.Site) bool { return len(s.CriteriaNumbers) > 0 }},
			{name: "specific_location", pass: func(s models.Site) bool { return s.Location != s.Country }},
			{name: "criteria_description", pass: func(s models.Site) bool {
				return utf8.RuneCountInString(s.CriteriaDescription) >= minScoredDescriptionLength
			}},
			{name: "last_updated", pass: func(s models.Site) bool { return !s.LastUpdated.IsZero() }},
		},
	}
}

// Score returns the fraction of passing checks, in tenths.
func (s *Scorer) Score(site models.Site) float64 {
	passed := 0

	for _, c := range s.checks {
		if c.pass(site) {
			passed++
		}
	}

	return float64(passed) / float64(len(s.checks))
}

// Breakdown reports the outcome of every check by name.
func (s *Scorer) Breakdown(site models.Site) map[string]bool {
	out := make(map[string]bool, len(s.checks))
	for _, c := range s.checks {
		out[c.name] = c.pass(site)
	}

	return out
}
