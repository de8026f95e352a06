package normalizer

import (
	"strings"

	"heritage/internal/models"
	"heritage/internal/reference"
)

// Enricher fills geography and endangered status from the reference tables.
type Enricher struct {
	tables *reference.Tables
}

// NewEnricher creates a new enricher instance.
func NewEnricher(tables *reference.Tables) *Enricher {
	return &Enricher{tables: tables}
}

// Enrich returns a copy of site with unset geography filled in. Fields that
// are already set are left alone, so enriching twice yields the same site.
func (e *Enricher) Enrich(site models.Site) models.Site {
	out := site.Clone()

	if country, ok := e.LookupCountry(out.Country); ok {
		if out.ISOCountryCode == nil {
			out.ISOCountryCode = models.StrPtr(country.ISO)
		}

		if out.Continent == nil {
			out.Continent = models.StrPtr(country.Continent)
		}

		if out.Region == nil {
			out.Region = models.StrPtr(country.Region)
		}
	}

	if out.Region == nil && out.Location != "" {
		if region, ok := e.InferRegion(out.Location); ok {
			out.Region = models.StrPtr(region)
		}
	}

	out.EndangeredStatus = e.IsEndangered(out.Name, out.CriteriaDescription)

	return out
}

// LookupCountry resolves a country name against the country table, trying a
// few spelling variations.
func (e *Enricher) LookupCountry(country string) (reference.Country, bool) {
	key := strings.ToLower(country)
	if before, _, found := strings.Cut(key, ","); found {
		key = before
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return reference.Country{}, false
	}

	before, _, _ := strings.Cut(key, "(")

	variations := []string{
		key,
		strings.ReplaceAll(key, "the ", ""),
		strings.ReplaceAll(key, " of", ""),
		strings.TrimSpace(before),
	}

	for _, v := range variations {
		if c, ok := e.tables.Country(v); ok {
			return c, true
		}
	}

	return reference.Country{}, false
}

// InferRegion returns the first region whose keywords appear in location.
func (e *Enricher) InferRegion(location string) (string, bool) {
	lower := strings.ToLower(location)

	for _, rule := range e.tables.RegionKeywords {
		if containsAny(lower, rule.Keywords) {
			return rule.Region, true
		}
	}

	return "", false
}

// IsEndangered reports whether name or criteria description mention any
// endangered keyword.
func (e *Enricher) IsEndangered(name, criteriaDescription string) bool {
	return containsAny(strings.ToLower(name+" "+criteriaDescription), e.tables.EndangeredKeywords)
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}

	return false
}
