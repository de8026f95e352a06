package normalizer

import (
	"slices"
	"strconv"
	"strings"

	"heritage/internal/models"
	"heritage/internal/reference"
	"heritage/pkg/utils"
)

// Quality tiers.
const (
	TierHigh   = "high"
	TierMedium = "medium"
	TierLow    = "low"

	HighQualityThreshold   = 0.8
	MediumQualityThreshold = 0.6
)

// Inscription era boundaries.
const (
	earlyEraEnd = 1980
	midEraEnd   = 2000
)

// QualityTier buckets a quality score.
func QualityTier(score float64) string {
	switch {
	case score >= HighQualityThreshold:
		return TierHigh
	case score >= MediumQualityThreshold:
		return TierMedium
	default:
		return TierLow
	}
}

// Tagger derives search tags from a scored site.
type Tagger struct {
	tables *reference.Tables
}

// NewTagger creates a new tagger instance.
func NewTagger(tables *reference.Tables) *Tagger {
	return &Tagger{tables: tables}
}

// Tags returns the sorted, de-duplicated tags for site. The site must already
// carry its quality score.
func (t *Tagger) Tags(site models.Site) []string {
	tags := []string{strings.ToLower(string(site.CriteriaType))}

	if site.Continent != nil {
		tags = append(tags, strings.ToLower(*site.Continent))
	}

	if site.Region != nil {
		tags = append(tags, utils.Snake(*site.Region))
	}

	tags = append(tags, utils.Snake(site.Country))

	if year := site.InscriptionYear; year > 0 {
		tags = append(tags, strconv.Itoa(year/10*10)+"s", eraTag(year))
	}

	name := strings.ToLower(site.Name)
	for _, group := range [][]reference.TagRule{t.tables.ArchitectureTags, t.tables.NatureTags} {
		for _, rule := range group {
			if containsAny(name, rule.Keywords) {
				tags = append(tags, rule.Tag)
			}
		}
	}

	if site.EndangeredStatus {
		tags = append(tags, "endangered")
	}

	tags = append(tags, QualityTier(site.DataQualityScore)+"_quality_data")

	slices.Sort(tags)

	return slices.Compact(tags)
}

func eraTag(year int) string {
	switch {
	case year < earlyEraEnd:
		return "early_inscription"
	case year < midEraEnd:
		return "mid_inscription"
	default:
		return "recent_inscription"
	}
}
