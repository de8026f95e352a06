// Package normalizer turns raw heritage site records into enriched, scored and
// tagged sites.
package normalizer

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"heritage/internal/models"
	"heritage/pkg/utils"
)

// Cleaner strips scraping artifacts from raw text fields.
type Cleaner struct {
	referencePattern *regexp.Regexp
	unsafePattern    *regexp.Regexp
}

// NewCleaner creates a new cleaner instance.
func NewCleaner() *Cleaner {
	return &Cleaner{
		referencePattern: regexp.MustCompile(`\[.*?\]`),
		unsafePattern:    regexp.MustCompile(`[^\p{L}\p{N}_\s\-.,()'"/:&]`),
	}
}

// Clean normalizes every text field of raw. It never fails: absent fields
// become empty strings, location falls back to the raw country, and year and
// criteria fall back to "Unknown".
func (c *Cleaner) Clean(raw models.RawRecord) models.CleanedRecord {
	name := raw.GetOr(models.FieldName, "")
	country := raw.GetOr(models.FieldCountry, "")
	location := raw.GetOr(models.FieldLocation, country)

	return models.CleanedRecord{
		Name:     c.CleanText(name),
		Country:  c.CleanText(country),
		Location: c.CleanText(location),
		Year:     c.stripReferences(raw.GetOr(models.FieldYear, models.UnknownValue)),
		Criteria: c.stripReferences(raw.GetOr(models.FieldCriteria, models.UnknownValue)),
	}
}

// CleanText applies the full cleaning chain to a single value.
func (c *Cleaner) CleanText(text string) string {
	if text == "" {
		return ""
	}

	text = c.referencePattern.ReplaceAllString(text, "")
	text = utils.NormalizeWhitespace(text)
	text = norm.NFC.String(text)
	text = c.unsafePattern.ReplaceAllString(text, "")

	return strings.TrimSpace(text)
}

func (c *Cleaner) stripReferences(text string) string {
	return strings.TrimSpace(c.referencePattern.ReplaceAllString(text, ""))
}
