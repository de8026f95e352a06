package normalizer

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"
	"time"

	"heritage/internal/models"
	"heritage/internal/reference"
	"heritage/pkg/utils"
)

// ID limits.
const (
	MaxIDLength    = 50
	idHashLength   = 8
	idHashBaseSize = MaxIDLength - idHashLength - 1
)

var arabicToRoman = map[string]string{
	"1": "i", "2": "ii", "3": "iii", "4": "iv", "5": "v",
	"6": "vi", "7": "vii", "8": "viii", "9": "ix", "10": "x",
}

// Transformer standardizes cleaned records into sites.
type Transformer struct {
	tables        *reference.Tables
	now           func() time.Time
	idStrip       *regexp.Regexp
	idSpace       *regexp.Regexp
	yearPattern   *regexp.Regexp
	romanPattern  *regexp.Regexp
	numberPattern *regexp.Regexp
	hashSuffix    bool
}

// TransformerOption configures a Transformer.
type TransformerOption func(*Transformer)

// WithClock sets the time source used for LastUpdated.
func WithClock(now func() time.Time) TransformerOption {
	return func(t *Transformer) {
		if now != nil {
			t.now = now
		}
	}
}

// WithIDHashSuffix appends a short content hash to every ID so that long keys
// sharing a prefix do not collide after truncation.
func WithIDHashSuffix(enabled bool) TransformerOption {
	return func(t *Transformer) {
		t.hashSuffix = enabled
	}
}

// NewTransformer creates a new transformer instance.
func NewTransformer(tables *reference.Tables, opts ...TransformerOption) *Transformer {
	t := &Transformer{
		tables:        tables,
		now:           time.Now,
		idStrip:       regexp.MustCompile(`[^\p{L}\p{N}_\s]`),
		idSpace:       regexp.MustCompile(`\s+`),
		yearPattern:   regexp.MustCompile(`\b(?:19|20)\d{2}\b`),
		romanPattern:  regexp.MustCompile(`\b(?:i{1,3}v?|vi{0,3}|i?x)\b`),
		numberPattern: regexp.MustCompile(`\b(?:[1-9]|10)\b`),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Standardize converts a cleaned record into a site with canonical fields.
// Enrichment fields stay unset and the quality score is zero.
func (t *Transformer) Standardize(rec models.CleanedRecord) models.Site {
	criteriaType, numbers, description := t.ParseCriteria(rec.Criteria)

	return models.Site{
		ID:                  t.GenerateID(rec.Name, rec.Country),
		Name:                rec.Name,
		NormalizedName:      t.NormalizeName(rec.Name),
		Country:             rec.Country,
		Location:            rec.Location,
		InscriptionYear:     t.ParseYear(rec.Year),
		CriteriaType:        criteriaType,
		CriteriaNumbers:     numbers,
		CriteriaDescription: description,
		Tags:                []string{},
		LastUpdated:         t.now(),
	}
}

// GenerateID derives a stable identifier from name and country.
func (t *Transformer) GenerateID(name, country string) string {
	key := strings.ToLower(name + "_" + country)
	key = t.idStrip.ReplaceAllString(key, "")
	key = t.idSpace.ReplaceAllString(key, "_")

	if !t.hashSuffix {
		return utils.TruncateRunes(key, MaxIDLength)
	}

	sum := sha256.Sum256([]byte(key))

	return utils.TruncateRunes(key, idHashBaseSize) + "_" + hex.EncodeToString(sum[:])[:idHashLength]
}

// NormalizeName lowercases name and drops one common prefix and suffix.
func (t *Transformer) NormalizeName(name string) string {
	normalized := strings.ToLower(name)

	for _, prefix := range t.tables.NamePrefixes {
		if strings.HasPrefix(normalized, prefix) {
			normalized = normalized[len(prefix):]
			break
		}
	}

	for _, suffix := range t.tables.NameSuffixes {
		if strings.HasSuffix(normalized, suffix) {
			normalized = normalized[:len(normalized)-len(suffix)]
			break
		}
	}

	return strings.TrimSpace(normalized)
}

// ParseYear extracts the first 19xx or 20xx year, or returns 0.
func (t *Transformer) ParseYear(text string) int {
	if text == "" || strings.EqualFold(text, models.UnknownValue) {
		return 0
	}

	match := t.yearPattern.FindString(text)
	if match == "" {
		return 0
	}

	year, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}

	return year
}

// ParseCriteria resolves criteria codes from free text. It returns the
// criteria type, the recognized roman numeral codes in first-seen order, and a
// description built from the criteria table.
func (t *Transformer) ParseCriteria(text string) (models.CriteriaType, []string, string) {
	numbers := []string{}

	if text == "" || strings.EqualFold(text, models.UnknownValue) {
		return models.CriteriaUnknown, numbers, text
	}

	codes := t.romanPattern.FindAllString(strings.ToLower(text), -1)
	if len(codes) == 0 {
		for _, n := range t.numberPattern.FindAllString(text, -1) {
			codes = append(codes, arabicToRoman[n])
		}
	}

	var (
		criteriaType models.CriteriaType
		descriptions []string
		seen         = make(map[string]bool, len(codes))
	)

	for _, code := range codes {
		if seen[code] {
			continue
		}

		crit, ok := t.tables.Criterion(code)
		if !ok {
			continue
		}

		seen[code] = true
		numbers = append(numbers, code)
		descriptions = append(descriptions, crit.Description)

		switch {
		case criteriaType == "":
			criteriaType = crit.Type
		case criteriaType != crit.Type:
			criteriaType = models.CriteriaMixed
		}
	}

	if len(numbers) == 0 {
		return models.CriteriaUnknown, numbers, text
	}

	return criteriaType, numbers, strings.Join(descriptions, "; ")
}
