// Package validator checks a transformed dataset as a whole and verifies
// signed reports.
package validator

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"heritage/internal/models"
	"heritage/pkg/metadata"
)

// Dataset thresholds.
const (
	LowQualityScore      = 0.5
	MaxLowQualityShare   = 0.2
	MaxMissingRegionRate = 0.3
	MinValidYear         = 1900
	MaxValidYear         = 2030
)

// ErrIntegrity is returned when a signed report fails verification.
var ErrIntegrity = errors.New("integrity check failed")

// QualityChecks holds the raw counts behind the findings.
type QualityChecks struct {
	DuplicateIDs          int     `json:"duplicate_ids" yaml:"duplicate_ids"`
	MissingRequiredFields int     `json:"missing_required_fields" yaml:"missing_required_fields"`
	LowQualitySites       int     `json:"low_quality_sites" yaml:"low_quality_sites"`
	MissingRegionData     int     `json:"missing_region_data" yaml:"missing_region_data"`
	InvalidYears          int     `json:"invalid_years" yaml:"invalid_years"`
	AverageQualityScore   float64 `json:"average_quality_score" yaml:"average_quality_score"`
}

// DatasetReport contains dataset validation results. Findings are plain
// messages; errors fail the report, warnings do not.
type DatasetReport struct {
	Errors           []string      `json:"errors" yaml:"errors"`
	Warnings         []string      `json:"warnings" yaml:"warnings"`
	QualityChecks    QualityChecks `json:"quality_checks" yaml:"quality_checks"`
	TotalSites       int           `json:"total_sites" yaml:"total_sites"`
	ValidationPassed bool          `json:"validation_passed" yaml:"validation_passed"`
}

// ValidateDataset runs the dataset level checks over sites.
func ValidateDataset(sites []models.Site) *DatasetReport {
	report := &DatasetReport{
		TotalSites:       len(sites),
		ValidationPassed: true,
		Errors:           []string{},
		Warnings:         []string{},
	}

	if dups := duplicateIDs(sites); len(dups) > 0 {
		report.fail(fmt.Sprintf("Duplicate site IDs found: %s", strings.Join(dups, ", ")))
		report.QualityChecks.DuplicateIDs = len(dups)
	}

	required := []struct {
		get  func(models.Site) string
		name string
	}{
		{name: "id", get: func(s models.Site) string { return s.ID }},
		{name: "name", get: func(s models.Site) string { return s.Name }},
		{name: "country", get: func(s models.Site) string { return s.Country }},
	}

	for _, field := range required {
		missing := 0
		for _, s := range sites {
			if field.get(s) == "" {
				missing++
			}
		}

		if missing > 0 {
			report.fail(fmt.Sprintf("Missing %s in %d records", field.name, missing))
			report.QualityChecks.MissingRequiredFields += missing
		}
	}

	var (
		lowQuality, noRegion, invalidYears int
		scoreSum                           float64
	)

	for _, s := range sites {
		scoreSum += s.DataQualityScore

		if s.DataQualityScore < LowQualityScore {
			lowQuality++
		}

		if models.Str(s.Region) == "" {
			noRegion++
		}

		if s.InscriptionYear > 0 && (s.InscriptionYear < MinValidYear || s.InscriptionYear > MaxValidYear) {
			invalidYears++
		}
	}

	total := float64(len(sites))

	if float64(lowQuality) > total*MaxLowQualityShare {
		report.Warnings = append(report.Warnings, fmt.Sprintf("High number of low-quality records: %d", lowQuality))
	}

	if float64(noRegion) > total*MaxMissingRegionRate {
		report.Warnings = append(report.Warnings, fmt.Sprintf("Many sites missing region data: %d", noRegion))
	}

	if invalidYears > 0 {
		report.fail(fmt.Sprintf("Invalid inscription years in %d records", invalidYears))
	}

	report.QualityChecks.LowQualitySites = lowQuality
	report.QualityChecks.MissingRegionData = noRegion
	report.QualityChecks.InvalidYears = invalidYears

	if len(sites) > 0 {
		report.QualityChecks.AverageQualityScore = scoreSum / total
	}

	return report
}

// ValidateIntegrity checks a signed report against its metadata block.
func ValidateIntegrity(content string) error {
	valid, err := metadata.Verify(content)
	if valid {
		return nil
	}

	if err != nil {
		return fmt.Errorf("%w: %w", ErrIntegrity, err)
	}

	return ErrIntegrity
}

func (r *DatasetReport) fail(msg string) {
	r.Errors = append(r.Errors, msg)
	r.ValidationPassed = false
}

func duplicateIDs(sites []models.Site) []string {
	seen := make(map[string]int, len(sites))
	for _, s := range sites {
		seen[s.ID]++
	}

	var dups []string

	for id, n := range seen {
		if n > 1 {
			dups = append(dups, id)
		}
	}

	slices.Sort(dups)

	return dups
}

// String returns string representation of validation result.
func (r *DatasetReport) String() string {
	status := "✅ VALID"
	if !r.ValidationPassed {
		status = "❌ INVALID"
	}

	return fmt.Sprintf(
		"%s | Sites: %d | Errors: %d | Warnings: %d | Avg quality: %.2f",
		status,
		r.TotalSites,
		len(r.Errors),
		len(r.Warnings),
		r.QualityChecks.AverageQualityScore,
	)
}

// PrintErrors prints validation errors in readable format.
func (r *DatasetReport) PrintErrors(w io.Writer) {
	if len(r.Errors) == 0 {
		return
	}

	fmt.Fprintln(w, "❌ Validation Errors:")

	for _, msg := range r.Errors {
		fmt.Fprintf(w, "  %s\n", msg)
	}
}

// PrintWarnings prints validation warnings.
func (r *DatasetReport) PrintWarnings(w io.Writer) {
	if len(r.Warnings) == 0 {
		return
	}

	fmt.Fprintln(w, "⚠️  Validation Warnings:")

	for _, msg := range r.Warnings {
		fmt.Fprintf(w, "  %s\n", msg)
	}
}
