package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"heritage/internal/report"
	"heritage/internal/validator"
	"heritage/pkg/metadata"
)

// ReportOptions controls the signature block of a rendered report.
type ReportOptions struct {
	Now     time.Time
	Version string
}

// RenderReport builds the signed markdown report for a run. validation may be
// nil, in which case the report is signed as not validated.
func RenderReport(summary report.Summary, validation *validator.DatasetReport, opts ReportOptions) string {
	var sb strings.Builder

	sb.WriteString("# Heritage Sites Report\n\n")

	writeOverview(&sb, summary)
	writeQuality(&sb, summary.DataQuality)

	sb.WriteString("## Geography\n\n")
	writeRanking(&sb, "### By Continent", "Continent", summary.GeographicDistribution.ByContinent)
	writeRanking(&sb, "### By Region", "Region", summary.GeographicDistribution.ByRegion)
	writeRanking(&sb, "### By Country", "Country", summary.GeographicDistribution.ByCountry)

	writeRanking(&sb, "## Criteria", "Type", summary.CriteriaDistribution)
	writeRanking(&sb, "## Inscriptions by Decade", "Decade", summary.TemporalDistribution)
	writeRanking(&sb, "## Top Tags", "Tag", summary.TagFrequency)

	writeValidation(&sb, validation)

	content := FormatMarkdown(strings.TrimRight(sb.String(), "\n"))

	return metadata.Sign(content, metadata.SignOptions{
		Now:       opts.Now,
		Version:   opts.Version,
		RunID:     summary.TransformationStats.RunID,
		Validated: validation != nil && validation.ValidationPassed,
	})
}

func writeOverview(sb *strings.Builder, s report.Summary) {
	stats := s.TransformationStats

	sb.WriteString("## Overview\n\n")
	sb.WriteString("| Metric | Value |\n| --- | --- |\n")

	rows := [][2]string{
		{"Run ID", stats.RunID},
		{"Records processed", humanize.Comma(int64(stats.Processed))},
		{"Sites transformed", humanize.Comma(int64(stats.Transformed))},
		{"Records dropped", humanize.Comma(int64(stats.Errors))},
		{"Total sites", humanize.Comma(int64(s.TotalSites))},
		{"Countries represented", strconv.Itoa(s.CountriesRepresented)},
		{"Continents represented", strconv.Itoa(s.ContinentsRepresented)},
	}

	if !stats.StartedAt.IsZero() && !stats.FinishedAt.IsZero() {
		rows = append(rows, [2]string{"Duration", stats.FinishedAt.Sub(stats.StartedAt).Round(time.Millisecond).String()})
	}

	for _, r := range rows {
		fmt.Fprintf(sb, "| %s | %s |\n", r[0], escapeCell(r[1]))
	}

	sb.WriteString("\n")
}

func writeQuality(sb *strings.Builder, q report.QualitySummary) {
	sb.WriteString("## Data Quality\n\n")
	fmt.Fprintf(sb, "Average quality score: **%.2f**\n\n", q.AverageQualityScore)
	sb.WriteString("| Tier | Sites |\n| --- | ---: |\n")
	fmt.Fprintf(sb, "| High | %s |\n", humanize.Comma(int64(q.HighQualitySites)))
	fmt.Fprintf(sb, "| Medium | %s |\n", humanize.Comma(int64(q.MediumQualitySites)))
	fmt.Fprintf(sb, "| Low | %s |\n\n", humanize.Comma(int64(q.LowQualitySites)))
}

func writeRanking(sb *strings.Builder, heading, label string, r report.Ranking) {
	sb.WriteString(heading + "\n\n")

	if len(r) == 0 {
		sb.WriteString("_None._\n\n")
		return
	}

	fmt.Fprintf(sb, "| %s | Sites |\n| --- | ---: |\n", label)

	for _, c := range r {
		fmt.Fprintf(sb, "| %s | %s |\n", escapeCell(c.Key), humanize.Comma(int64(c.Count)))
	}

	sb.WriteString("\n")
}

func writeValidation(sb *strings.Builder, v *validator.DatasetReport) {
	sb.WriteString("## Validation\n\n")

	if v == nil {
		sb.WriteString("Validation was not run.\n")
		return
	}

	status := "PASSED"
	if !v.ValidationPassed {
		status = "FAILED"
	}

	fmt.Fprintf(sb, "Status: **%s**\n\n", status)

	writeFindings(sb, "Errors", v.Errors)
	writeFindings(sb, "Warnings", v.Warnings)
}

func writeFindings(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}

	sb.WriteString("### " + title + "\n\n")

	for _, item := range items {
		sb.WriteString("- " + item + "\n")
	}

	sb.WriteString("\n")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
