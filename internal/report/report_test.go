package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"heritage/internal/models"
)

var updated = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func site(id, country, continent string, year int, score float64, tags ...string) models.Site {
	s := models.Site{
		ID:               id,
		Name:             id,
		Country:          country,
		Location:         country,
		InscriptionYear:  year,
		CriteriaType:     models.CriteriaCultural,
		CriteriaNumbers:  []string{"i"},
		Tags:             tags,
		DataQualityScore: score,
		LastUpdated:      updated,
	}

	if continent != "" {
		s.Continent = models.StrPtr(continent)
		s.ISOCountryCode = models.StrPtr("XX")
	}

	return s
}

func TestFlatten(t *testing.T) {
	s := site("angkor_cambodia", "Cambodia", "Asia", 1992, 0.9, "cultural", "asia")
	s.CriteriaNumbers = []string{"i", "ii", "iii", "iv"}
	s.Coordinates = &models.Coordinates{Lat: 13.4125, Long: 103.8667}

	flat := Flatten(s)

	assert.Equal(t, "i,ii,iii,iv", flat.CriteriaNumbers)
	assert.Equal(t, "cultural,asia", flat.Tags)
	assert.Equal(t, "13.4125,103.8667", flat.Coordinates)
	assert.Equal(t, "2025-01-02T03:04:05Z", flat.LastUpdated)
	assert.Equal(t, "Cultural", flat.CriteriaType)
	assert.Len(t, flat.Values(), len(FlatColumns()))
	assert.Equal(t, "id", FlatColumns()[0].Name)
	assert.Equal(t, "source_url", FlatColumns()[len(FlatColumns())-1].Name)
}

func TestFlattenUnsetFields(t *testing.T) {
	flat := Flatten(models.Site{ID: "x"})

	assert.Empty(t, flat.Coordinates)
	assert.Empty(t, flat.LastUpdated)
	assert.Nil(t, flat.Region)
	assert.Empty(t, flat.CriteriaNumbers)
}

func TestSummarize(t *testing.T) {
	sites := []models.Site{
		site("a", "Cambodia", "Asia", 1992, 0.9, "cultural", "asia"),
		site("b", "Cambodia", "Asia", 1995, 0.7, "cultural"),
		site("c", "Peru", "South America", 1983, 0.3, "cultural"),
		site("d", "Peru", "", 0, 0.8),
	}
	stats := models.RunStatsSnapshot{RunID: "run", Processed: 5, Transformed: 4, AverageQualityScore: 0.675}

	sum := Summarize(sites, stats)

	assert.Equal(t, 4, sum.TotalSites)
	assert.Equal(t, 2, sum.CountriesRepresented)
	assert.Equal(t, 2, sum.ContinentsRepresented)
	assert.Equal(t, "run", sum.TransformationStats.RunID)
	assert.InDelta(t, 0.675, sum.DataQuality.AverageQualityScore, 1e-9)
	assert.Equal(t, QualitySummary{AverageQualityScore: 0.675, HighQualitySites: 2, MediumQualitySites: 1, LowQualitySites: 1}, sum.DataQuality)

	assert.Equal(t, Ranking{{Key: "Asia", Count: 2}, {Key: "South America", Count: 1}}, sum.GeographicDistribution.ByContinent)
	assert.Equal(t, Ranking{{Key: "Cambodia", Count: 2}, {Key: "Peru", Count: 2}}, sum.GeographicDistribution.ByCountry)
	assert.Equal(t, Ranking{{Key: "1980s", Count: 1}, {Key: "1990s", Count: 2}}, sum.TemporalDistribution)
	assert.Equal(t, Ranking{{Key: "cultural", Count: 3}, {Key: "asia", Count: 1}}, sum.TagFrequency)
	assert.Equal(t, 4, sum.CriteriaDistribution.Get("Cultural"))
	assert.Zero(t, sum.CriteriaDistribution.Get("Natural"))
}

func TestSummarizeLimits(t *testing.T) {
	var sites []models.Site
	for i := range 25 {
		country := string(rune('A'+i)) + "land"
		sites = append(sites, site(country, country, "", 2000, 0.5))
	}

	sum := Summarize(sites, models.RunStatsSnapshot{})

	assert.Len(t, sum.GeographicDistribution.ByCountry, topCountries)
	assert.Equal(t, 25, sum.CountriesRepresented)
	assert.Equal(t, "Aland", sum.GeographicDistribution.ByCountry[0].Key)
}

func TestRankingMarshalKeepsOrder(t *testing.T) {
	r := Ranking{{Key: "zeta", Count: 3}, {Key: "alpha", Count: 1}}

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"zeta":3,"alpha":1}`, string(data))
	assert.Equal(t, `{"zeta":3,"alpha":1}`, string(data))

	out, err := yaml.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, "zeta: 3\nalpha: 1\n", string(out))

	empty, err := json.Marshal(Ranking{})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(empty))
}

func TestNewCatalog(t *testing.T) {
	noISO := site("c", "Peru", "", 1850, 0.3)
	noISO.CriteriaType = models.CriteriaUnknown
	noISO.CriteriaNumbers = []string{}

	sites := []models.Site{
		site("a", "Cambodia", "Asia", 1992, 0.9),
		site("b", "Cambodia", "Asia", 0, 0.7),
		noISO,
		site("d", "", "", 2001, 0.5),
	}
	sites[1].Region = models.StrPtr("Unknown")

	created := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	cat := NewCatalog(sites, CatalogInfo{CreatedAt: created, RunID: "run-1"})

	assert.Equal(t, DatasetName, cat.Metadata.DatasetName)
	assert.Equal(t, DefaultSource, cat.Metadata.Source)
	assert.Equal(t, "run-1", cat.Metadata.RunID)
	assert.Equal(t, 4, cat.Metadata.TotalRecords)
	assert.True(t, cat.Metadata.CreatedDate.Equal(created))
	assert.Len(t, cat.Schema.Fields, len(FlatColumns()))
	assert.Len(t, cat.UsageExamples, 4)

	m := cat.QualityMetrics
	assert.InDelta(t, 0.75, m.Completeness.Country, 1e-9)
	assert.InDelta(t, 0.5, m.Completeness.ISOCountryCode, 1e-9)
	assert.InDelta(t, 0.0, m.Completeness.Region, 1e-9)
	assert.InDelta(t, 0.75, m.Completeness.InscriptionYear, 1e-9)
	assert.InDelta(t, 0.75, m.Completeness.CriteriaType, 1e-9)
	assert.InDelta(t, 0.5, m.DataTypes.ValidYears, 1e-9)
	assert.InDelta(t, 0.75, m.DataTypes.ValidCriteria, 1e-9)
	assert.InDelta(t, 2.0/3.0, m.Consistency.CountryISOMatch, 1e-9)
}

func TestNewCatalogEmpty(t *testing.T) {
	cat := NewCatalog(nil, CatalogInfo{Source: "fixture"})

	assert.Equal(t, "fixture", cat.Metadata.Source)
	assert.Zero(t, cat.Metadata.TotalRecords)
	assert.Equal(t, QualityMetrics{}, cat.QualityMetrics)
	assert.False(t, cat.Metadata.CreatedDate.IsZero())
}
