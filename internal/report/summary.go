package report

import (
	"bytes"
	"cmp"
	"encoding/json"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"

	"heritage/internal/models"
	"heritage/internal/normalizer"
)

// Distribution limits.
const (
	topRegions   = 20
	topCountries = 20
	topTags      = 30
)

// Count is one bucket of a distribution.
type Count struct {
	Key   string
	Count int
}

// Ranking is an ordered distribution. It encodes as a JSON or YAML mapping
// that keeps its order.
type Ranking []Count

// MarshalJSON encodes the ranking as an ordered object.
func (r Ranking) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, c := range r {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(c.Key)
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(c.Count))
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// MarshalYAML encodes the ranking as an ordered mapping.
func (r Ranking) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for _, c := range r {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: c.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(c.Count)},
		)
	}

	return node, nil
}

// Get returns the count for key.
func (r Ranking) Get(key string) int {
	for _, c := range r {
		if c.Key == key {
			return c.Count
		}
	}

	return 0
}

// QualitySummary buckets sites by quality tier.
type QualitySummary struct {
	AverageQualityScore float64 `json:"average_quality_score" yaml:"average_quality_score"`
	HighQualitySites    int     `json:"high_quality_sites" yaml:"high_quality_sites"`
	MediumQualitySites  int     `json:"medium_quality_sites" yaml:"medium_quality_sites"`
	LowQualitySites     int     `json:"low_quality_sites" yaml:"low_quality_sites"`
}

// Geography holds the geographic distributions.
type Geography struct {
	ByContinent Ranking `json:"by_continent" yaml:"by_continent"`
	ByRegion    Ranking `json:"by_region" yaml:"by_region"`
	ByCountry   Ranking `json:"by_country" yaml:"by_country"`
}

// Summary is the statistics document exported next to the dataset.
type Summary struct {
	TransformationStats    models.RunStatsSnapshot `json:"transformation_stats" yaml:"transformation_stats"`
	GeographicDistribution Geography               `json:"geographic_distribution" yaml:"geographic_distribution"`
	CriteriaDistribution   Ranking                 `json:"criteria_distribution" yaml:"criteria_distribution"`
	TemporalDistribution   Ranking                 `json:"temporal_distribution" yaml:"temporal_distribution"`
	TagFrequency           Ranking                 `json:"tag_frequency" yaml:"tag_frequency"`
	DataQuality            QualitySummary          `json:"data_quality" yaml:"data_quality"`
	TotalSites             int                     `json:"total_sites" yaml:"total_sites"`
	CountriesRepresented   int                     `json:"countries_represented" yaml:"countries_represented"`
	ContinentsRepresented  int                     `json:"continents_represented" yaml:"continents_represented"`
}

// Summarize computes the summary statistics of sites. The average quality
// score comes from the run statistics.
func Summarize(sites []models.Site, stats models.RunStatsSnapshot) Summary {
	var (
		continents = map[string]int{}
		regions    = map[string]int{}
		countries  = map[string]int{}
		criteria   = map[string]int{}
		decades    = map[string]int{}
		tags       = map[string]int{}
		quality    = QualitySummary{AverageQualityScore: stats.AverageQualityScore}
	)

	for _, s := range sites {
		if c := models.Str(s.Continent); c != "" {
			continents[c]++
		}

		if r := models.Str(s.Region); r != "" {
			regions[r]++
		}

		if s.Country != "" {
			countries[s.Country]++
		}

		criteria[string(s.CriteriaType)]++

		if s.InscriptionYear > 0 {
			decades[strconv.Itoa(s.InscriptionYear/10*10)+"s"]++
		}

		for _, t := range s.Tags {
			tags[t]++
		}

		switch normalizer.QualityTier(s.DataQualityScore) {
		case normalizer.TierHigh:
			quality.HighQualitySites++
		case normalizer.TierMedium:
			quality.MediumQualitySites++
		default:
			quality.LowQualitySites++
		}
	}

	return Summary{
		TotalSites:          len(sites),
		TransformationStats: stats,
		DataQuality:         quality,
		GeographicDistribution: Geography{
			ByContinent: rank(continents, 0),
			ByRegion:    rank(regions, topRegions),
			ByCountry:   rank(countries, topCountries),
		},
		CriteriaDistribution:  rank(criteria, 0),
		TemporalDistribution:  byKey(decades),
		TagFrequency:          rank(tags, topTags),
		CountriesRepresented:  len(countries),
		ContinentsRepresented: len(continents),
	}
}

// rank orders counts by count descending, then key ascending, keeping at most
// limit entries when limit is positive.
func rank(counts map[string]int, limit int) Ranking {
	out := toRanking(counts)

	slices.SortFunc(out, func(a, b Count) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}

		return cmp.Compare(a.Key, b.Key)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out
}

func byKey(counts map[string]int) Ranking {
	out := toRanking(counts)
	slices.SortFunc(out, func(a, b Count) int { return cmp.Compare(a.Key, b.Key) })

	return out
}

func toRanking(counts map[string]int) Ranking {
	out := make(Ranking, 0, len(counts))
	for k, v := range counts {
		out = append(out, Count{Key: k, Count: v})
	}

	return out
}
