// Package report builds the flat rows, statistics, catalog and exported files
// for a transformed heritage dataset.
package report

import (
	"strconv"
	"strings"
	"time"

	"heritage/internal/models"
	"heritage/internal/output"
)

// FlatSite is a Site with list and coordinate fields joined into strings, for
// tabular formats.
type FlatSite struct {
	ISOCountryCode      *string  `json:"iso_country_code" yaml:"iso_country_code"`
	Region              *string  `json:"region" yaml:"region"`
	Continent           *string  `json:"continent" yaml:"continent"`
	AreaHectares        *float64 `json:"area_hectares" yaml:"area_hectares"`
	BufferZoneHectares  *float64 `json:"buffer_zone_hectares" yaml:"buffer_zone_hectares"`
	Description         *string  `json:"description" yaml:"description"`
	SourceURL           *string  `json:"source_url" yaml:"source_url"`
	ID                  string   `json:"id" yaml:"id"`
	Name                string   `json:"name" yaml:"name"`
	NormalizedName      string   `json:"normalized_name" yaml:"normalized_name"`
	Country             string   `json:"country" yaml:"country"`
	Location            string   `json:"location" yaml:"location"`
	Coordinates         string   `json:"coordinates" yaml:"coordinates"`
	CriteriaType        string   `json:"criteria_type" yaml:"criteria_type"`
	CriteriaNumbers     string   `json:"criteria_numbers" yaml:"criteria_numbers"`
	CriteriaDescription string   `json:"criteria_description" yaml:"criteria_description"`
	Tags                string   `json:"tags" yaml:"tags"`
	LastUpdated         string   `json:"last_updated" yaml:"last_updated"`
	InscriptionYear     int      `json:"inscription_year" yaml:"inscription_year"`
	DataQualityScore    float64  `json:"data_quality_score" yaml:"data_quality_score"`
	EndangeredStatus    bool     `json:"endangered_status" yaml:"endangered_status"`
}

var flatColumns = []output.Column{
	{Name: "id", Type: output.ColumnString},
	{Name: "name", Type: output.ColumnString},
	{Name: "normalized_name", Type: output.ColumnString},
	{Name: "country", Type: output.ColumnString},
	{Name: "iso_country_code", Type: output.ColumnString},
	{Name: "region", Type: output.ColumnString},
	{Name: "continent", Type: output.ColumnString},
	{Name: "location", Type: output.ColumnString},
	{Name: "coordinates", Type: output.ColumnString},
	{Name: "inscription_year", Type: output.ColumnInt},
	{Name: "criteria_type", Type: output.ColumnString},
	{Name: "criteria_numbers", Type: output.ColumnString},
	{Name: "criteria_description", Type: output.ColumnString},
	{Name: "endangered_status", Type: output.ColumnBool},
	{Name: "area_hectares", Type: output.ColumnFloat},
	{Name: "buffer_zone_hectares", Type: output.ColumnFloat},
	{Name: "description", Type: output.ColumnString},
	{Name: "tags", Type: output.ColumnString},
	{Name: "last_updated", Type: output.ColumnString},
	{Name: "data_quality_score", Type: output.ColumnFloat},
	{Name: "source_url", Type: output.ColumnString},
}

// FlatColumns returns the tabular columns of a FlatSite.
func FlatColumns() []output.Column {
	return flatColumns
}

// Columns implements output.Row.
func (f FlatSite) Columns() []output.Column {
	return flatColumns
}

// Values implements output.Row.
func (f FlatSite) Values() []any {
	return []any{
		f.ID, f.Name, f.NormalizedName, f.Country, f.ISOCountryCode, f.Region, f.Continent,
		f.Location, f.Coordinates, f.InscriptionYear, f.CriteriaType, f.CriteriaNumbers,
		f.CriteriaDescription, f.EndangeredStatus, f.AreaHectares, f.BufferZoneHectares,
		f.Description, f.Tags, f.LastUpdated, f.DataQualityScore, f.SourceURL,
	}
}

// Flatten converts a site into a FlatSite.
func Flatten(s models.Site) FlatSite {
	flat := FlatSite{
		ID:                  s.ID,
		Name:                s.Name,
		NormalizedName:      s.NormalizedName,
		Country:             s.Country,
		ISOCountryCode:      s.ISOCountryCode,
		Region:              s.Region,
		Continent:           s.Continent,
		Location:            s.Location,
		InscriptionYear:     s.InscriptionYear,
		CriteriaType:        string(s.CriteriaType),
		CriteriaNumbers:     strings.Join(s.CriteriaNumbers, ","),
		CriteriaDescription: s.CriteriaDescription,
		EndangeredStatus:    s.EndangeredStatus,
		AreaHectares:        s.AreaHectares,
		BufferZoneHectares:  s.BufferZoneHectares,
		Description:         s.Description,
		Tags:                strings.Join(s.Tags, ","),
		DataQualityScore:    s.DataQualityScore,
		SourceURL:           s.SourceURL,
	}

	if s.Coordinates != nil {
		flat.Coordinates = strconv.FormatFloat(s.Coordinates.Lat, 'f', -1, 64) + "," +
			strconv.FormatFloat(s.Coordinates.Long, 'f', -1, 64)
	}

	if !s.LastUpdated.IsZero() {
		flat.LastUpdated = s.LastUpdated.Format(time.RFC3339)
	}

	return flat
}

// FlattenAll converts sites into output rows.
func FlattenAll(sites []models.Site) []any {
	rows := make([]any, len(sites))
	for i, s := range sites {
		rows[i] = Flatten(s)
	}

	return rows
}
