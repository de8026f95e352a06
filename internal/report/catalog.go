package report

import (
	"time"

	"heritage/internal/models"
	"heritage/internal/validator"
)

// Catalog defaults.
const (
	DatasetName     = "UNESCO World Heritage Sites"
	DatasetVersion  = "1.0"
	PipelineVersion = "1.0"
	DefaultSource   = "Wikipedia - List of World Heritage Sites"
	DatasetLicense  = "CC BY-SA 4.0"
)

// CatalogInfo describes the run a catalog is built for.
type CatalogInfo struct {
	CreatedAt time.Time
	RunID     string
	Source    string
}

// CatalogMetadata identifies the dataset.
type CatalogMetadata struct {
	CreatedDate     time.Time `json:"created_date" yaml:"created_date"`
	DatasetName     string    `json:"dataset_name" yaml:"dataset_name"`
	Version         string    `json:"version" yaml:"version"`
	PipelineVersion string    `json:"data_pipeline_version" yaml:"data_pipeline_version"`
	Source          string    `json:"source" yaml:"source"`
	License         string    `json:"license" yaml:"license"`
	RunID           string    `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	TotalRecords    int       `json:"total_records" yaml:"total_records"`
}

// SchemaField documents one exported field.
type SchemaField struct {
	Example     any    `json:"example" yaml:"example"`
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
}

// Schema is the exported field list.
type Schema struct {
	Fields []SchemaField `json:"fields" yaml:"fields"`
}

// Completeness is the share of sites with a usable value per field.
type Completeness struct {
	Name            float64 `json:"name" yaml:"name"`
	Country         float64 `json:"country" yaml:"country"`
	ISOCountryCode  float64 `json:"iso_country_code" yaml:"iso_country_code"`
	Region          float64 `json:"region" yaml:"region"`
	Continent       float64 `json:"continent" yaml:"continent"`
	InscriptionYear float64 `json:"inscription_year" yaml:"inscription_year"`
	CriteriaType    float64 `json:"criteria_type" yaml:"criteria_type"`
}

// DataTypes is the share of sites with well-formed typed values.
type DataTypes struct {
	ValidYears    float64 `json:"valid_years" yaml:"valid_years"`
	ValidCriteria float64 `json:"valid_criteria" yaml:"valid_criteria"`
}

// Consistency holds cross-field checks.
type Consistency struct {
	CountryISOMatch float64 `json:"country_iso_match" yaml:"country_iso_match"`
}

// QualityMetrics groups the catalog's dataset measurements.
type QualityMetrics struct {
	Completeness Completeness `json:"completeness" yaml:"completeness"`
	DataTypes    DataTypes    `json:"data_types" yaml:"data_types"`
	Consistency  Consistency  `json:"consistency" yaml:"consistency"`
}

// UsageExample is a sample query against the dataset.
type UsageExample struct {
	Description string `json:"description" yaml:"description"`
	Query       string `json:"query" yaml:"query"`
}

// Catalog describes the exported dataset for downstream consumers.
type Catalog struct {
	Metadata       CatalogMetadata `json:"metadata" yaml:"metadata"`
	Schema         Schema          `json:"schema" yaml:"schema"`
	QualityMetrics QualityMetrics  `json:"quality_metrics" yaml:"quality_metrics"`
	UsageExamples  []UsageExample  `json:"usage_examples" yaml:"usage_examples"`
}

var siteSchema = []SchemaField{
	{Name: "id", Type: "string", Description: "Unique identifier for the heritage site", Example: "angkor_wat_cambodia"},
	{Name: "name", Type: "string", Description: "Official name of the heritage site", Example: "Angkor Wat"},
	{Name: "normalized_name", Type: "string", Description: "Normalized name for searching", Example: "angkor wat"},
	{Name: "country", Type: "string", Description: "Country where the site is located", Example: "Cambodia"},
	{Name: "iso_country_code", Type: "string", Description: "ISO 3166-1 alpha-2 country code", Example: "KH"},
	{Name: "region", Type: "string", Description: "Geographic region", Example: "Southeast Asia"},
	{Name: "continent", Type: "string", Description: "Continent where the site is located", Example: "Asia"},
	{Name: "location", Type: "string", Description: "Detailed location information", Example: "Siem Reap Province, Cambodia"},
	{Name: "coordinates", Type: "object", Description: "Latitude and longitude coordinates", Example: models.Coordinates{Lat: 13.4125, Long: 103.8667}},
	{Name: "inscription_year", Type: "integer", Description: "Year the site was inscribed as World Heritage Site", Example: 1992},
	{Name: "criteria_type", Type: "enum", Description: "Type of UNESCO criteria (Cultural/Natural/Mixed/Unknown)", Example: "Cultural"},
	{Name: "criteria_numbers", Type: "list", Description: "List of UNESCO criteria numbers (i-x)", Example: []string{"i", "ii", "iii", "iv"}},
	{Name: "criteria_description", Type: "string", Description: "Description of the UNESCO criteria", Example: "Masterpiece of human creative genius; Important interchange of human values"},
	{Name: "endangered_status", Type: "boolean", Description: "Whether the site is considered endangered", Example: false},
	{Name: "area_hectares", Type: "float", Description: "Area of the site in hectares", Example: 401.0},
	{Name: "buffer_zone_hectares", Type: "float", Description: "Area of the buffer zone in hectares", Example: 1200.0},
	{Name: "description", Type: "string", Description: "Detailed description of the site", Example: "Ancient temple complex..."},
	{Name: "tags", Type: "list", Description: "Searchable tags for the site", Example: []string{"temple", "cultural", "southeast_asia", "ancient"}},
	{Name: "last_updated", Type: "datetime", Description: "Timestamp of last data update", Example: "2024-12-19T10:30:00Z"},
	{Name: "data_quality_score", Type: "float", Description: "Data quality score (0-1)", Example: 0.85},
	{Name: "source_url", Type: "string", Description: "Source URL for the data", Example: "https://en.wikipedia.org/wiki/Angkor_Wat"},
}

var usageExamples = []UsageExample{
	{Description: "Find all cultural sites in Asia", Query: "filter(criteria_type='Cultural' AND continent='Asia')"},
	{Description: "Get sites inscribed in the 1990s", Query: "filter(inscription_year >= 1990 AND inscription_year < 2000)"},
	{Description: "Search for temple sites", Query: "filter('temple' in tags)"},
	{Description: "Find high-quality data records", Query: "filter(data_quality_score >= 0.8)"},
}

// NewCatalog builds the data catalog for sites.
func NewCatalog(sites []models.Site, info CatalogInfo) Catalog {
	created := info.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	source := info.Source
	if source == "" {
		source = DefaultSource
	}

	return Catalog{
		Metadata: CatalogMetadata{
			DatasetName:     DatasetName,
			Version:         DatasetVersion,
			CreatedDate:     created,
			TotalRecords:    len(sites),
			PipelineVersion: PipelineVersion,
			Source:          source,
			License:         DatasetLicense,
			RunID:           info.RunID,
		},
		Schema:         Schema{Fields: append([]SchemaField(nil), siteSchema...)},
		QualityMetrics: measure(sites),
		UsageExamples:  append([]UsageExample(nil), usageExamples...),
	}
}

func measure(sites []models.Site) QualityMetrics {
	var m QualityMetrics
	if len(sites) == 0 {
		return m
	}

	m.Completeness = Completeness{
		Name:            share(sites, func(s models.Site) bool { return present(s.Name) }),
		Country:         share(sites, func(s models.Site) bool { return present(s.Country) }),
		ISOCountryCode:  share(sites, func(s models.Site) bool { return s.ISOCountryCode != nil && present(*s.ISOCountryCode) }),
		Region:          share(sites, func(s models.Site) bool { return s.Region != nil && present(*s.Region) }),
		Continent:       share(sites, func(s models.Site) bool { return s.Continent != nil && present(*s.Continent) }),
		InscriptionYear: share(sites, func(s models.Site) bool { return s.InscriptionYear > 0 }),
		CriteriaType:    share(sites, func(s models.Site) bool { return s.CriteriaType != models.CriteriaUnknown }),
	}

	m.DataTypes = DataTypes{
		ValidYears: share(sites, func(s models.Site) bool {
			return s.InscriptionYear >= validator.MinValidYear && s.InscriptionYear <= validator.MaxValidYear
		}),
		ValidCriteria: share(sites, func(s models.Site) bool { return len(s.CriteriaNumbers) > 0 }),
	}

	withCountry, matched := 0, 0

	for _, s := range sites {
		if s.Country == "" {
			continue
		}

		withCountry++

		if models.Str(s.ISOCountryCode) != "" {
			matched++
		}
	}

	if withCountry > 0 {
		m.Consistency.CountryISOMatch = float64(matched) / float64(withCountry)
	}

	return m
}

func present(v string) bool {
	return v != "" && v != models.UnknownValue
}

func share(sites []models.Site, ok func(models.Site) bool) float64 {
	n := 0

	for _, s := range sites {
		if ok(s) {
			n++
		}
	}

	return float64(n) / float64(len(sites))
}
