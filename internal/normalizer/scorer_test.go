package normalizer

import (
	"testing"
	"time"

	"heritage/internal/models"
)

func fullSite() models.Site {
	return models.Site{
		Name:                "Angkor Archaeological Park",
		Country:             "Cambodia",
		Location:            "Siem Reap Province",
		ISOCountryCode:      models.StrPtr("KH"),
		Region:              models.StrPtr("Southeast Asia"),
		Continent:           models.StrPtr("Asia"),
		InscriptionYear:     1992,
		CriteriaType:        models.CriteriaCultural,
		CriteriaNumbers:     []string{"i", "ii"},
		CriteriaDescription: "Masterpiece of human creative genius",
		LastUpdated:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestScorer_Score(t *testing.T) {
	s := NewScorer()

	tests := []struct {
		name   string
		mutate func(*models.Site)
		want   float64
	}{
		{"Complete", func(*models.Site) {}, 1.0},
		{"Short name", func(site *models.Site) { site.Name = "Uxm" }, 0.9},
		{"No geography", func(site *models.Site) {
			site.ISOCountryCode, site.Region, site.Continent = nil, nil, nil
		}, 0.7},
		{"Location equals country", func(site *models.Site) { site.Location = site.Country }, 0.9},
		{"Short description", func(site *models.Site) { site.CriteriaDescription = "exactly twenty chars" }, 0.9},
		{"Description of 21 chars", func(site *models.Site) { site.CriteriaDescription = "exactly twenty-one ch" }, 1.0},
		{"Zero time", func(site *models.Site) { site.LastUpdated = time.Time{} }, 0.9},
		{"Unknown criteria", func(site *models.Site) {
			site.CriteriaType = models.CriteriaUnknown
			site.CriteriaNumbers = []string{}
			site.CriteriaDescription = "Unknown"
			site.InscriptionYear = 0
		}, 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			site := fullSite()
			tt.mutate(&site)

			if got := s.Score(site); got != tt.want {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScorer_MinimalRecord(t *testing.T) {
	s := NewScorer()

	minimal := models.Site{
		Name:                "Lost Temple",
		Country:             "Atlantis",
		Location:            "Atlantis",
		CriteriaType:        models.CriteriaUnknown,
		CriteriaNumbers:     []string{},
		CriteriaDescription: "Unknown",
		LastUpdated:         time.Now(),
	}

	if got := s.Score(minimal); got != 0.2 {
		t.Errorf("Score(location == country) = %v, want 0.2", got)
	}

	minimal.Location = "Sunken City"
	if got := s.Score(minimal); got != 0.3 {
		t.Errorf("Score(specific location) = %v, want 0.3", got)
	}
}

func TestScorer_Breakdown(t *testing.T) {
	s := NewScorer()

	site := fullSite()
	site.Region = nil

	got := s.Breakdown(site)
	if len(got) != 10 {
		t.Fatalf("Breakdown has %d checks, want 10", len(got))
	}

	if got["region"] {
		t.Error("region check should fail")
	}

	if !got["continent"] {
		t.Error("continent check should pass")
	}
}
