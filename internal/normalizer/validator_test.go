package normalizer

import (
	"errors"
	"testing"

	"heritage/internal/models"
)

func TestValidator_Validate(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		rec     models.CleanedRecord
		wantErr error
	}{
		{
			name: "Valid record",
			rec:  models.CleanedRecord{Name: "Angkor", Country: "Cambodia"},
		},
		{
			name: "Minimum lengths",
			rec:  models.CleanedRecord{Name: "Ōmi", Country: "UK"},
		},
		{
			name:    "Name too short",
			rec:     models.CleanedRecord{Name: "AB", Country: "Cambodia"},
			wantErr: ErrInvalidName,
		},
		{
			name:    "Missing name",
			rec:     models.CleanedRecord{Country: "Cambodia"},
			wantErr: ErrInvalidName,
		},
		{
			name:    "Country too short",
			rec:     models.CleanedRecord{Name: "Angkor", Country: "K"},
			wantErr: ErrInvalidCountry,
		},
		{
			name:    "Both invalid reports name",
			rec:     models.CleanedRecord{},
			wantErr: ErrInvalidName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.rec)

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}

				if !v.IsValid(tt.rec) {
					t.Error("IsValid() = false, want true")
				}

				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}

			if v.IsValid(tt.rec) {
				t.Error("IsValid() = true, want false")
			}
		})
	}
}
