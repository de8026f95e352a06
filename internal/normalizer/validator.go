package normalizer

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"heritage/internal/models"
)

// Validation errors.
var (
	ErrInvalidName    = errors.New("site name is missing or shorter than 3 characters")
	ErrInvalidCountry = errors.New("country is missing or shorter than 2 characters")
	ErrInvalidRecord  = errors.New("invalid cleaned record")
)

// Validator rejects cleaned records that cannot identify a site.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Validate checks if a cleaned record meets the minimum requirements.
func (v *Validator) Validate(rec models.CleanedRecord) error {
	err := v.validate.Struct(rec)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	// Name is checked before country, matching struct field order.
	switch fe := fieldErrs[0]; fe.StructField() {
	case "Name":
		return fmt.Errorf("%w: %q", ErrInvalidName, rec.Name)
	case "Country":
		return fmt.Errorf("%w: %q", ErrInvalidCountry, rec.Country)
	default:
		return fmt.Errorf("%w: %s failed %s", ErrInvalidRecord, fe.Field(), fe.Tag())
	}
}

// IsValid reports whether rec passes Validate.
func (v *Validator) IsValid(rec models.CleanedRecord) bool {
	return v.Validate(rec) == nil
}
