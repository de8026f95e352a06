package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"heritage/internal/models"
	"heritage/internal/validator"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an exported site dataset",
		Long: `Validate loads a JSON array of transformed sites, as written by "heritage run",
and prints the dataset validation report. It exits with code 2 when the
dataset fails validation.`,
		Args: cobra.NoArgs,
		RunE: runValidate,
	}

	cmd.Flags().StringP("input", "i", "", "exported sites JSON file")
	cmd.Flags().Bool("json", false, "print the report as JSON")

	return cmd
}

func runValidate(cmd *cobra.Command, _ []string) error {
	input, _ := cmd.Flags().GetString("input")
	asJSON, _ := cmd.Flags().GetBool("json")

	if input == "" {
		return ErrMissingInput
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read dataset: %w", err)
	}

	var sites []models.Site
	if err := json.Unmarshal(data, &sites); err != nil {
		return fmt.Errorf("failed to parse dataset: %w", err)
	}

	result := validator.ValidateDataset(sites)
	w := cmd.OutOrStdout()

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(w, result.String())
		result.PrintErrors(w)
		result.PrintWarnings(w)
	}

	if !result.ValidationPassed {
		return &ExitError{Code: ExitValidationFailed, Err: ErrValidationFailed}
	}

	return nil
}
