package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"heritage/internal/validator"
	"heritage/pkg/metadata"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <report.md>",
		Short: "Check the signature of a markdown report",
		Args:  cobra.ExactArgs(1),
		RunE:  runVerify,
	}
}

func runVerify(cmd *cobra.Command, args []string) error {
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read report: %w", err)
	}

	content := string(data)

	if err := validator.ValidateIntegrity(content); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	meta, _ := metadata.Extract(content)
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "✅ Signature valid: %s\n", path)
	fmt.Fprintf(w, "  Validated: %t\n", meta.Validation)
	fmt.Fprintf(w, "  Last modified: %s\n", meta.LastModify.Format("2006-01-02 15:04:05 MST"))

	if meta.RunID != "" {
		fmt.Fprintf(w, "  Run ID: %s\n", meta.RunID)
	}

	if meta.Version != "" {
		fmt.Fprintf(w, "  Version: %s\n", meta.Version)
	}

	return nil
}
