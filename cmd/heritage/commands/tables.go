package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"heritage/internal/reference"
)

func newTablesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Print the effective reference tables as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("reference")
			if path == "" {
				path = viper.GetString("pipeline.reference_file")
			}

			tables, err := reference.Load(path)
			if err != nil {
				return fmt.Errorf("failed to load reference tables: %w", err)
			}

			out, err := tables.Marshal()
			if err != nil {
				return fmt.Errorf("failed to encode reference tables: %w", err)
			}

			_, err = cmd.OutOrStdout().Write(out)

			return err
		},
	}

	cmd.Flags().String("reference", "", "reference tables YAML (default: embedded)")

	return cmd
}
