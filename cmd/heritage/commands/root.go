// Package commands implements the CLI commands for heritage.
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"heritage/internal/config"
	"heritage/internal/logger"
)

// Exit codes.
const (
	ExitFailure          = 1
	ExitValidationFailed = 2
)

// ErrValidationFailed is returned when a dataset does not pass validation and
// the caller asked for a strict check.
var ErrValidationFailed = errors.New("dataset validation failed")

// ExitError carries a process exit code.
type ExitError struct {
	Err  error
	Code int
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode maps an Execute error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	return ExitFailure
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "heritage",
		Short: "Transform raw heritage site records into a clean, enriched dataset",
		Long: `Heritage cleans, validates, standardizes, enriches, scores and tags raw
World Heritage site records, then exports the dataset with statistics, a data
catalog, a validation report and a signed markdown report.

Examples:
  # Run the pipeline with the default configuration
  heritage run -i sites.json

  # Parallel run, selected formats, fail on validation errors
  heritage run -i sites.csv --workers 4 --format json,parquet,report --strict

  # Re-validate an exported dataset
  heritage validate -i output/heritage_sites.json

  # Check a signed report
  heritage verify output/heritage_sites_report.md`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringP("config", "c", "", "config file (default ./heritage.yaml or ./configs/heritage.yaml)")
	cmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	cmd.PersistentFlags().Bool("log-json", false, "emit logs as JSON")

	_ = viper.BindPFlag("config", cmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("logging.level", cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.json", cmd.PersistentFlags().Lookup("log-json"))

	cmd.AddCommand(newRunCmd(), newValidateCmd(), newVerifyCmd(), newTablesCmd(), newVersionCmd())

	return cmd
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("configs")
		viper.SetConfigName("heritage")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("HERITAGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig builds the effective configuration: defaults, then the YAML
// file, then environment variables and flags.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()

	if path := viper.ConfigFileUsed(); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}

		cfg = loaded
	}

	if viper.IsSet("pipeline.workers") {
		cfg.Pipeline.Workers = viper.GetInt("pipeline.workers")
	}

	if viper.IsSet("pipeline.reference_file") {
		cfg.Pipeline.ReferenceFile = viper.GetString("pipeline.reference_file")
	}

	if viper.IsSet("pipeline.id_hash_suffix") {
		cfg.Pipeline.IDHashSuffix = viper.GetBool("pipeline.id_hash_suffix")
	}

	if viper.IsSet("output.dir") {
		cfg.Output.Dir = viper.GetString("output.dir")
	}

	if viper.IsSet("output.base_name") {
		cfg.Output.BaseName = viper.GetString("output.base_name")
	}

	if viper.IsSet("output.formats") {
		cfg.Output.Formats = config.NormalizeFormats(viper.GetStringSlice("output.formats"))
	}

	if viper.IsSet("output.pretty_print") {
		cfg.Output.PrettyPrint = viper.GetBool("output.pretty_print")
	}

	if viper.IsSet("output.timestamped") {
		cfg.Output.Timestamped = viper.GetBool("output.timestamped")
	}

	if level := viper.GetString("logging.level"); level != "" {
		cfg.Logging.Level = strings.ToLower(level)
	}

	if viper.IsSet("logging.json") {
		cfg.Logging.JSON = viper.GetBool("logging.json")
	}

	if viper.IsSet("metrics.textfile") {
		cfg.Metrics.Textfile = viper.GetString("metrics.textfile")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func newLogger(cfg *config.Config, w io.Writer) *logger.Logger {
	if w == nil {
		w = os.Stderr
	}

	return logger.New(logger.Options{
		Output: w,
		Level:  cfg.Logging.Level,
		JSON:   cfg.Logging.JSON,
	})
}
