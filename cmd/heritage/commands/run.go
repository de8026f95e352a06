package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"heritage/internal/config"
	"heritage/internal/formatter"
	"heritage/internal/metrics"
	"heritage/internal/normalizer"
	"heritage/internal/reference"
	"heritage/internal/report"
	"heritage/internal/source"
	"heritage/internal/validator"
)

// ErrMissingInput is returned when no input file is given.
var ErrMissingInput = errors.New("an input file is required (-i)")

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the transformation pipeline and export the dataset",
		Long: `Run loads raw records, transforms them into heritage sites, validates the
dataset and writes the configured artifacts to the output directory.

Input formats are picked by extension: .json, .jsonl, .yaml, .yml, .csv.
An http(s) URL is fetched once; its Content-Type decides the format when the
path has no known extension.`,
		Args: cobra.NoArgs,
		RunE: runPipeline,
	}

	flags := cmd.Flags()
	flags.StringP("input", "i", "", "raw records file or http(s) URL")
	flags.StringP("output-dir", "o", "", "output directory")
	flags.String("base-name", "", "base name of exported files")
	flags.StringSlice("format", nil, "artifacts to export: json, csv, stats, catalog, validation, report, jsonl, yaml, parquet")
	flags.Int("workers", 0, "records transformed in parallel")
	flags.String("reference", "", "reference tables YAML (default: embedded)")
	flags.Bool("id-hash-suffix", false, "append a content hash to generated IDs")
	flags.Bool("pretty", true, "pretty-print JSON artifacts")
	flags.Bool("timestamped", true, "add a timestamp to exported file names")
	flags.String("metrics-textfile", "", "write prometheus metrics to this file")
	flags.Bool("strict", false, "exit with code 2 when dataset validation fails")

	_ = viper.BindPFlag("output.dir", flags.Lookup("output-dir"))
	_ = viper.BindPFlag("output.base_name", flags.Lookup("base-name"))
	_ = viper.BindPFlag("output.formats", flags.Lookup("format"))
	_ = viper.BindPFlag("output.pretty_print", flags.Lookup("pretty"))
	_ = viper.BindPFlag("output.timestamped", flags.Lookup("timestamped"))
	_ = viper.BindPFlag("pipeline.workers", flags.Lookup("workers"))
	_ = viper.BindPFlag("pipeline.reference_file", flags.Lookup("reference"))
	_ = viper.BindPFlag("pipeline.id_hash_suffix", flags.Lookup("id-hash-suffix"))
	_ = viper.BindPFlag("metrics.textfile", flags.Lookup("metrics-textfile"))

	return cmd
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	input, _ := cmd.Flags().GetString("input")
	strict, _ := cmd.Flags().GetBool("strict")

	if input == "" {
		return ErrMissingInput
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := newLogger(cfg, cmd.ErrOrStderr())
	log.Debug("Effective configuration", "config", cfg.String())

	tables, err := reference.Load(cfg.Pipeline.ReferenceFile)
	if err != nil {
		return fmt.Errorf("failed to load reference tables: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	raws, err := source.Open(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to load input: %w", err)
	}

	log.Info("Loaded input", "path", input, "records", humanize.Comma(int64(len(raws))))

	recorder := metrics.NewRecorder()
	processor := normalizer.NewProcessor(tables,
		normalizer.WithLogger(log),
		normalizer.WithMetrics(recorder),
		normalizer.WithWorkers(cfg.Pipeline.Workers),
		normalizer.WithTransformerOptions(normalizer.WithIDHashSuffix(cfg.Pipeline.IDHashSuffix)),
	)

	sites, err := processor.Run(ctx, raws)
	if err != nil {
		return fmt.Errorf("pipeline interrupted: %w", err)
	}

	stats := processor.Stats()
	summary := report.Summarize(sites, stats)
	validation := validator.ValidateDataset(sites)

	bundle := report.Bundle{
		Sites:      sites,
		Summary:    &summary,
		Validation: validation,
	}

	if cfg.HasFormat(config.FormatCatalog) {
		catalog := report.NewCatalog(sites, report.CatalogInfo{CreatedAt: stats.FinishedAt, RunID: stats.RunID})
		bundle.Catalog = &catalog
	}

	if cfg.HasFormat(config.FormatReport) {
		bundle.Report = []byte(formatter.RenderReport(summary, validation, formatter.ReportOptions{Version: Version}))
	}

	exporter := &report.Exporter{
		Dir:         cfg.Output.Dir,
		BaseName:    cfg.Output.BaseName,
		Formats:     cfg.Output.Formats,
		Timestamped: cfg.Output.Timestamped,
		Pretty:      cfg.Output.PrettyPrint,
		Log:         log,
	}

	paths, err := exporter.Export(bundle)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: fmt.Errorf("export failed: %w", err)}
	}

	if cfg.Metrics.Textfile != "" {
		if err := recorder.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			log.Warn("Failed to write metrics", "path", cfg.Metrics.Textfile, "error", err)
		}
	}

	printRunSummary(cmd.OutOrStdout(), summary, validation, paths, cfg.Output.Formats)

	if strict && !validation.ValidationPassed {
		return &ExitError{Code: ExitValidationFailed, Err: ErrValidationFailed}
	}

	return nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}

func printRunSummary(w io.Writer, s report.Summary, v *validator.DatasetReport, paths map[string]string, order []string) {
	fmt.Fprintln(w, v.String())
	v.PrintErrors(w)
	v.PrintWarnings(w)

	fmt.Fprintln(w, "📦 Export completed:")

	for _, artifact := range order {
		if path, ok := paths[artifact]; ok {
			fmt.Fprintf(w, "  %s: %s\n", artifact, path)
		}
	}

	fmt.Fprintln(w, "\n📊 Transformation Summary:")
	fmt.Fprintf(w, "  Total sites processed: %s\n", humanize.Comma(int64(s.TransformationStats.Processed)))
	fmt.Fprintf(w, "  Sites transformed: %s\n", humanize.Comma(int64(s.TotalSites)))
	fmt.Fprintf(w, "  Records dropped: %s\n", humanize.Comma(int64(s.TransformationStats.Errors)))
	fmt.Fprintf(w, "  Average quality score: %.2f\n", s.DataQuality.AverageQualityScore)
	fmt.Fprintf(w, "  Countries represented: %d\n", s.CountriesRepresented)
	fmt.Fprintf(w, "  Continents represented: %d\n", s.ContinentsRepresented)
}
