package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"heritage/internal/logger"
	"heritage/internal/models"
	"heritage/internal/output"
	"heritage/internal/validator"
)

// Artifact names accepted in Exporter.Formats.
const (
	ArtifactJSON       = "json"
	ArtifactCSV        = "csv"
	ArtifactJSONL      = "jsonl"
	ArtifactYAML       = "yaml"
	ArtifactParquet    = "parquet"
	ArtifactStats      = "stats"
	ArtifactCatalog    = "catalog"
	ArtifactValidation = "validation"
	ArtifactReport     = "report"
)

const (
	timestampLayout = "20060102_150405"
	maxBaseNameLen  = 200
)

// Export errors.
var (
	ErrInvalidBaseName = errors.New("invalid output base name")
	ErrUnknownArtifact = errors.New("unknown artifact")
	ErrMissingArtifact = errors.New("artifact content missing from bundle")
)

var unsafeFileChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// Bundle is everything one run can export. Nil members can only be exported
// when their artifact is not requested.
type Bundle struct {
	Summary    *Summary
	Catalog    *Catalog
	Validation *validator.DatasetReport
	Sites      []models.Site
	Report     []byte
}

// Exporter writes a bundle to a directory, one file per artifact.
type Exporter struct {
	Now         func() time.Time
	Log         *logger.Logger
	Dir         string
	BaseName    string
	Formats     []string
	Timestamped bool
	Pretty      bool
}

// SanitizeBaseName strips characters that are unsafe in file names.
func SanitizeBaseName(name string) (string, error) {
	clean := strings.TrimSpace(unsafeFileChars.ReplaceAllString(name, ""))

	switch {
	case clean == "":
		return "", fmt.Errorf("%w: %q is empty after sanitizing", ErrInvalidBaseName, name)
	case len(clean) > maxBaseNameLen:
		return "", fmt.Errorf("%w: longer than %d characters", ErrInvalidBaseName, maxBaseNameLen)
	default:
		return clean, nil
	}
}

// Export writes every requested artifact and returns artifact name to path.
// Each file is written to a temporary name and renamed into place, so a file
// is either complete or absent. On failure the artifacts already written are
// kept and returned along with the error.
func (e *Exporter) Export(b Bundle) (map[string]string, error) {
	base, err := SanitizeBaseName(e.BaseName)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	log := e.Log
	if log == nil {
		log = logger.Discard()
	}

	now := time.Now
	if e.Now != nil {
		now = e.Now
	}

	ts := now().Format(timestampLayout)
	paths := make(map[string]string, len(e.Formats))

	for _, artifact := range e.Formats {
		name, err := e.fileName(artifact, base, ts)
		if err != nil {
			return paths, err
		}

		path := filepath.Join(e.Dir, name)

		size, err := e.writeAtomic(path, func(w io.Writer) error {
			return e.render(w, artifact, b)
		})
		if err != nil {
			return paths, fmt.Errorf("failed to export %s: %w", artifact, err)
		}

		paths[artifact] = path
		log.Info("Exported artifact", "artifact", artifact, "path", path, "size", humanize.Bytes(uint64(size)))
	}

	return paths, nil
}

func (e *Exporter) fileName(artifact, base, ts string) (string, error) {
	suffix := ""
	if e.Timestamped {
		suffix = "_" + ts
	}

	switch artifact {
	case ArtifactJSON, ArtifactCSV, ArtifactJSONL, ArtifactYAML, ArtifactParquet:
		return base + suffix + "." + artifact, nil
	case ArtifactStats, ArtifactValidation:
		return base + "_" + artifact + suffix + ".json", nil
	case ArtifactCatalog:
		return "data_catalog" + suffix + ".json", nil
	case ArtifactReport:
		return base + "_report" + suffix + ".md", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownArtifact, artifact)
	}
}

func (e *Exporter) render(w io.Writer, artifact string, b Bundle) error {
	switch artifact {
	case ArtifactJSON, ArtifactYAML:
		return e.writeItems(w, output.Format(artifact), siteItems(b.Sites), output.WithArray(true))
	case ArtifactJSONL:
		return e.writeItems(w, output.FormatJSONL, siteItems(b.Sites))
	case ArtifactCSV, ArtifactParquet:
		return e.writeItems(w, output.Format(artifact), FlattenAll(b.Sites), output.WithColumns(FlatColumns()))
	case ArtifactStats:
		if b.Summary == nil {
			return ErrMissingArtifact
		}

		return e.writeItems(w, output.FormatJSON, []any{b.Summary})
	case ArtifactCatalog:
		if b.Catalog == nil {
			return ErrMissingArtifact
		}

		return e.writeItems(w, output.FormatJSON, []any{b.Catalog})
	case ArtifactValidation:
		if b.Validation == nil {
			return ErrMissingArtifact
		}

		return e.writeItems(w, output.FormatJSON, []any{b.Validation})
	case ArtifactReport:
		if b.Report == nil {
			return ErrMissingArtifact
		}

		_, err := w.Write(b.Report)

		return err
	default:
		return fmt.Errorf("%w: %s", ErrUnknownArtifact, artifact)
	}
}

func (e *Exporter) writeItems(w io.Writer, format output.Format, items []any, opts ...output.WriterOption) error {
	opts = append(opts, output.WithPretty(e.Pretty))

	ow, err := output.NewWriter(w, format, opts...)
	if err != nil {
		return err
	}

	if err := ow.WriteAll(items); err != nil {
		return err
	}

	return ow.Close()
}

func (e *Exporter) writeAtomic(path string, fill func(io.Writer) error) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, err
	}

	defer os.Remove(tmp.Name())

	if err := fill(tmp); err != nil {
		tmp.Close()
		return 0, err
	}

	info, err := tmp.Stat()
	if err != nil {
		tmp.Close()
		return 0, err
	}

	if err := tmp.Close(); err != nil {
		return 0, err
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, err
	}

	return info.Size(), nil
}

func siteItems(sites []models.Site) []any {
	items := make([]any, len(sites))
	for i, s := range sites {
		items[i] = s
	}

	return items
}
