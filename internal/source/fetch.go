package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"heritage/internal/models"
)

// Fetch errors.
var (
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	ErrBodyTooLarge         = errors.New("response body exceeds limit")
)

// Fetcher defaults.
const (
	DefaultFetchTimeout = 30 * time.Second
	DefaultMaxBodyKb    = 32 * 1024
)

var contentTypeFormats = map[string]string{
	"application/json":     "json",
	"application/x-ndjson": "jsonl",
	"application/jsonl":    "jsonl",
	"application/yaml":     "yaml",
	"application/x-yaml":   "yaml",
	"text/yaml":            "yaml",
	"text/csv":             "csv",
}

// Fetcher loads raw records published over HTTP. It makes a single attempt;
// retrying is left to the caller.
type Fetcher struct {
	client    *http.Client
	maxBodyKb int
}

// NewFetcher creates a fetcher with the default timeout and body limit.
func NewFetcher() *Fetcher {
	return NewFetcherWithClient(&http.Client{Timeout: DefaultFetchTimeout}, DefaultMaxBodyKb)
}

// NewFetcherWithClient creates a fetcher with a custom client and body limit.
func NewFetcherWithClient(client *http.Client, maxBodyKb int) *Fetcher {
	if maxBodyKb <= 0 {
		maxBodyKb = DefaultMaxBodyKb
	}

	return &Fetcher{client: client, maxBodyKb: maxBodyKb}
}

// Fetch downloads rawURL and decodes its records. The format comes from the
// URL path extension, falling back to the response Content-Type.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]models.RawRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json, application/x-ndjson, application/yaml, text/csv;q=0.9, */*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	// maxBodyKb is in KB, convert to bytes
	limit := int64(f.maxBodyKb) * 1024

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%s: %w: %d KB", rawURL, ErrBodyTooLarge, f.maxBodyKb)
	}

	records, err := Decode(bytes.NewReader(body), formatOf(rawURL, resp.Header.Get("Content-Type")))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rawURL, err)
	}

	return records, nil
}

// Open loads records from a local path or an http(s) URL.
func Open(ctx context.Context, location string) ([]models.RawRecord, error) {
	if IsURL(location) {
		return NewFetcher().Fetch(ctx, location)
	}

	return Load(location)
}

// IsURL reports whether location is an http or https URL.
func IsURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func formatOf(rawURL, contentType string) string {
	if u, err := url.Parse(rawURL); err == nil {
		ext := strings.ToLower(strings.TrimPrefix(path.Ext(u.Path), "."))
		if isFormat(ext) {
			return ext
		}
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}

	return contentTypeFormats[mediaType]
}

func isFormat(ext string) bool {
	switch ext {
	case "json", "jsonl", "yaml", "yml", "csv":
		return true
	default:
		return false
	}
}
