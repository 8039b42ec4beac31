// Package sources implements loaders that fetch the raw datasets consumed
// by the transit emissions pipeline
package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Table is a raw tabular payload as returned by a source, before any
// normalization. Cells are loosely typed strings.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Lookup returns the index of the named column. Matching is case-insensitive
// and ignores surrounding whitespace so that cosmetic upstream header changes
// do not break parsing.
func (t *Table) Lookup(name string) (int, bool) {
	for i, col := range t.Columns {
		if strings.EqualFold(strings.TrimSpace(col), strings.TrimSpace(name)) {
			return i, true
		}
	}

	return 0, false
}

// Cell returns the cell of row at column idx, or an empty string when the row
// is ragged and shorter than idx.
func (t *Table) Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

// FetchError indicates that a source endpoint was unreachable or returned an
// error status. It is fatal to the pipeline run.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetching %s: status %d", e.URL, e.Status)
	}

	return fmt.Sprintf("fetching %s: %s", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError indicates that a successfully fetched payload is missing an
// expected table, column or row. It is fatal to the pipeline run.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s source: %s", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Source is the interface a dataset loader has to implement.
type Source interface {
	// Fetch returns the raw table of the source, caching payloads on disk
	Fetch(ctx context.Context) (*Table, error)
}

// Config contains the settings shared by all sources.
type Config struct {
	// Directory of the on-disk fetch cache
	CacheDir string
	// Per-state electricity profile URL template containing a {state} placeholder
	ProfileURL string
	// NTD energy consumption workbook URL
	EnergyURL string
	// NTD service-by-agency table URL
	ServiceURL string
	// State names the profile source iterates over
	States []string
	// HTTP client used for fetching. http.DefaultClient when nil
	Client *http.Client
}

var factories = make(map[string]func(config Config, logger log.Logger) (Source, error))

// Register registers a dataset source factory.
func Register(source string, factory func(config Config, logger log.Logger) (Source, error)) {
	factories[source] = factory
}

// NewSources instantiates every registered source.
func NewSources(config Config, logger log.Logger) (map[string]Source, error) {
	sources := make(map[string]Source, len(factories))

	for key, factory := range factories {
		source, err := factory(config, log.With(logger, "source", key))
		if err != nil {
			level.Error(logger).Log("msg", "Failed to create data source", "source", key, "err", err)

			return nil, err
		}

		sources[key] = source
	}

	return sources, nil
}

// fetchURL fetches url and returns the response body. Non-2xx statuses and
// transport failures are returned as FetchError.
func fetchURL(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: url, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	return body, nil
}
