package sources

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

const (
	profileSourceName = "profile"
	// Default URL template of the per-state electricity profile documents
	defaultProfileURL = "https://www.eia.gov/electricity/state/archive/2023/{state}/state_tables.csv"
)

// Item labels the profile document must carry. Matching is case-insensitive.
var profileItems = []string{
	"carbon dioxide (lbs/mwh)",
	"primary energy source",
	"average retail price (cents/kwh)",
	"net generation (megawatthours)",
}

// profileSource fetches the electricity profile document of every state. Each
// document is a label/value item table; the source flattens them into one raw
// table with one row per (state, item).
type profileSource struct {
	logger      log.Logger
	client      *http.Client
	cache       *DiskCache
	urlTemplate string
	states      []string
}

func init() {
	Register(profileSourceName, NewProfileSource)
}

// NewProfileSource returns a Source producing per-state electricity profiles.
func NewProfileSource(config Config, logger log.Logger) (Source, error) {
	cache, err := NewDiskCache(config.CacheDir, logger)
	if err != nil {
		return nil, err
	}

	urlTemplate := config.ProfileURL
	if urlTemplate == "" {
		urlTemplate = defaultProfileURL
	}

	if len(config.States) == 0 {
		return nil, &ParseError{Source: profileSourceName, Err: fmt.Errorf("no states configured")}
	}

	return &profileSource{
		logger:      logger,
		client:      config.Client,
		cache:       cache,
		urlTemplate: urlTemplate,
		states:      config.States,
	}, nil
}

// Fetch fetches and parses the profile document of every configured state.
func (s *profileSource) Fetch(ctx context.Context) (*Table, error) {
	table := &Table{Columns: []string{"State", "Item", "Value"}}

	for _, state := range s.states {
		docURL := strings.ReplaceAll(s.urlTemplate, "{state}", url.PathEscape(strings.ToLower(strings.ReplaceAll(state, " ", ""))))

		payload, err := s.cache.GetOrFetch(ctx, "profile_"+state+".csv", func(ctx context.Context) ([]byte, error) {
			return fetchURL(ctx, s.client, docURL)
		})
		if err != nil {
			return nil, err
		}

		items, err := parseProfileDocument(payload)
		if err != nil {
			return nil, &ParseError{Source: profileSourceName, Err: fmt.Errorf("state %s: %w", state, err)}
		}

		for item, value := range items {
			table.Rows = append(table.Rows, []string{state, item, value})
		}

		level.Debug(s.logger).Log("msg", "Fetched electricity profile", "state", state, "items", len(items))
	}

	return table, nil
}

// parseProfileDocument extracts the required item labels from one per-state
// document. Every label in profileItems must be present.
func parseProfileDocument(payload []byte) (map[string]string, error) {
	reader := csv.NewReader(bytes.NewReader(payload))
	// Profile documents interleave prose and item rows of varying width
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	items := make(map[string]string, len(profileItems))

	for _, record := range records {
		if len(record) < 2 {
			continue
		}

		label := strings.ToLower(strings.TrimSpace(record[0]))
		for _, item := range profileItems {
			if label == item {
				items[item] = strings.TrimSpace(record[1])
			}
		}
	}

	for _, item := range profileItems {
		if _, ok := items[item]; !ok {
			return nil, fmt.Errorf("missing item %q", item)
		}
	}

	return items, nil
}
