package sources

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

const (
	serviceSourceName = "service"
	// Default URL of the NTD service-by-agency table
	defaultServiceURL = "https://data.transportation.gov/api/views/6y83-7vuw/rows.csv?accessType=DOWNLOAD"
)

// Key columns the service table must carry.
var serviceKeyColumns = []string{
	"5 digit NTD ID",
	"Agency",
	"City",
	"State",
	"UPT",
	"MILES",
}

// serviceSource fetches the service-by-agency table.
type serviceSource struct {
	logger log.Logger
	client *http.Client
	cache  *DiskCache
	url    string
}

func init() {
	Register(serviceSourceName, NewServiceSource)
}

// NewServiceSource returns a Source producing the raw agency service table.
func NewServiceSource(config Config, logger log.Logger) (Source, error) {
	cache, err := NewDiskCache(config.CacheDir, logger)
	if err != nil {
		return nil, err
	}

	url := config.ServiceURL
	if url == "" {
		url = defaultServiceURL
	}

	return &serviceSource{logger: logger, client: config.Client, cache: cache, url: url}, nil
}

// Fetch downloads and parses the service table.
func (s *serviceSource) Fetch(ctx context.Context) (*Table, error) {
	payload, err := s.cache.GetOrFetch(ctx, "service.csv", func(ctx context.Context) ([]byte, error) {
		return fetchURL(ctx, s.client, s.url)
	})
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(payload))

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &ParseError{Source: serviceSourceName, Err: err}
	}

	if len(records) < 2 {
		return nil, &ParseError{Source: serviceSourceName, Err: fmt.Errorf("table has no data rows")}
	}

	table := &Table{Columns: records[0], Rows: records[1:]}

	for _, col := range serviceKeyColumns {
		if _, ok := table.Lookup(col); !ok {
			return nil, &ParseError{Source: serviceSourceName, Err: fmt.Errorf("missing column %q", col)}
		}
	}

	level.Debug(s.logger).Log("msg", "Fetched service table", "rows", len(table.Rows))

	return table, nil
}
