package sources

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/tealeg/xlsx"
)

const (
	energySourceName = "energy"
	// Default URL of the NTD energy consumption workbook
	defaultEnergyURL = "https://www.transit.dot.gov/sites/fta.dot.gov/files/2023-10/2022%20Energy%20Consumption.xlsx"
)

// Key columns the energy workbook must carry.
var energyKeyColumns = []string{"NTD ID", "Mode", "Agency Name"}

// energySource fetches the NTD energy consumption workbook and flattens its
// first sheet into a raw table.
type energySource struct {
	logger log.Logger
	client *http.Client
	cache  *DiskCache
	url    string
}

func init() {
	Register(energySourceName, NewEnergySource)
}

// NewEnergySource returns a Source producing the raw energy consumption table.
func NewEnergySource(config Config, logger log.Logger) (Source, error) {
	cache, err := NewDiskCache(config.CacheDir, logger)
	if err != nil {
		return nil, err
	}

	url := config.EnergyURL
	if url == "" {
		url = defaultEnergyURL
	}

	return &energySource{logger: logger, client: config.Client, cache: cache, url: url}, nil
}

// Fetch downloads the workbook and converts the first sheet into a Table.
// The first sheet row is the header; every cell is read as its string value.
func (s *energySource) Fetch(ctx context.Context) (*Table, error) {
	payload, err := s.cache.GetOrFetch(ctx, "energy.xlsx", func(ctx context.Context) ([]byte, error) {
		return fetchURL(ctx, s.client, s.url)
	})
	if err != nil {
		return nil, err
	}

	workbook, err := xlsx.OpenBinary(payload)
	if err != nil {
		return nil, &ParseError{Source: energySourceName, Err: err}
	}

	if len(workbook.Sheets) == 0 {
		return nil, &ParseError{Source: energySourceName, Err: fmt.Errorf("workbook has no sheets")}
	}

	sheet := workbook.Sheets[0]
	if sheet.MaxRow < 2 {
		return nil, &ParseError{Source: energySourceName, Err: fmt.Errorf("sheet %s has no data rows", sheet.Name)}
	}

	table := &Table{Columns: make([]string, sheet.MaxCol)}
	for c := 0; c < sheet.MaxCol; c++ {
		table.Columns[c] = sheet.Cell(0, c).Value
	}

	for r := 1; r < sheet.MaxRow; r++ {
		row := make([]string, sheet.MaxCol)
		for c := 0; c < sheet.MaxCol; c++ {
			row[c] = sheet.Cell(r, c).Value
		}

		table.Rows = append(table.Rows, row)
	}

	for _, col := range energyKeyColumns {
		if _, ok := table.Lookup(col); !ok {
			return nil, &ParseError{Source: energySourceName, Err: fmt.Errorf("missing column %q", col)}
		}
	}

	level.Debug(s.logger).Log("msg", "Fetched energy workbook", "rows", len(table.Rows), "columns", len(table.Columns))

	return table, nil
}
