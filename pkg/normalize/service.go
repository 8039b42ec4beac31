package normalize

import (
	"fmt"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/ntdcarbon/ntdcarbon/pkg/models"
	"github.com/ntdcarbon/ntdcarbon/pkg/sources"
)

// ServiceResult is the outcome of normalizing the service table.
type ServiceResult struct {
	Records   []models.ServiceRecord
	ZeroMiles int // Rows excluded for zero passenger miles
}

// Service converts the raw service-by-agency table into ServiceRecords.
// Rows with zero passenger miles are excluded since per-mile metrics would
// be undefined for them downstream.
func Service(table *sources.Table, logger log.Logger) (*ServiceResult, error) {
	columns := map[string]int{}

	for _, col := range []string{"5 digit NTD ID", "Agency", "City", "State", "UPT", "MILES"} {
		idx, ok := table.Lookup(col)
		if !ok {
			return nil, &ValidationError{Entity: "service", Key: col, Err: fmt.Errorf("missing column")}
		}

		columns[col] = idx
	}

	result := &ServiceResult{}

	for _, row := range table.Rows {
		id := table.Cell(row, columns["5 digit NTD ID"])

		upt, err := parseNumber(table.Cell(row, columns["UPT"]))
		if err != nil {
			return nil, &ValidationError{Entity: "service", Key: id, Err: fmt.Errorf("UPT: %w", err)}
		}

		miles, err := parseNumber(table.Cell(row, columns["MILES"]))
		if err != nil {
			return nil, &ValidationError{Entity: "service", Key: id, Err: fmt.Errorf("passenger miles: %w", err)}
		}

		if upt < 0 || miles < 0 {
			return nil, &ValidationError{Entity: "service", Key: id, Err: fmt.Errorf("negative quantity")}
		}

		if miles == 0 {
			result.ZeroMiles++

			continue
		}

		result.Records = append(result.Records, models.ServiceRecord{
			NTDID:          id,
			AgencyName:     table.Cell(row, columns["Agency"]),
			City:           table.Cell(row, columns["City"]),
			StateCode:      strings.ToUpper(table.Cell(row, columns["State"])),
			UPT:            int64(upt),
			PassengerMiles: miles,
		})
	}

	level.Debug(logger).Log("msg", "Normalized service records", "records", len(result.Records),
		"zero_miles", result.ZeroMiles)

	return result, nil
}
