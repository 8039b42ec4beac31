package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/ntdcarbon/ntdcarbon/pkg/models"
)

// WriteCSV writes the emissions table to path as the delimited persisted
// form of the pipeline output. Floats are formatted with the shortest
// representation that parses back to the same value, so a write/read cycle
// preserves every field exactly.
func WriteCSV(path string, rows []models.EmissionsRow) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(emissionsColumns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range rows {
		record := make([]string, 0, len(emissionsColumns))

		for _, value := range emissionsValues(row) {
			record = append(record, formatValue(value))
		}

		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV file %s: %w", path, err)
	}

	return file.Close()
}

// ReadCSV reads an emissions table previously written by WriteCSV.
func ReadCSV(path string) ([]models.EmissionsRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file %s: %w", path, err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file %s: %w", path, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file %s has no header", path)
	}

	if len(records[0]) != len(emissionsColumns) {
		return nil, fmt.Errorf("CSV file %s has %d columns, want %d", path, len(records[0]), len(emissionsColumns))
	}

	var rows []models.EmissionsRow

	for _, record := range records[1:] {
		row, err := parseCSVRow(record)
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV row: %w", err)
		}

		rows = append(rows, row)
	}

	return rows, nil
}

func formatValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// parseCSVRow reads one record in emissionsColumns order.
func parseCSVRow(record []string) (models.EmissionsRow, error) {
	var (
		row      models.EmissionsRow
		firstErr error
	)

	next := func() string {
		value := record[0]
		record = record[1:]

		return value
	}
	nextFloat := func() float64 {
		value, err := strconv.ParseFloat(next(), 64)
		if err != nil && firstErr == nil {
			firstErr = err
		}

		return value
	}

	row.NTDID = next()
	row.AgencyName = next()
	row.City = next()
	row.State = next()
	row.StateCode = next()
	row.Mode = models.TransitMode(next())

	upt, err := strconv.ParseInt(next(), 10, 64)
	if err != nil {
		return row, fmt.Errorf("UPT: %w", err)
	}

	row.UPT = upt

	row.PassengerMiles = nextFloat()
	row.DieselGal = nextFloat()
	row.GasolineGal = nextFloat()
	row.NaturalGasGal = nextFloat()
	row.PropaneGal = nextFloat()
	row.BunkerGal = nextFloat()
	row.EthanolGal = nextFloat()
	row.ElectricMWh = nextFloat()
	row.CO2LbsPerMWh = nextFloat()
	row.PrimarySource = next()
	row.DieselEmissions = nextFloat()
	row.GasolineEmissions = nextFloat()
	row.NaturalGasEmissions = nextFloat()
	row.PropaneEmissions = nextFloat()
	row.BunkerEmissions = nextFloat()
	row.EthanolEmissions = nextFloat()
	row.ElectricEmissions = nextFloat()
	row.TotalEmissions = nextFloat()
	row.EmissionsPerUPT = nextFloat()
	row.EmissionsPerMile = nextFloat()
	row.AgencySize = models.AgencySize(next())
	row.CarEmissions = nextFloat()
	row.EmissionsAvoided = nextFloat()
	row.ElectricShare = nextFloat()

	ok, err := strconv.ParseBool(next())
	if err != nil {
		return row, fmt.Errorf("electric share flag: %w", err)
	}

	row.ElectricShareOK = ok

	if firstErr != nil {
		return row, firstErr
	}

	return row, nil
}
