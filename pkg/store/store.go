// Package store persists the finished emissions table and run records into
// a local SQLite database
package store

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver

	"github.com/ntdcarbon/ntdcarbon/pkg/models"
	"github.com/ntdcarbon/ntdcarbon/pkg/store/migrator"
)

// Directory containing DB migrations
const migrationsDir = "migrations"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB file name inside the data directory
const dbFile = "ntdcarbon.db"

// emissionsColumns is the insert column list of the emissions table, derived
// from the model's sql tags with the autoincrement key dropped.
var emissionsColumns = func() []string {
	var cols []string

	for _, col := range (models.EmissionsRow{}).TagNames("sql") {
		if col != "id" {
			cols = append(cols, col)
		}
	}

	return cols
}()

// Store wraps the SQLite database holding emissions tables and run records.
type Store struct {
	logger log.Logger
	db     *sql.DB
}

// New opens (creating when missing) the pipeline database under dataPath and
// applies pending migrations.
func New(dataPath string, logger log.Logger) (*Store, error) {
	if err := os.MkdirAll(dataPath, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dataPath, err)
	}

	dbPath := filepath.Join(dataPath, dbFile)

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open DB %s: %w", dbPath, err)
	}

	m, err := migrator.New(migrationsFS, migrationsDir, logger)
	if err != nil {
		db.Close()

		return nil, fmt.Errorf("failed to create DB migrator: %w", err)
	}

	if err := m.ApplyMigrations(db); err != nil {
		db.Close()

		return nil, err
	}

	level.Debug(logger).Log("msg", "Opened pipeline DB", "path", dbPath)

	return &Store{logger: logger, db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveOutcome replaces the emissions table with the rows of the given run and
// appends the run record, all in one transaction.
func (s *Store) SaveOutcome(run models.Run, rows []models.EmissionsRow) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	// The emissions table always holds the latest finished table
	if _, err := tx.Exec("DELETE FROM " + (models.EmissionsRow{}).TableName()); err != nil {
		return fmt.Errorf("failed to clear emissions table: %w", err)
	}

	insertStmt := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		(models.EmissionsRow{}).TableName(),
		strings.Join(emissionsColumns, ","),
		strings.TrimSuffix(strings.Repeat("?,", len(emissionsColumns)), ","),
	)

	stmt, err := tx.Prepare(insertStmt)
	if err != nil {
		return fmt.Errorf("failed to prepare emissions insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.Exec(emissionsValues(row)...); err != nil {
			return fmt.Errorf("failed to insert emissions row %s/%s: %w", row.NTDID, row.Mode, err)
		}
	}

	if _, err := tx.Exec(
		`INSERT INTO runs (uuid,started_at,ended_at,num_rows,num_zero_filled,num_zero_energy,
			num_zero_miles,num_unknown_modes,num_undefined,num_unjoined) VALUES (?,?,?,?,?,?,?,?,?,?)`,
		run.UUID, run.StartedAt, run.EndedAt, run.NumRows, run.NumZeroFilled, run.NumZeroEnergy,
		run.NumZeroMiles, run.NumUnknownModes, run.NumUndefined, run.NumUnjoined,
	); err != nil {
		return fmt.Errorf("failed to insert run record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	level.Info(s.logger).Log("msg", "Persisted pipeline outcome", "run", run.UUID, "rows", len(rows))

	return nil
}

// Emissions returns the persisted emissions table in insert order.
func (s *Store) Emissions() ([]models.EmissionsRow, error) {
	query := fmt.Sprintf(
		"SELECT id,%s FROM %s ORDER BY id",
		strings.Join(emissionsColumns, ","),
		(models.EmissionsRow{}).TableName(),
	)

	result, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query emissions table: %w", err)
	}
	defer result.Close()

	var rows []models.EmissionsRow

	for result.Next() {
		var row models.EmissionsRow

		if err := result.Scan(
			&row.ID, &row.NTDID, &row.AgencyName, &row.City, &row.State, &row.StateCode,
			&row.Mode, &row.UPT, &row.PassengerMiles,
			&row.DieselGal, &row.GasolineGal, &row.NaturalGasGal, &row.PropaneGal,
			&row.BunkerGal, &row.EthanolGal, &row.ElectricMWh,
			&row.CO2LbsPerMWh, &row.PrimarySource,
			&row.DieselEmissions, &row.GasolineEmissions, &row.NaturalGasEmissions,
			&row.PropaneEmissions, &row.BunkerEmissions, &row.EthanolEmissions,
			&row.ElectricEmissions, &row.TotalEmissions,
			&row.EmissionsPerUPT, &row.EmissionsPerMile, &row.AgencySize,
			&row.CarEmissions, &row.EmissionsAvoided, &row.ElectricShare, &row.ElectricShareOK,
		); err != nil {
			return nil, fmt.Errorf("failed to scan emissions row: %w", err)
		}

		rows = append(rows, row)
	}

	return rows, result.Err()
}

// Runs returns all run records, newest first.
func (s *Store) Runs() ([]models.Run, error) {
	result, err := s.db.Query(
		`SELECT id,uuid,started_at,ended_at,num_rows,num_zero_filled,num_zero_energy,
			num_zero_miles,num_unknown_modes,num_undefined,num_unjoined FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs table: %w", err)
	}
	defer result.Close()

	var runs []models.Run

	for result.Next() {
		var run models.Run

		if err := result.Scan(
			&run.ID, &run.UUID, &run.StartedAt, &run.EndedAt, &run.NumRows, &run.NumZeroFilled,
			&run.NumZeroEnergy, &run.NumZeroMiles, &run.NumUnknownModes, &run.NumUndefined,
			&run.NumUnjoined,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run record: %w", err)
		}

		runs = append(runs, run)
	}

	return runs, result.Err()
}

// emissionsValues lists the insert values of a row in emissionsColumns order.
func emissionsValues(row models.EmissionsRow) []any {
	return []any{
		row.NTDID, row.AgencyName, row.City, row.State, row.StateCode,
		string(row.Mode), row.UPT, row.PassengerMiles,
		row.DieselGal, row.GasolineGal, row.NaturalGasGal, row.PropaneGal,
		row.BunkerGal, row.EthanolGal, row.ElectricMWh,
		row.CO2LbsPerMWh, row.PrimarySource,
		row.DieselEmissions, row.GasolineEmissions, row.NaturalGasEmissions,
		row.PropaneEmissions, row.BunkerEmissions, row.EthanolEmissions,
		row.ElectricEmissions, row.TotalEmissions,
		row.EmissionsPerUPT, row.EmissionsPerMile, string(row.AgencySize),
		row.CarEmissions, row.EmissionsAvoided, row.ElectricShare, row.ElectricShareOK,
	}
}
