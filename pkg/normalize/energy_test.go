package normalize

import (
	"errors"
	"testing"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntdcarbon/ntdcarbon/pkg/models"
	"github.com/ntdcarbon/ntdcarbon/pkg/sources"
)

var energyColumns = []string{
	"NTD ID", "Agency Name", "Mode",
	"Diesel Fuel", "Gasoline", "Compressed Natural Gas", "Liquefied Petroleum Gas",
	"Bunker Fuel", "Ethanol", "Electric Propulsion",
}

func energyTable(rows [][]string) *sources.Table {
	return &sources.Table{Columns: energyColumns, Rows: rows}
}

func TestEnergy(t *testing.T) {
	table := energyTable([][]string{
		{"20008", "MTA New York City Transit", "HR", "0", "0", "0", "0", "0", "0", "2,235,212"},
		{"20008", "MTA New York City Transit", "MB", "28,692,721", "0", "11,100", "0", "0", "0", "0"},
	})

	result, err := Energy(table, log.NewNopLogger())
	require.NoError(t, err)
	require.Len(t, result.Records, 2)

	hr := result.Records[0]
	assert.Equal(t, "20008", hr.NTDID)
	assert.Equal(t, models.ModeHeavyRail, hr.Mode)
	assert.InDelta(t, 2235212.0, hr.Fuels.Electric, 1e-9)

	mb := result.Records[1]
	assert.Equal(t, models.ModeMotorBus, mb.Mode)
	assert.InDelta(t, 28692721.0, mb.Fuels.Diesel, 1e-9)
	assert.InDelta(t, 11100.0, mb.Fuels.NaturalGas, 1e-9)

	assert.Equal(t, 0, result.ZeroFilled)
	assert.Equal(t, 0, result.ZeroEnergy)
	assert.Equal(t, 0, result.UnknownModes)
}

func TestEnergySumsDuplicates(t *testing.T) {
	table := energyTable([][]string{
		{"20008", "MTA New York City Transit", "HR", "100", "0", "0", "0", "0", "0", "50"},
		{"20008", "MTA New York City Transit", "HR", "200", "0", "0", "0", "0", "0", "25"},
	})

	result, err := Energy(table, log.NewNopLogger())
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.InDelta(t, 300.0, result.Records[0].Fuels.Diesel, 1e-9)
	assert.InDelta(t, 75.0, result.Records[0].Fuels.Electric, 1e-9)
}

func TestEnergyZeroFill(t *testing.T) {
	table := energyTable([][]string{
		{"40022", "Some Agency", "MB", "1000", "", "not a number", "0", "0", "0", "0"},
	})

	result, err := Energy(table, log.NewNopLogger())
	require.NoError(t, err)
	require.Len(t, result.Records, 1)

	// Empty and unparseable cells coerce to zero and are counted
	assert.Equal(t, 2, result.ZeroFilled)
	assert.InDelta(t, 1000.0, result.Records[0].Fuels.Diesel, 1e-9)
	assert.InDelta(t, 0.0, result.Records[0].Fuels.Gasoline, 1e-9)
}

func TestEnergyDropsZeroRows(t *testing.T) {
	table := energyTable([][]string{
		{"40022", "Some Agency", "MB", "0", "0", "0", "0", "0", "0", "0"},
		{"40023", "Other Agency", "MB", "100", "0", "0", "0", "0", "0", "0"},
	})

	result, err := Energy(table, log.NewNopLogger())
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "40023", result.Records[0].NTDID)
	assert.Equal(t, 1, result.ZeroEnergy)
}

func TestEnergyUnknownMode(t *testing.T) {
	table := energyTable([][]string{
		{"40022", "Some Agency", "FB", "100", "0", "0", "0", "0", "0", "0"},
	})

	result, err := Energy(table, log.NewNopLogger())
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, models.ModeUnknown, result.Records[0].Mode)
	assert.Equal(t, 1, result.UnknownModes)
}

func TestEnergyNegativeQuantity(t *testing.T) {
	table := energyTable([][]string{
		{"40022", "Some Agency", "MB", "-100", "0", "0", "0", "0", "0", "0"},
	})

	_, err := Energy(table, log.NewNopLogger())
	require.Error(t, err)

	var validationErr *ValidationError

	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "40022", validationErr.Key)
}

func TestEnergyMissingFuelColumn(t *testing.T) {
	table := &sources.Table{
		Columns: []string{"NTD ID", "Agency Name", "Mode", "Diesel Fuel"},
		Rows:    [][]string{{"40022", "Some Agency", "MB", "100"}},
	}

	_, err := Energy(table, log.NewNopLogger())
	assert.Error(t, err)
}
