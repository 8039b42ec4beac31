package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFuelConsumptionTotal(t *testing.T) {
	fuels := FuelConsumption{Diesel: 1, Gasoline: 2, NaturalGas: 3, Propane: 4, Bunker: 5, Ethanol: 6, Electric: 7}
	assert.InDelta(t, 28.0, fuels.Total(), 1e-9)
	assert.InDelta(t, 0.0, FuelConsumption{}.Total(), 1e-9)
}

func TestFuelConsumptionAdd(t *testing.T) {
	a := FuelConsumption{Diesel: 1, Electric: 2}
	b := FuelConsumption{Diesel: 10, Gasoline: 5}

	sum := a.Add(b)
	assert.InDelta(t, 11.0, sum.Diesel, 1e-9)
	assert.InDelta(t, 5.0, sum.Gasoline, 1e-9)
	assert.InDelta(t, 2.0, sum.Electric, 1e-9)
}

func TestEmissionsRowFuels(t *testing.T) {
	row := EmissionsRow{
		DieselGal: 1, GasolineGal: 2, NaturalGasGal: 3, PropaneGal: 4,
		BunkerGal: 5, EthanolGal: 6, ElectricMWh: 7,
	}

	fuels := row.Fuels()
	assert.Equal(t, FuelConsumption{Diesel: 1, Gasoline: 2, NaturalGas: 3, Propane: 4, Bunker: 5, Ethanol: 6, Electric: 7}, fuels)
}

func TestEmissionsRowTags(t *testing.T) {
	row := EmissionsRow{}
	assert.Equal(t, "emissions", row.TableName())

	cols := row.TagNames("sql")
	assert.Equal(t, "id", cols[0])
	assert.Contains(t, cols, "total_emissions")
	assert.Contains(t, cols, "electric_share_ok")
	assert.Len(t, cols, 33)
}

func TestRunTags(t *testing.T) {
	run := Run{}
	assert.Equal(t, "runs", run.TableName())
	assert.Len(t, run.TagNames("sql"), 11)
}
