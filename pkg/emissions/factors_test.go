package emissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFactor(t *testing.T) {
	assert.InDelta(t, 22.4, Factor(Diesel), 1e-9)
	assert.InDelta(t, 19.6, Factor(Gasoline), 1e-9)
	assert.InDelta(t, 11.7, Factor(NaturalGas), 1e-9)
	assert.InDelta(t, 12.7, Factor(Propane), 1e-9)
	assert.InDelta(t, 26.0, Factor(Bunker), 1e-9)
	assert.InDelta(t, 12.5, Factor(Ethanol), 1e-9)
	assert.InDelta(t, 0.0, Factor(Electric), 1e-9)
}

func TestCarEmissions(t *testing.T) {
	// One gallon worth of driving emits the gasoline factor
	assert.InDelta(t, 19.6, CarEmissions(25), 1e-9)
	assert.InDelta(t, 784000.0, CarEmissions(1000000), 1e-6)
	assert.InDelta(t, 0.0, CarEmissions(0), 1e-9)
}
