// Package emissions computes per-fuel and total CO2 emissions for joined
// transit rows, tying electric propulsion to the state grid rate
package emissions

// Fuel enumerates the propulsion energy types of the NTD energy workbook.
type Fuel int

// The six combustion fuels plus electric propulsion. The set is closed and
// known at design time.
const (
	Diesel Fuel = iota
	Gasoline
	NaturalGas
	Propane
	Bunker
	Ethanol
	Electric
)

// factors holds the fixed emission factors in pounds CO2 per gallon.
// Electric propulsion has no fixed factor: its emissions follow the CO2 per
// MWh rate of the state grid the agency draws from.
var factors = [...]float64{
	Diesel:     22.4,
	Gasoline:   19.6,
	NaturalGas: 11.7,
	Propane:    12.7,
	Bunker:     26.0,
	Ethanol:    12.5,
	Electric:   0,
}

// Factor returns the fixed emission factor of a combustion fuel. It is zero
// for Electric.
func Factor(f Fuel) float64 {
	return factors[f]
}

// Private car equivalence constants: a fleet-average 25 miles per gallon at
// the gasoline factor of 19.6 lbs CO2 per gallon.
const (
	carMilesPerGallon  = 25.0
	carLbsCO2PerGallon = 19.6
)

// CarEmissions returns the hypothetical emissions of covering the given
// passenger miles by private car.
func CarEmissions(miles float64) float64 {
	return miles / carMilesPerGallon * carLbsCO2PerGallon
}
