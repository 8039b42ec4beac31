package normalize

import (
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/ntdcarbon/ntdcarbon/pkg/models"
	"github.com/ntdcarbon/ntdcarbon/pkg/sources"
)

// Fuel consumption columns of the energy workbook, in the order they map
// onto models.FuelConsumption. Electric propulsion is in kWh equivalents of
// MWh upstream; quantities are carried through unconverted.
var fuelColumns = []string{
	"Diesel Fuel",
	"Gasoline",
	"Compressed Natural Gas",
	"Liquefied Petroleum Gas",
	"Bunker Fuel",
	"Ethanol",
	"Electric Propulsion",
}

// Workbook columns that are intentionally dropped during normalization.
// Listed for documentation; unknown columns are ignored wholesale.
//
//	Reporter Type, Reporting Module, Other Fuel, Other Fuel Description

// EnergyResult is the outcome of normalizing the energy workbook, including
// the counts of every locally recovered condition.
type EnergyResult struct {
	Records      []models.EnergyRecord
	ZeroFilled   int // Consumption cells coerced to zero
	ZeroEnergy   int // Rows dropped for zero total consumption
	UnknownModes int // Rows whose mode code did not recode
}

// Energy converts the raw workbook table into one EnergyRecord per
// (agency, mode), summing duplicate (id, mode, name) triples field-wise and
// dropping rows whose total consumption is zero.
func Energy(table *sources.Table, logger log.Logger) (*EnergyResult, error) {
	idIdx, ok := table.Lookup("NTD ID")
	if !ok {
		return nil, &ValidationError{Entity: "energy", Key: "NTD ID", Err: fmt.Errorf("missing column")}
	}

	modeIdx, ok := table.Lookup("Mode")
	if !ok {
		return nil, &ValidationError{Entity: "energy", Key: "Mode", Err: fmt.Errorf("missing column")}
	}

	nameIdx, ok := table.Lookup("Agency Name")
	if !ok {
		return nil, &ValidationError{Entity: "energy", Key: "Agency Name", Err: fmt.Errorf("missing column")}
	}

	fuelIdx := make([]int, len(fuelColumns))
	for i, col := range fuelColumns {
		idx, ok := table.Lookup(col)
		if !ok {
			return nil, &ValidationError{Entity: "energy", Key: col, Err: fmt.Errorf("missing column")}
		}

		fuelIdx[i] = idx
	}

	result := &EnergyResult{}

	type key struct {
		id   string
		mode models.TransitMode
		name string
	}

	summed := make(map[key]models.FuelConsumption)
	order := make([]key, 0, len(table.Rows))

	for _, row := range table.Rows {
		mode, recognized := RecodeMode(table.Cell(row, modeIdx))
		if !recognized {
			result.UnknownModes++

			level.Warn(logger).Log("msg", "Unrecognized mode code recoded to Unknown",
				"code", table.Cell(row, modeIdx), "ntd_id", table.Cell(row, idIdx))
		}

		var fuels models.FuelConsumption

		quantities := [...]*float64{
			&fuels.Diesel, &fuels.Gasoline, &fuels.NaturalGas, &fuels.Propane,
			&fuels.Bunker, &fuels.Ethanol, &fuels.Electric,
		}

		for i, idx := range fuelIdx {
			quantity, zeroFilled := parseQuantity(table.Cell(row, idx))
			if zeroFilled {
				result.ZeroFilled++
			}

			if quantity < 0 {
				return nil, &ValidationError{
					Entity: "energy",
					Key:    table.Cell(row, idIdx),
					Err:    fmt.Errorf("negative quantity in column %q", fuelColumns[i]),
				}
			}

			*quantities[i] = quantity
		}

		k := key{id: table.Cell(row, idIdx), mode: mode, name: table.Cell(row, nameIdx)}
		if _, ok := summed[k]; !ok {
			order = append(order, k)
		}

		// Duplicate triples are repeated reporting periods; sum them field-wise
		summed[k] = summed[k].Add(fuels)
	}

	for _, k := range order {
		fuels := summed[k]
		if fuels.Total() == 0 {
			result.ZeroEnergy++

			continue
		}

		result.Records = append(result.Records, models.EnergyRecord{
			NTDID:      k.id,
			AgencyName: k.name,
			Mode:       k.mode,
			Fuels:      fuels,
		})
	}

	level.Debug(logger).Log("msg", "Normalized energy records", "records", len(result.Records),
		"zero_filled", result.ZeroFilled, "zero_energy", result.ZeroEnergy, "unknown_modes", result.UnknownModes)

	return result, nil
}
