package emissions

import (
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/ntdcarbon/ntdcarbon/internal/common"
	"github.com/ntdcarbon/ntdcarbon/pkg/models"
)

// Input is one joined (agency, mode) row before derivation. Profile is nil
// when the state left-join found no electricity profile.
type Input struct {
	Service models.ServiceRecord
	Energy  models.EnergyRecord
	Profile *models.ElectricityProfile
}

// Result holds the derived rows and the count of rows excluded for
// non-finite metrics. Excluded rows never reach the output.
type Result struct {
	Rows      []models.EmissionsRow
	Undefined int
}

// Calculate derives emissions metrics for every joined row, preserving input
// order. Rows whose per-UPT or per-mile ratios are non-finite, or whose
// electric component cannot be priced for lack of a state profile, are
// excluded and counted.
func Calculate(inputs []Input, logger log.Logger) *Result {
	result := &Result{Rows: make([]models.EmissionsRow, 0, len(inputs))}

	for _, input := range inputs {
		row, ok := derive(input)
		if !ok {
			result.Undefined++

			level.Warn(logger).Log("msg", "Row excluded for undefined metrics",
				"ntd_id", input.Service.NTDID, "mode", input.Energy.Mode)

			continue
		}

		result.Rows = append(result.Rows, row)
	}

	if result.Undefined > 0 {
		level.Info(logger).Log("msg", "Rows excluded for undefined metrics", "rows", result.Undefined)
	}

	return result
}

func derive(input Input) (models.EmissionsRow, bool) {
	fuels := input.Energy.Fuels

	row := models.EmissionsRow{
		NTDID:          input.Service.NTDID,
		AgencyName:     input.Service.AgencyName,
		City:           input.Service.City,
		StateCode:      input.Service.StateCode,
		Mode:           input.Energy.Mode,
		UPT:            input.Service.UPT,
		PassengerMiles: input.Service.PassengerMiles,
		DieselGal:      fuels.Diesel,
		GasolineGal:    fuels.Gasoline,
		NaturalGasGal:  fuels.NaturalGas,
		PropaneGal:     fuels.Propane,
		BunkerGal:      fuels.Bunker,
		EthanolGal:     fuels.Ethanol,
		ElectricMWh:    fuels.Electric,
	}

	if input.Profile != nil {
		row.State = input.Profile.State
		row.CO2LbsPerMWh = input.Profile.CO2LbsPerMWh
		row.PrimarySource = input.Profile.PrimarySource
	} else if fuels.Electric > 0 {
		// Electric consumption cannot be priced without a grid rate, which
		// makes the total and every ratio derived from it undefined
		return row, false
	}

	row.DieselEmissions = fuels.Diesel * Factor(Diesel)
	row.GasolineEmissions = fuels.Gasoline * Factor(Gasoline)
	row.NaturalGasEmissions = fuels.NaturalGas * Factor(NaturalGas)
	row.PropaneEmissions = fuels.Propane * Factor(Propane)
	row.BunkerEmissions = fuels.Bunker * Factor(Bunker)
	row.EthanolEmissions = fuels.Ethanol * Factor(Ethanol)
	row.ElectricEmissions = fuels.Electric * row.CO2LbsPerMWh

	row.TotalEmissions = row.DieselEmissions + row.GasolineEmissions +
		row.NaturalGasEmissions + row.PropaneEmissions + row.BunkerEmissions +
		row.EthanolEmissions + row.ElectricEmissions

	row.EmissionsPerUPT = row.TotalEmissions / float64(row.UPT)
	row.EmissionsPerMile = row.TotalEmissions / row.PassengerMiles

	// Zero-UPT and zero-mile rows are filtered upstream; if one slips
	// through the ratios go non-finite and the row is excluded here
	if !common.IsFinite(row.EmissionsPerUPT) || !common.IsFinite(row.EmissionsPerMile) {
		return row, false
	}

	row.CarEmissions = CarEmissions(row.PassengerMiles)
	row.EmissionsAvoided = row.CarEmissions - row.TotalEmissions

	// The share denominator spans all seven fuel columns, electric included
	if total := fuels.Total(); total > 0 {
		row.ElectricShare = fuels.Electric / total
		row.ElectricShareOK = true
	}

	return row, true
}
