package pipeline

import (
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/ntdcarbon/ntdcarbon/pkg/emissions"
	"github.com/ntdcarbon/ntdcarbon/pkg/models"
)

// JoinResult holds the joined rows and the count of rows dropped for a
// missing join target.
type JoinResult struct {
	Inputs   []emissions.Input
	Unjoined int
}

// Join combines the three normalized tables into one joined row per
// (agency, mode). The agency join runs first since agency is the more
// selective key and anchors row identity; the state join is a left join
// whose misses keep a nil profile instead of dropping the row.
func Join(
	services []models.ServiceRecord,
	energies []models.EnergyRecord,
	profiles []models.ElectricityProfile,
	logger log.Logger,
) *JoinResult {
	energyByAgency := make(map[string][]models.EnergyRecord, len(energies))
	for _, energy := range energies {
		energyByAgency[energy.NTDID] = append(energyByAgency[energy.NTDID], energy)
	}

	profileByState := make(map[string]models.ElectricityProfile, len(profiles))
	for _, profile := range profiles {
		profileByState[profile.StateCode] = profile
	}

	matchedEnergies := 0
	result := &JoinResult{}

	for _, service := range services {
		records, ok := energyByAgency[service.NTDID]
		if !ok {
			// Inner-join semantics: a service agency without energy records
			// carries no consumption signal
			result.Unjoined++

			continue
		}

		matchedEnergies += len(records)

		for _, energy := range records {
			input := emissions.Input{Service: service, Energy: energy}

			if profile, ok := profileByState[service.StateCode]; ok {
				input.Profile = &profile
			} else {
				level.Warn(logger).Log("msg", "No electricity profile for state",
					"state", service.StateCode, "ntd_id", service.NTDID)
			}

			result.Inputs = append(result.Inputs, input)
		}
	}

	// Energy rows whose agency has no service record drop out as well
	result.Unjoined += len(energies) - matchedEnergies

	level.Debug(logger).Log("msg", "Joined tables", "rows", len(result.Inputs), "unjoined", result.Unjoined)

	return result
}
