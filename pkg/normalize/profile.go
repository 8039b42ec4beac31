package normalize

import (
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/ntdcarbon/ntdcarbon/pkg/models"
	"github.com/ntdcarbon/ntdcarbon/pkg/sources"
)

// Item labels of the per-state profile documents.
const (
	itemCO2        = "carbon dioxide (lbs/mwh)"
	itemSource     = "primary energy source"
	itemPrice      = "average retail price (cents/kwh)"
	itemGeneration = "net generation (megawatthours)"
)

// Profiles converts the raw (state, item, value) table into one
// ElectricityProfile per state. Every field must parse and satisfy its
// invariant; a bad profile row fails the run rather than being zeroed.
func Profiles(table *sources.Table, logger log.Logger) ([]models.ElectricityProfile, error) {
	stateIdx, ok := table.Lookup("State")
	if !ok {
		return nil, &ValidationError{Entity: "profile", Key: "State", Err: fmt.Errorf("missing column")}
	}

	itemIdx, ok := table.Lookup("Item")
	if !ok {
		return nil, &ValidationError{Entity: "profile", Key: "Item", Err: fmt.Errorf("missing column")}
	}

	valueIdx, ok := table.Lookup("Value")
	if !ok {
		return nil, &ValidationError{Entity: "profile", Key: "Value", Err: fmt.Errorf("missing column")}
	}

	// Collect item values per state
	items := make(map[string]map[string]string)
	order := make([]string, 0, 50)

	for _, row := range table.Rows {
		state := table.Cell(row, stateIdx)
		if _, ok := items[state]; !ok {
			items[state] = make(map[string]string, 4)
			order = append(order, state)
		}

		items[state][table.Cell(row, itemIdx)] = table.Cell(row, valueIdx)
	}

	profiles := make([]models.ElectricityProfile, 0, len(order))

	for _, state := range order {
		profile, err := makeProfile(state, items[state])
		if err != nil {
			return nil, err
		}

		profiles = append(profiles, profile)
	}

	level.Debug(logger).Log("msg", "Normalized electricity profiles", "states", len(profiles))

	return profiles, nil
}

func makeProfile(state string, items map[string]string) (models.ElectricityProfile, error) {
	var profile models.ElectricityProfile

	code, ok := StateCode(state)
	if !ok {
		return profile, &ValidationError{Entity: "profile", Key: state, Err: fmt.Errorf("unrecognized state name")}
	}

	co2, err := parseNumber(items[itemCO2])
	if err != nil {
		return profile, &ValidationError{Entity: "profile", Key: state, Err: fmt.Errorf("co2 rate: %w", err)}
	}

	priceCents, err := parseNumber(items[itemPrice])
	if err != nil {
		return profile, &ValidationError{Entity: "profile", Key: state, Err: fmt.Errorf("retail price: %w", err)}
	}

	generation, err := parseNumber(items[itemGeneration])
	if err != nil {
		return profile, &ValidationError{Entity: "profile", Key: state, Err: fmt.Errorf("net generation: %w", err)}
	}

	primarySource := items[itemSource]
	if primarySource == "" {
		return profile, &ValidationError{Entity: "profile", Key: state, Err: fmt.Errorf("primary energy source: empty field")}
	}

	if co2 < 0 || priceCents < 0 || generation < 0 {
		return profile, &ValidationError{Entity: "profile", Key: state, Err: fmt.Errorf("negative quantity")}
	}

	return models.ElectricityProfile{
		State:         state,
		StateCode:     code,
		CO2LbsPerMWh:  co2,
		PrimarySource: primarySource,
		// Documents quote cents per kWh, the profile carries USD per MWh
		RetailPrice:   priceCents * 10,
		GenerationMWh: generation,
	}, nil
}
