package normalize

import (
	"strings"

	"github.com/ntdcarbon/ntdcarbon/pkg/models"
)

// modeLabels recodes NTD mode codes into descriptive labels. Codes evolve
// upstream, so anything outside this table recodes to Unknown instead of
// failing the run.
var modeLabels = map[string]models.TransitMode{
	"HR": models.ModeHeavyRail,
	"MB": models.ModeMotorBus,
	"CR": models.ModeCommuterRail,
	"LR": models.ModeLightRail,
	"RB": models.ModeRapidBus,
	"TB": models.ModeTrolleybus,
	"CC": models.ModeCableCar,
	"SR": models.ModeStreetcar,
	"VP": models.ModeVanpool,
	"DR": models.ModeDemandResponse,
}

// RecodeMode returns the descriptive label of an NTD mode code and whether
// the code was recognized.
func RecodeMode(code string) (models.TransitMode, bool) {
	if mode, ok := modeLabels[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return mode, true
	}

	return models.ModeUnknown, false
}
