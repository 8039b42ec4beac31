// Package awards buckets emissions rows by agency size and selects the
// extremal rows reported by the pipeline
package awards

import (
	"sort"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"gonum.org/v1/gonum/stat"

	"github.com/ntdcarbon/ntdcarbon/pkg/models"
)

// Size tier thresholds in annual unlinked passenger trips. A tie at a
// boundary goes to the higher tier.
const (
	mediumThreshold = 1_000_000
	largeThreshold  = 100_000_000
)

// SizeTier buckets an agency by its annual unlinked passenger trips.
func SizeTier(upt int64) models.AgencySize {
	switch {
	case upt >= largeThreshold:
		return models.SizeLarge
	case upt >= mediumThreshold:
		return models.SizeMedium
	default:
		return models.SizeSmall
	}
}

// Classify fills the size tier of every row in place.
func Classify(rows []models.EmissionsRow) {
	for i := range rows {
		rows[i].AgencySize = SizeTier(rows[i].UPT)
	}
}

// Summary holds the award winners and the median context metrics. Winners
// are nil when no row qualifies. Selection is deterministic: ties keep the
// first row in input order.
type Summary struct {
	Greenest        *models.EmissionsRow // Minimum emissions per mile
	MostAvoided     *models.EmissionsRow // Maximum emissions avoided
	BestElectrified *models.EmissionsRow // Maximum electric share
	WorstPolluter   *models.EmissionsRow // Maximum emissions per mile
	// Medians across all valid rows, reported as context only
	MedianEmissionsPerMile float64
	MedianEmissionsAvoided float64
}

// Select picks the award rows from the finished emissions table.
func Select(rows []models.EmissionsRow, logger log.Logger) *Summary {
	summary := &Summary{}

	for i := range rows {
		row := &rows[i]

		if summary.Greenest == nil || row.EmissionsPerMile < summary.Greenest.EmissionsPerMile {
			summary.Greenest = row
		}

		if summary.MostAvoided == nil || row.EmissionsAvoided > summary.MostAvoided.EmissionsAvoided {
			summary.MostAvoided = row
		}

		if summary.WorstPolluter == nil || row.EmissionsPerMile > summary.WorstPolluter.EmissionsPerMile {
			summary.WorstPolluter = row
		}

		// Rows with an undefined share do not compete for electrification
		if row.ElectricShareOK {
			if summary.BestElectrified == nil || row.ElectricShare > summary.BestElectrified.ElectricShare {
				summary.BestElectrified = row
			}
		}
	}

	if len(rows) > 0 {
		summary.MedianEmissionsPerMile = median(rows, func(r models.EmissionsRow) float64 { return r.EmissionsPerMile })
		summary.MedianEmissionsAvoided = median(rows, func(r models.EmissionsRow) float64 { return r.EmissionsAvoided })
	}

	level.Debug(logger).Log("msg", "Selected awards", "rows", len(rows),
		"median_emissions_per_mile", summary.MedianEmissionsPerMile,
		"median_emissions_avoided", summary.MedianEmissionsAvoided)

	return summary
}

func median(rows []models.EmissionsRow, metric func(models.EmissionsRow) float64) float64 {
	values := make([]float64, len(rows))
	for i, row := range rows {
		values[i] = metric(row)
	}

	sort.Float64s(values)

	return stat.Quantile(0.5, stat.Empirical, values, nil)
}
