package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace of all pipeline metrics.
const Namespace = "ntdcarbon"

// Counts is the plain tally of every recovered condition of one run. It is
// embedded into the run record persisted alongside the emissions table.
type Counts struct {
	ZeroFilled   int64
	ZeroEnergy   int64
	ZeroMiles    int64
	UnknownModes int64
	Unjoined     int64
	Undefined    int64
	OutputRows   int64
}

// Diagnostics counts every locally recovered condition of a pipeline run so
// correctness regressions stay observable without re-deriving by hand. Each
// count is also exposed as a prometheus metric on a per-run registry.
type Diagnostics struct {
	registry *prometheus.Registry
	counts   Counts

	zeroFilledCells prometheus.Counter
	zeroEnergyRows  prometheus.Counter
	zeroMileRows    prometheus.Counter
	unknownModeRows prometheus.Counter
	unjoinedRows    prometheus.Counter
	undefinedRows   prometheus.Counter
	outputRows      prometheus.Gauge
}

// NewDiagnostics creates a fresh per-run metric registry.
func NewDiagnostics() *Diagnostics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Diagnostics{
		registry: registry,
		zeroFilledCells: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace, Subsystem: "normalize", Name: "zero_filled_cells_total",
			Help: "Consumption cells coerced to zero during normalization.",
		}),
		zeroEnergyRows: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace, Subsystem: "normalize", Name: "zero_energy_rows_total",
			Help: "Energy rows dropped for zero total consumption.",
		}),
		zeroMileRows: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace, Subsystem: "normalize", Name: "zero_mile_rows_total",
			Help: "Service rows excluded for zero passenger miles.",
		}),
		unknownModeRows: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace, Subsystem: "normalize", Name: "unknown_mode_rows_total",
			Help: "Rows whose mode code recoded to Unknown.",
		}),
		unjoinedRows: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace, Subsystem: "join", Name: "unjoined_rows_total",
			Help: "Rows dropped for a missing join target.",
		}),
		undefinedRows: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace, Subsystem: "emissions", Name: "undefined_metric_rows_total",
			Help: "Rows excluded for non-finite derived metrics.",
		}),
		outputRows: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace, Subsystem: "pipeline", Name: "output_rows",
			Help: "Rows in the final emissions table.",
		}),
	}
}

// Registry returns the prometheus registry holding the run metrics.
func (d *Diagnostics) Registry() *prometheus.Registry {
	return d.registry
}

// Counts returns the plain tally of the run.
func (d *Diagnostics) Counts() Counts {
	return d.counts
}

// AddZeroFilled counts consumption cells coerced to zero.
func (d *Diagnostics) AddZeroFilled(n int) {
	d.counts.ZeroFilled += int64(n)
	d.zeroFilledCells.Add(float64(n))
}

// AddZeroEnergy counts energy rows dropped for zero total consumption.
func (d *Diagnostics) AddZeroEnergy(n int) {
	d.counts.ZeroEnergy += int64(n)
	d.zeroEnergyRows.Add(float64(n))
}

// AddZeroMiles counts service rows excluded for zero passenger miles.
func (d *Diagnostics) AddZeroMiles(n int) {
	d.counts.ZeroMiles += int64(n)
	d.zeroMileRows.Add(float64(n))
}

// AddUnknownModes counts rows whose mode code recoded to Unknown.
func (d *Diagnostics) AddUnknownModes(n int) {
	d.counts.UnknownModes += int64(n)
	d.unknownModeRows.Add(float64(n))
}

// AddUnjoined counts rows dropped for a missing join target.
func (d *Diagnostics) AddUnjoined(n int) {
	d.counts.Unjoined += int64(n)
	d.unjoinedRows.Add(float64(n))
}

// AddUndefined counts rows excluded for non-finite derived metrics.
func (d *Diagnostics) AddUndefined(n int) {
	d.counts.Undefined += int64(n)
	d.undefinedRows.Add(float64(n))
}

// SetOutputRows records the size of the final emissions table.
func (d *Diagnostics) SetOutputRows(n int) {
	d.counts.OutputRows = int64(n)
	d.outputRows.Set(float64(n))
}
