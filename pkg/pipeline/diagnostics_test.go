package pipeline

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestDiagnosticsCounts(t *testing.T) {
	diagnostics := NewDiagnostics()

	diagnostics.AddZeroFilled(3)
	diagnostics.AddZeroFilled(2)
	diagnostics.AddZeroEnergy(1)
	diagnostics.AddZeroMiles(4)
	diagnostics.AddUnknownModes(5)
	diagnostics.AddUnjoined(6)
	diagnostics.AddUndefined(7)
	diagnostics.SetOutputRows(42)

	counts := diagnostics.Counts()
	assert.Equal(t, int64(5), counts.ZeroFilled)
	assert.Equal(t, int64(1), counts.ZeroEnergy)
	assert.Equal(t, int64(4), counts.ZeroMiles)
	assert.Equal(t, int64(5), counts.UnknownModes)
	assert.Equal(t, int64(6), counts.Unjoined)
	assert.Equal(t, int64(7), counts.Undefined)
	assert.Equal(t, int64(42), counts.OutputRows)

	// Prometheus metrics track the same tallies
	assert.InDelta(t, 5.0, testutil.ToFloat64(diagnostics.zeroFilledCells), 1e-9)
	assert.InDelta(t, 42.0, testutil.ToFloat64(diagnostics.outputRows), 1e-9)
}

func TestDiagnosticsRegistry(t *testing.T) {
	diagnostics := NewDiagnostics()
	assert.NotNil(t, diagnostics.Registry())

	// Two pipelines must not share a registry
	other := NewDiagnostics()
	assert.NotSame(t, diagnostics.Registry(), other.Registry())
}
