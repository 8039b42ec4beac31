package pipeline

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"github.com/ntdcarbon/ntdcarbon/pkg/models"
	"github.com/ntdcarbon/ntdcarbon/pkg/sources"
)

const testProfileDocument = `Full Name,New York
Carbon Dioxide (lbs/MWh),414
Primary energy source,Natural Gas
Average retail price (cents/kWh),16.11
Net generation (megawatthours),"124,311,166"
`

const testServiceDocument = `5 digit NTD ID,Agency,City,State,UPT,MILES
20008,MTA New York City Transit,New York,NY,"1,793,073,801","8,395,158,720"
40022,Ghost Agency,Smalltown,NY,1000,5000
40023,Parked Agency,Smalltown,NY,1000,0
`

func testEnergyWorkbook(t *testing.T) []byte {
	t.Helper()

	rows := [][]string{
		{
			"NTD ID", "Agency Name", "Mode", "Diesel Fuel", "Gasoline",
			"Compressed Natural Gas", "Liquefied Petroleum Gas", "Bunker Fuel",
			"Ethanol", "Electric Propulsion",
		},
		{"20008", "MTA New York City Transit", "HR", "0", "0", "0", "0", "0", "0", "2,235,212"},
		{"20008", "MTA New York City Transit", "MB", "28,692,721", "0", "0", "0", "0", "0", "0"},
		{"99999", "Orphan Agency", "MB", "100", "0", "0", "0", "0", "0", "0"},
	}

	file := xlsx.NewFile()

	sheet, err := file.AddSheet("Energy Consumption")
	require.NoError(t, err)

	for _, cells := range rows {
		row := sheet.AddRow()
		for _, cell := range cells {
			row.AddCell().SetString(cell)
		}
	}

	var buf bytes.Buffer

	require.NoError(t, file.Write(&buf))

	return buf.Bytes()
}

func testPipeline(t *testing.T) *Pipeline {
	t.Helper()

	workbook := testEnergyWorkbook(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/profile/"):
			w.Write([]byte(testProfileDocument)) //nolint:errcheck
		case r.URL.Path == "/energy.xlsx":
			w.Write(workbook) //nolint:errcheck
		case r.URL.Path == "/service.csv":
			w.Write([]byte(testServiceDocument)) //nolint:errcheck
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	pipeline, err := New(Config{
		Logger: log.NewNopLogger(),
		Sources: sources.Config{
			CacheDir:   t.TempDir(),
			ProfileURL: server.URL + "/profile/{state}.csv",
			EnergyURL:  server.URL + "/energy.xlsx",
			ServiceURL: server.URL + "/service.csv",
			States:     []string{"New York"},
			Client:     server.Client(),
		},
	})
	require.NoError(t, err)

	return pipeline
}

func TestPipelineRun(t *testing.T) {
	pipeline := testPipeline(t)

	outcome, err := pipeline.Run(context.Background())
	require.NoError(t, err)

	// Two joined (agency, mode) rows survive: MTA heavy rail and motor bus
	require.Len(t, outcome.Rows, 2)

	hr := outcome.Rows[0]
	assert.Equal(t, "20008", hr.NTDID)
	assert.Equal(t, models.ModeHeavyRail, hr.Mode)
	assert.Equal(t, "New York", hr.State)
	assert.Equal(t, models.SizeLarge, hr.AgencySize)
	assert.InDelta(t, 2235212.0*414, hr.ElectricEmissions, 1e-3)
	assert.InDelta(t, 2235212.0*414, hr.TotalEmissions, 1e-3)

	mb := outcome.Rows[1]
	assert.Equal(t, models.ModeMotorBus, mb.Mode)
	assert.InDelta(t, 28692721.0*22.4, mb.DieselEmissions, 1e-3)

	require.NotNil(t, outcome.Summary.Greenest)
	require.NotNil(t, outcome.Summary.WorstPolluter)

	// Ghost Agency has no energy rows, Orphan Agency no service row
	run := outcome.Run
	assert.Equal(t, int64(2), run.NumRows)
	assert.Equal(t, int64(2), run.NumUnjoined)
	assert.Equal(t, int64(1), run.NumZeroMiles)
	assert.Equal(t, int64(0), run.NumZeroEnergy)
	assert.Equal(t, int64(0), run.NumUnknownModes)
	assert.NotEmpty(t, run.UUID)
	assert.NotEmpty(t, run.StartedAt)
}

func TestPipelineRunFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	pipeline, err := New(Config{
		Logger: log.NewNopLogger(),
		Sources: sources.Config{
			CacheDir:   t.TempDir(),
			ProfileURL: server.URL + "/profile/{state}.csv",
			EnergyURL:  server.URL + "/energy.xlsx",
			ServiceURL: server.URL + "/service.csv",
			States:     []string{"New York"},
			Client:     server.Client(),
		},
	})
	require.NoError(t, err)

	_, err = pipeline.Run(context.Background())
	assert.Error(t, err)
}
