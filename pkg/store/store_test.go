package store

import (
	"testing"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntdcarbon/ntdcarbon/pkg/models"
)

func testRows() []models.EmissionsRow {
	return []models.EmissionsRow{
		{
			NTDID: "20008", AgencyName: "MTA New York City Transit", City: "New York",
			State: "New York", StateCode: "NY", Mode: models.ModeHeavyRail,
			UPT: 1_793_073_801, PassengerMiles: 8_395_158_720,
			ElectricMWh: 2_235_212, CO2LbsPerMWh: 414, PrimarySource: "Natural Gas",
			ElectricEmissions: 925_377_768, TotalEmissions: 925_377_768,
			EmissionsPerUPT: 0.516, EmissionsPerMile: 0.11, AgencySize: models.SizeLarge,
			CarEmissions: 6_581_804_436_480, EmissionsAvoided: 6_580_879_058_712,
			ElectricShare: 1, ElectricShareOK: true,
		},
		{
			NTDID: "40022", AgencyName: "Smalltown Transit", City: "Smalltown",
			State: "Vermont", StateCode: "VT", Mode: models.ModeMotorBus,
			UPT: 1000, PassengerMiles: 5000, DieselGal: 100,
			CO2LbsPerMWh: 13, PrimarySource: "Hydroelectric",
			DieselEmissions: 2240, TotalEmissions: 2240,
			EmissionsPerUPT: 2.24, EmissionsPerMile: 0.448, AgencySize: models.SizeSmall,
			CarEmissions: 3920, EmissionsAvoided: 1680,
			ElectricShare: 0, ElectricShareOK: true,
		},
	}
}

func testRun() models.Run {
	return models.Run{
		UUID:      "01020304-0506-0708-090a-0b0c0d0e0f10",
		StartedAt: "2026-08-30T10:00:00Z",
		EndedAt:   "2026-08-30T10:05:00Z",
		NumRows:   2, NumZeroFilled: 3, NumZeroEnergy: 1, NumZeroMiles: 2,
		NumUnknownModes: 1, NumUndefined: 1, NumUnjoined: 4,
	}
}

func testStore(t *testing.T) *Store {
	t.Helper()

	store, err := New(t.TempDir(), log.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func TestStoreRoundTrip(t *testing.T) {
	store := testStore(t)
	rows := testRows()

	require.NoError(t, store.SaveOutcome(testRun(), rows))

	persisted, err := store.Emissions()
	require.NoError(t, err)
	require.Len(t, persisted, 2)

	for i := range persisted {
		// The autoincrement key is assigned by the DB
		assert.Equal(t, int64(i+1), persisted[i].ID)

		persisted[i].ID = 0
		assert.Equal(t, rows[i], persisted[i])
	}
}

func TestStoreReplacesEmissions(t *testing.T) {
	store := testStore(t)
	rows := testRows()

	require.NoError(t, store.SaveOutcome(testRun(), rows))

	// A second run replaces the table but appends its run record
	second := testRun()
	second.UUID = "11121314-1516-1718-191a-1b1c1d1e1f20"
	second.NumRows = 1

	require.NoError(t, store.SaveOutcome(second, rows[:1]))

	persisted, err := store.Emissions()
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.Equal(t, "20008", persisted[0].NTDID)

	runs, err := store.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first
	assert.Equal(t, second.UUID, runs[0].UUID)
	assert.Equal(t, int64(1), runs[0].NumRows)
	assert.Equal(t, testRun().UUID, runs[1].UUID)
}

func TestStoreRunRecord(t *testing.T) {
	store := testStore(t)

	require.NoError(t, store.SaveOutcome(testRun(), nil))

	runs, err := store.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	run.ID = 0
	assert.Equal(t, testRun(), run)
}

func TestStoreEmptyEmissions(t *testing.T) {
	store := testStore(t)

	persisted, err := store.Emissions()
	require.NoError(t, err)
	assert.Empty(t, persisted)
}
