package normalize

import (
	"errors"
	"testing"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntdcarbon/ntdcarbon/pkg/sources"
)

var serviceColumns = []string{"5 digit NTD ID", "Agency", "City", "State", "UPT", "MILES"}

func serviceTable(rows [][]string) *sources.Table {
	return &sources.Table{Columns: serviceColumns, Rows: rows}
}

func TestService(t *testing.T) {
	table := serviceTable([][]string{
		{"20008", "MTA New York City Transit", "New York", "ny", "1,793,073,801", "8,395,158,720"},
		{"90003", "San Francisco Municipal Railway", "San Francisco", "CA", "103,173,242", "237,165,946"},
	})

	result, err := Service(table, log.NewNopLogger())
	require.NoError(t, err)
	require.Len(t, result.Records, 2)

	mta := result.Records[0]
	assert.Equal(t, "20008", mta.NTDID)
	assert.Equal(t, "New York", mta.City)
	// State codes are uppercased
	assert.Equal(t, "NY", mta.StateCode)
	assert.Equal(t, int64(1793073801), mta.UPT)
	assert.InDelta(t, 8395158720.0, mta.PassengerMiles, 1e-9)
	assert.Equal(t, 0, result.ZeroMiles)
}

func TestServiceExcludesZeroMiles(t *testing.T) {
	table := serviceTable([][]string{
		{"40022", "Some Agency", "Town", "VT", "1000", "0"},
		{"40023", "Other Agency", "Town", "VT", "1000", "5000"},
	})

	result, err := Service(table, log.NewNopLogger())
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "40023", result.Records[0].NTDID)
	assert.Equal(t, 1, result.ZeroMiles)
}

func TestServiceUnparseableUPT(t *testing.T) {
	table := serviceTable([][]string{
		{"40022", "Some Agency", "Town", "VT", "n/a", "5000"},
	})

	_, err := Service(table, log.NewNopLogger())
	require.Error(t, err)

	var validationErr *ValidationError

	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "40022", validationErr.Key)
}

func TestServiceNegativeQuantity(t *testing.T) {
	table := serviceTable([][]string{
		{"40022", "Some Agency", "Town", "VT", "-1", "5000"},
	})

	_, err := Service(table, log.NewNopLogger())
	assert.Error(t, err)
}

func TestServiceMissingColumn(t *testing.T) {
	table := &sources.Table{Columns: []string{"Agency", "City"}}

	_, err := Service(table, log.NewNopLogger())
	assert.Error(t, err)
}
