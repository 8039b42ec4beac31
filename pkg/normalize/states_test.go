package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateCode(t *testing.T) {
	code, ok := StateCode("New York")
	require.True(t, ok)
	assert.Equal(t, "NY", code)

	// Case-insensitive with surrounding whitespace
	code, ok = StateCode("  california ")
	require.True(t, ok)
	assert.Equal(t, "CA", code)

	_, ok = StateCode("Puerto Rico")
	assert.False(t, ok)

	_, ok = StateCode("")
	assert.False(t, ok)
}

func TestStateNames(t *testing.T) {
	names := StateNames()
	require.Len(t, names, 50)

	// Sorted ascending
	assert.Equal(t, "Alabama", names[0])
	assert.Equal(t, "Wyoming", names[49])
}
