package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSessionDate(t *testing.T) {
	d, err := ParseSessionDate("2024-03-11")
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 11, d.Day())
	assert.Equal(t, time.UTC, d.Location())

	// Equal calendar days parse to equal instants.
	again, err := ParseSessionDate("2024-03-11")
	require.NoError(t, err)
	assert.True(t, d.Equal(again))

	_, err = ParseSessionDate("11/03/2024")
	assert.ErrorIs(t, err, ErrInvalidDate)
	_, err = ParseSessionDate("")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDateOnly(t *testing.T) {
	ts := time.Date(2024, 3, 11, 17, 45, 12, 0, time.FixedZone("UTC+8", 8*3600))
	day := DateOnly(ts)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), day)
}

func TestMustParseUint(t *testing.T) {
	assert.EqualValues(t, 42, MustParseUint("42"))
	assert.EqualValues(t, 0, MustParseUint("not-a-number"))
	assert.EqualValues(t, 0, MustParseUint(""))
}
