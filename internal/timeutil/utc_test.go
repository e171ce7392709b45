package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateIsUTC(t *testing.T) {
	d, err := ParseDate("2026-03-15")
	require.NoError(t, err)

	assert.Equal(t, time.UTC, d.Location())
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 15, d.Day())
}

func TestStartAndEndOfDayBracketTheDay(t *testing.T) {
	loc := time.FixedZone("HKT", 8*3600)
	at := time.Date(2026, 3, 15, 23, 30, 0, 0, loc) // 15:30 UTC

	start := StartOfDay(at)
	end := EndOfDay(at)

	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 15, end.Day())
	assert.Equal(t, 23, end.Hour())
	assert.True(t, end.After(start))
	assert.True(t, end.Before(start.AddDate(0, 0, 1)))
}

func TestToUTCNormalizesZone(t *testing.T) {
	loc := time.FixedZone("HKT", 8*3600)
	at := time.Date(2026, 3, 15, 8, 0, 0, 0, loc)

	got := ToUTC(at)

	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, 0, got.Hour())
	assert.True(t, got.Equal(at))
}
