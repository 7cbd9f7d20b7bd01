package wallclock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffjoy/shiftsolve/internal/shiftsolve"
)

func TestConvertPlacesShiftOnCorrectDayAndBucket(t *testing.T) {
	loc, err := time.LoadLocation("UTC")
	require.NoError(t, err)

	weekStart := time.Date(2026, time.March, 2, 0, 0, 0, 0, loc) // a Monday
	got := Convert(2 /* Wednesday */, 9, 8, weekStart, loc, 60)

	assert.Equal(t, time.March, got.Start.Month())
	assert.Equal(t, 4, got.Start.Day())
	assert.Equal(t, 9, got.Start.Hour())
	assert.Equal(t, 17, got.End.Hour())
}

func TestConvertAllMapsEveryShift(t *testing.T) {
	loc, err := time.LoadLocation("UTC")
	require.NoError(t, err)
	weekStart := time.Date(2026, time.March, 2, 0, 0, 0, 0, loc)

	shifts := []shiftsolve.DayShift{
		{Day: 0, Start: 0, Length: 8},
		{Day: 1, Start: 8, Length: 8},
	}
	got := ConvertAll(shifts, weekStart, loc, 60)
	require.Len(t, got, 2)
	assert.True(t, got[1].Start.After(got[0].Start))
}
