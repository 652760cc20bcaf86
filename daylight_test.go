package risetrans

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaylightHours(t *testing.T) {
	locPHX := mustLoad(t, "America/Phoenix")

	tests := []struct {
		name         string
		date         time.Time
		wantMinHours float64
		wantMaxHours float64
	}{
		{"Phoenix Summer Solstice", time.Date(2025, time.June, 21, 0, 0, 0, 0, locPHX), 14.0, 14.5},
		{"Phoenix Winter Solstice", time.Date(2025, time.December, 21, 0, 0, 0, 0, locPHX), 9.8, 10.2},
		{"Phoenix Spring Equinox", time.Date(2025, time.March, 20, 0, 0, 0, 0, locPHX), 11.9, 12.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hours, err := DaylightHours(phoenix, tt.date)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, hours, tt.wantMinHours)
			assert.LessOrEqual(t, hours, tt.wantMaxHours)
		})
	}
}

func TestDaylightHoursEquator(t *testing.T) {
	quito := Coordinates{Lat: -0.1807, Lon: -78.4678}
	locQuito := mustLoad(t, "America/Guayaquil")

	for _, date := range []time.Time{
		time.Date(2025, time.March, 20, 0, 0, 0, 0, locQuito),
		time.Date(2025, time.June, 21, 0, 0, 0, 0, locQuito),
		time.Date(2025, time.September, 22, 0, 0, 0, 0, locQuito),
		time.Date(2025, time.December, 21, 0, 0, 0, 0, locQuito),
	} {
		hours, err := DaylightHours(quito, date)
		require.NoError(t, err, date.Format("2006-01-02"))
		assert.InDelta(t, 12.0, hours, 0.25, date.Format("2006-01-02"))
	}
}

func TestDaylightHoursPolar(t *testing.T) {
	svalbard := Coordinates{Lat: 78.2232, Lon: 15.6267}

	hours, err := DaylightHours(svalbard, time.Date(2024, time.June, 21, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 24.0, hours)

	hours, err = DaylightHours(svalbard, time.Date(2024, time.December, 21, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 0.0, hours)
}

func TestTwilightFor(t *testing.T) {
	loc := mustLoad(t, "America/Phoenix")
	date := time.Date(2025, time.November, 28, 0, 0, 0, 0, loc)

	// Reference values for Phoenix, AZ on 2025-11-28, local time.
	tests := []struct {
		kind TwilightKind
		dawn [2]int
		dusk [2]int
	}{
		{TwilightCivil, [2]int{6, 45}, [2]int{17, 47}},
		{TwilightNautical, [2]int{6, 14}, [2]int{18, 18}},
		{TwilightAstronomical, [2]int{5, 44}, [2]int{18, 48}},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			rs, err := TwilightFor(phoenix, date, tt.kind)
			require.NoError(t, err)

			wantDawn := time.Date(2025, time.November, 28, tt.dawn[0], tt.dawn[1], 0, 0, loc)
			wantDusk := time.Date(2025, time.November, 28, tt.dusk[0], tt.dusk[1], 0, 0, loc)
			assert.LessOrEqual(t, diffMinutes(rs.Rise, wantDawn), 5.0, "dawn %v", rs.Rise)
			assert.LessOrEqual(t, diffMinutes(rs.Set, wantDusk), 5.0, "dusk %v", rs.Set)
		})
	}

	_, err := TwilightFor(phoenix, date, TwilightKind(9))
	assert.Error(t, err)
}

func TestGoldenAndBlueHour(t *testing.T) {
	loc := mustLoad(t, "America/Phoenix")
	date := time.Date(2025, time.November, 28, 0, 0, 0, 0, loc)

	golden, err := GoldenHourFor(phoenix, date)
	require.NoError(t, err)
	blue, err := BlueHourFor(phoenix, date)
	require.NoError(t, err)

	require.True(t, golden.HasMorning)
	require.True(t, golden.HasEvening)
	require.True(t, blue.HasMorning)
	require.True(t, blue.HasEvening)

	// Blue hour ends where golden hour begins.
	assert.LessOrEqual(t, diffMinutes(blue.Morning.End, golden.Morning.Start), 0.1)
	assert.LessOrEqual(t, diffMinutes(blue.Evening.Start, golden.Evening.End), 0.1)
	assert.True(t, golden.Morning.End.Before(golden.Evening.Start))

	civil, err := TwilightFor(phoenix, date, TwilightCivil)
	require.NoError(t, err)
	assert.LessOrEqual(t, diffMinutes(blue.Morning.Start, civil.Rise), 0.1)
}

func TestGoldenHourPolarNight(t *testing.T) {
	pole := Coordinates{Lat: 89, Lon: 0}
	_, err := GoldenHourFor(pole, time.Date(2024, time.December, 21, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrNoRiseNoSet)
}
