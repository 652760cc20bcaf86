package risetrans

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoonIlluminationAt(t *testing.T) {
	loc := mustLoad(t, "America/Phoenix")

	// Full moon on 2025-05-12 16:56 UTC.
	tm := time.Date(2025, time.May, 12, 0, 0, 0, 0, loc)
	phase := MoonIlluminationAt(tm)
	assert.Equal(t, tm, phase.Time)
	assert.Greater(t, phase.Fraction, 0.97)
	assert.Greater(t, phase.Elongation, 160.0)
	assert.True(t, phase.Waxing)

	// First quarter on 2024-01-18 03:52 UTC.
	phase = MoonIlluminationAt(time.Date(2024, time.January, 18, 4, 0, 0, 0, time.UTC))
	assert.Equal(t, "First Quarter", phase.Name)
	assert.InDelta(t, 0.5, phase.Fraction, 0.05)

	// Two days after new moon on 2024-01-11.
	phase = MoonIlluminationAt(time.Date(2024, time.January, 13, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, "Waxing Crescent", phase.Name)
}

func TestClassifyMoonPhaseName(t *testing.T) {
	tests := []struct {
		f      float64
		waxing bool
		want   string
	}{
		{0.001, true, "New Moon"},
		{0.995, false, "Full Moon"},
		{0.52, true, "First Quarter"},
		{0.48, false, "Last Quarter"},
		{0.2, true, "Waxing Crescent"},
		{0.2, false, "Waning Crescent"},
		{0.8, true, "Waxing Gibbous"},
		{0.8, false, "Waning Gibbous"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyMoonPhaseName(tt.f, tt.waxing))
		})
	}
}

func TestMoonPhases(t *testing.T) {
	start := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)
	phases := MoonPhases(nil, start, 2)
	require.Len(t, phases, 8)

	assert.Equal(t, "new moon", phases[0].Name)
	assert.LessOrEqual(t, diffMinutes(phases[0].Time, time.Date(2024, time.January, 11, 11, 57, 0, 0, time.UTC)), 30.0)
	assert.LessOrEqual(t, diffMinutes(phases[2].Time, time.Date(2024, time.January, 25, 17, 54, 0, 0, time.UTC)), 30.0)
	assert.Zero(t, phases[0].Days)
	for i, p := range phases[1:] {
		assert.True(t, p.Time.After(phases[i].Time))
		assert.InDelta(t, 7.4, p.Days, 1.0)
	}

	local := MoonPhases(&phoenix, start, 1)
	require.Len(t, local, 4)
	assert.Equal(t, phases[0].Quarter, local[0].Quarter)
}
