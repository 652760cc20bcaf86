package main

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	var s stats
	assert.True(t, math.IsNaN(s.mean()))

	for _, v := range []float64{2, math.NaN(), -1, 5} {
		s.add(v)
	}
	assert.Equal(t, 3, s.count)
	assert.Equal(t, -1.0, s.min)
	assert.Equal(t, 5.0, s.max)
	assert.InDelta(t, 2.0, s.mean(), 1e-12)
}

func TestDiffMinutes(t *testing.T) {
	a := time.Date(2025, 1, 1, 7, 30, 0, 0, time.UTC)
	b := a.Add(-90 * time.Second)
	assert.InDelta(t, 1.5, diffMinutesSigned(a, b), 1e-12)
	assert.InDelta(t, -1.5, diffMinutesSigned(b, a), 1e-12)
	assert.InDelta(t, 1.5, diffMinutes(b, a), 1e-12)
	assert.True(t, math.IsNaN(diffMinutes(time.Time{}, a)))
}

func TestSummary(t *testing.T) {
	var s summary
	ref := time.Date(2025, 1, 1, 7, 30, 0, 0, time.UTC)
	rs, ss := s.add(ref.Add(time.Minute), ref, time.Time{}, ref)
	assert.InDelta(t, 1.0, rs, 1e-12)
	assert.True(t, math.IsNaN(ss))
	assert.Equal(t, 1, s.processed)
	assert.Equal(t, 1, s.rise.count)
	assert.Zero(t, s.set.count)
}

func TestReadCSV(t *testing.T) {
	loc, err := time.LoadLocation("America/Phoenix")
	require.NoError(t, err)

	in := strings.NewReader("date,rise,set\n" +
		"2025-01-01,07:32,17:32\n" +
		"2025-01-02,07:32:30,17:33\n" +
		"bad,07:00,17:00\n" +
		"2025-01-04,7h,17:00\n" +
		"2025-01-05\n")
	days, bad, err := readCSV(in, loc)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Len(t, bad, 3)

	assert.Equal(t, 2, days[0].Line)
	assert.Equal(t, time.Date(2025, 1, 1, 7, 32, 0, 0, loc), days[0].Rise)
	assert.Equal(t, time.Date(2025, 1, 2, 7, 32, 30, 0, loc), days[1].Rise)

	_, _, err = readCSV(strings.NewReader(""), loc)
	assert.Error(t, err)
}

func TestSunriseTable(t *testing.T) {
	loc, err := time.LoadLocation("America/Phoenix")
	require.NoError(t, err)

	from := time.Date(2025, time.November, 28, 0, 0, 0, 0, loc)
	days := sunriseTable(33.4484, -112.074, from, 3)
	require.Len(t, days, 3)
	// Sunrise 07:11, sunset 17:21 local.
	assert.Equal(t, 7, days[0].Rise.Hour())
	assert.Equal(t, 17, days[0].Set.Hour())
	assert.Equal(t, 30, days[2].Date.Day())
}
