package lunar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thurmanmarka/risetrans/internal/ephemeris"
	"github.com/thurmanmarka/risetrans/internal/timeutil"
)

func jdOf(year int, month time.Month, day, hour, min int) float64 {
	return timeutil.TimeToJD(time.Date(year, month, day, hour, min, 0, 0, time.UTC))
}

func TestPhasesJanuary2024(t *testing.T) {
	s := NewSolver(ephemeris.NewMeeus())
	phases := s.Phases(jdOf(2024, time.January, 5, 0, 0), 1)
	require.Len(t, phases, 4)

	want := []struct {
		jd      float64
		quarter int
		name    string
		waxing  bool
	}{
		{jdOf(2024, time.January, 11, 11, 57), 1, "new moon", true},
		{jdOf(2024, time.January, 18, 3, 52), 2, "first quarter", true},
		{jdOf(2024, time.January, 25, 17, 54), 3, "full moon", false},
		{jdOf(2024, time.February, 2, 23, 18), 4, "last quarter", false},
	}
	for i, w := range want {
		p := phases[i]
		assert.InDelta(t, w.jd, p.JD, 1.0/48, w.name)
		assert.Equal(t, w.quarter, p.Quarter, w.name)
		assert.Equal(t, w.name, p.Name())
		assert.Equal(t, w.waxing, p.Waxing, w.name)
		assert.Equal(t, float64((w.quarter-1)*90), p.Angle, w.name)
	}

	assert.Nil(t, phases[0].Days)
	for _, p := range phases[1:] {
		require.NotNil(t, p.Days)
		assert.InDelta(t, 7.4, *p.Days, 1.0)
	}
}

func TestPhasesCycles(t *testing.T) {
	s := NewSolver(ephemeris.NewMeeus())
	jd := jdOf(2024, time.March, 1, 0, 0)

	assert.Len(t, s.Phases(jd, 0), 4)
	phases := s.Phases(jd, 3)
	require.Len(t, phases, 12)

	for i := 1; i < len(phases); i++ {
		assert.Greater(t, phases[i].JD, phases[i-1].JD)
		assert.Equal(t, phases[i-1].Quarter%4+1, phases[i].Quarter, "quarter wraps 1..4")
	}
	assert.Equal(t, s.Next(jd), phases[0])
}

func TestSeekConverges(t *testing.T) {
	s := NewSolver(ephemeris.NewMeeus())
	for _, start := range []float64{
		jdOf(2023, time.July, 3, 8, 0),
		jdOf(2024, time.October, 17, 20, 0),
		jdOf(2025, time.February, 28, 4, 30),
	} {
		for _, boundary := range []float64{90, 180, 270, 360} {
			p, n := s.seek(start, boundary)
			require.True(t, p.Found())
			assert.LessOrEqual(t, n, MaxIterations)
			rem := timeutil.NormalizeSigned180(boundary - s.Angle(p.JD))
			assert.Less(t, rem, 2*Tolerance)
			assert.Greater(t, rem, -2*Tolerance)
		}
	}
}

func TestTopocentricPhase(t *testing.T) {
	jd := jdOf(2024, time.January, 5, 0, 0)
	geo := NewSolver(ephemeris.NewMeeus()).Next(jd)
	topo := NewSolver(ephemeris.NewMeeus(), WithObserver(ephemeris.GeoPos{Lat: 33.4484, Lng: -112.0740})).Next(jd)

	require.True(t, topo.Found())
	assert.Equal(t, geo.Quarter, topo.Quarter)
	assert.InDelta(t, geo.JD, topo.JD, 0.2)
}

func TestState(t *testing.T) {
	s := NewSolver(ephemeris.NewMeeus())

	// A day after full moon the Moon is waning in its third quarter.
	angle, waxing, quarter := s.State(jdOf(2024, time.January, 26, 18, 0))
	assert.InDelta(t, 192, angle, 5)
	assert.False(t, waxing)
	assert.Equal(t, 3, quarter)
}

// stillOracle holds the Sun and Moon fixed, so no phase is ever reached.
type stillOracle struct{}

func (stillOracle) Position(_ float64, body ephemeris.Body, _ ephemeris.Mode) ephemeris.Position {
	if body == ephemeris.Moon {
		return ephemeris.Position{Lng: 45}
	}
	return ephemeris.Position{}
}

func (stillOracle) Equatorial(float64, ephemeris.Body, ephemeris.Mode) ephemeris.EquatorialPos {
	return ephemeris.EquatorialPos{}
}

func (stillOracle) AltitudeAzimuth(float64, ephemeris.Frame, ephemeris.GeoPos, float64, float64) ephemeris.Horizontal {
	return ephemeris.Horizontal{}
}

func (stillOracle) Phenomena(float64, ephemeris.Body) ephemeris.Phenomena {
	return ephemeris.Phenomena{}
}

func (stillOracle) NextEvent(float64, ephemeris.Body, ephemeris.GeoPos, ephemeris.Event, ephemeris.RiseSetMode) float64 {
	return 0
}

func TestSeekGivesUp(t *testing.T) {
	s := NewSolver(stillOracle{})
	p, n := s.seek(2460000, 90)
	assert.Equal(t, MaxIterations, n)
	assert.False(t, p.Found())
	assert.Equal(t, 2, p.Quarter)

	phases := s.Phases(2460000, 1)
	require.Len(t, phases, 4)
	for _, p := range phases {
		assert.False(t, p.Found())
		assert.Nil(t, p.Days)
	}
}

func TestAdjustStep(t *testing.T) {
	assert.Equal(t, 1.0/15360, adjustStep(0.006, initialStep))
	assert.Equal(t, 1.0/3840, adjustStep(0.01, initialStep))
	assert.Equal(t, 1.0/3840, adjustStep(0.02, initialStep))
	assert.Equal(t, 1.0/960, adjustStep(0.1, initialStep))
	assert.Equal(t, 1.0/24, adjustStep(3, initialStep))
	assert.Equal(t, initialStep, adjustStep(40, initialStep))
	assert.Equal(t, 1.0/48, adjustStep(40, 1.0/48))
}

func TestMoonPhaseISO(t *testing.T) {
	days := 7.38
	p := MoonPhase{JD: timeutil.J2000, Angle: 180, Quarter: 3, Days: &days}
	iso := p.ISO()
	assert.Equal(t, "2000-01-01T12:00:00", iso.UTC)
	assert.Equal(t, "full moon", iso.Name)
	assert.Equal(t, &days, iso.Days)

	assert.Equal(t, "", MoonPhase{}.Name())
	assert.Equal(t, 1, quarterOf(360))
	assert.Equal(t, 1, quarterOf(0))
	assert.Equal(t, 4, quarterOf(270))
}
