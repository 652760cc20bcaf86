package ephemeris

import (
	"math"
	"sync"
	"testing"
	"time"

	sunrise "github.com/nathan-osman/go-sunrise"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thurmanmarka/risetrans/internal/timeutil"
)

var phoenix = GeoPos{Lat: 33.4484, Lng: -112.0740, Alt: 331}

func TestBodyKeys(t *testing.T) {
	tests := []struct {
		key  string
		want Body
	}{
		{"su", Sun},
		{"MO", Moon},
		{"ju", Jupiter},
		{"pl", Pluto},
		{"ea", Earth},
		// Unknown keys fall back to the Earth placeholder.
		{"xx", Earth},
		{"", Earth},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, BodyFromKey(tt.key))
		})
	}

	assert.Equal(t, Moon, BodyFromName("moon"))
	assert.Equal(t, Saturn, BodyFromName("sa"))
	assert.Equal(t, "ve", Venus.Key())
	assert.Equal(t, "mars", Mars.String())
	assert.True(t, Sun.HasDisc())
	assert.False(t, Jupiter.HasDisc())
	assert.True(t, Moon.Fast())
}

func TestEarthPlaceholder(t *testing.T) {
	o := NewMeeus()
	jd := timeutil.CalendarToJD(2024, time.June, 1)

	assert.Equal(t, Position{}, o.Position(jd, BodyFromKey("zz"), Geocentric()))
	assert.Equal(t, EquatorialPos{}, o.Equatorial(jd, Earth, Geocentric()))
	assert.Equal(t, Phenomena{}, o.Phenomena(jd, Earth))
	assert.Equal(t, 0.0, o.NextEvent(jd, Earth, phoenix, Rise, CenterDisc))
}

func TestRiseSetMode(t *testing.T) {
	m, err := ParseRiseSetMode("2")
	require.NoError(t, err)
	assert.Equal(t, CenterDiscNoRefraction, m)

	m, err = ParseRiseSetMode("fixed-disc")
	require.NoError(t, err)
	assert.Equal(t, FixedDisc, m)

	_, err = ParseRiseSetMode("8")
	assert.Error(t, err)
	_, err = ParseRiseSetMode("upside-down")
	assert.Error(t, err)

	assert.False(t, CenterDiscNoRefraction.Refraction())
	assert.True(t, FixedDisc.Refraction())
	assert.Equal(t, 0.0, CenterDisc.DiscOffset(0.27, 0.26))
	assert.Equal(t, -0.27, BottomDisc.DiscOffset(0.27, 0.26))
	assert.Equal(t, 0.26, FixedDiscNoRefraction.DiscOffset(0.27, 0.26))
	assert.Equal(t, 0.27, Unadjusted.DiscOffset(0.27, 0.26))
	assert.Equal(t, "center-disc-no-refraction", CenterDiscNoRefraction.String())
}

func TestPositionSpeeds(t *testing.T) {
	o := NewMeeus()
	jd := timeutil.CalendarToJD(2024, time.January, 15)

	sunPos := o.Position(jd, Sun, Geocentric())
	assert.InDelta(t, 1.0, sunPos.LngSpeed, 0.03)
	assert.InDelta(t, 0.98, sunPos.Distance, 0.01)

	moonPos := o.Position(jd, Moon, Geocentric())
	assert.Greater(t, moonPos.LngSpeed, 11.0)
	assert.Less(t, moonPos.LngSpeed, 15.5)

	// Topocentric parallax moves the Moon by up to about a degree.
	topo := o.Position(jd, Moon, TopocentricAt(phoenix))
	diff := math.Abs(timeutil.NormalizeSigned180(topo.Lng - moonPos.Lng))
	assert.Greater(t, diff+math.Abs(topo.Lat-moonPos.Lat), 0.01)
	assert.Less(t, diff, 1.5)
}

func TestSiderealMode(t *testing.T) {
	o := NewMeeus()
	jd := timeutil.CalendarToJD(2024, time.January, 1)

	trop := o.Position(jd, Sun, Geocentric())
	sid := o.Position(jd, Sun, Geocentric().WithSidereal(Lahiri))
	offset := timeutil.Normalize360(trop.Lng - sid.Lng)
	assert.InDelta(t, 24.19, offset, 0.05)

	a, err := ParseAyanamsha("Lahiri")
	require.NoError(t, err)
	assert.Equal(t, Lahiri, a)
	assert.Equal(t, 0.0, Tropical.Offset(jd))
}

func TestJupiterLongitude(t *testing.T) {
	// Jupiter turned direct at about 5°34' Taurus at the end of 2023.
	o := NewMeeus()
	pos := o.Position(timeutil.CalendarToJD(2023, time.December, 31), Jupiter, Geocentric())
	assert.InDelta(t, 35.6, pos.Lng, 1.5)
	assert.InDelta(t, 0, pos.LngSpeed, 0.05)
}

func TestAltitudeAzimuth(t *testing.T) {
	o := NewMeeus()
	// Near the March equinox at noon UTC the Sun is almost overhead at 0°N 0°E.
	jd := timeutil.TimeToJD(time.Date(2024, time.March, 20, 12, 7, 0, 0, time.UTC))
	eq := o.Equatorial(jd, Sun, Geocentric())
	hz := o.AltitudeAzimuth(jd, Equatorial, GeoPos{}, eq.RA, eq.Dec)
	assert.Greater(t, hz.Altitude, 88.0)

	pos := o.Position(jd, Sun, Geocentric())
	hzEcl := o.AltitudeAzimuth(jd, Ecliptic, GeoPos{}, pos.Lng, pos.Lat)
	assert.InDelta(t, hz.Altitude, hzEcl.Altitude, 1e-6)
	assert.GreaterOrEqual(t, hzEcl.Apparent, hzEcl.Altitude)
}

func TestNextEventSunAgainstReference(t *testing.T) {
	o := NewMeeus()

	for _, day := range []int{1, 80, 172, 266, 355} {
		date := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day-1)
		refRise, refSet := sunrise.SunriseSunset(phoenix.Lat, phoenix.Lng, date.Year(), date.Month(), date.Day())

		jd := timeutil.TimeToJD(refRise.Add(-3 * time.Hour))
		rise := o.NextEvent(jd, Sun, phoenix, Rise, Unadjusted)
		set := o.NextEvent(rise, Sun, phoenix, Set, Unadjusted)
		require.True(t, timeutil.IsReal(rise))
		require.True(t, timeutil.IsReal(set))

		assert.WithinDuration(t, refRise, timeutil.JDToTime(rise), 3*time.Minute, "rise day %d", day)
		assert.WithinDuration(t, refSet, timeutil.JDToTime(set), 3*time.Minute, "set day %d", day)
	}
}

func TestNextEventMeridian(t *testing.T) {
	o := NewMeeus()
	jd := timeutil.CalendarToJD(2024, time.May, 5)
	geo := GeoPos{Lat: 51.48, Lng: 0}

	mc := o.NextEvent(jd, Sun, geo, MC, CenterDiscNoRefraction)
	ic := o.NextEvent(jd, Sun, geo, IC, CenterDiscNoRefraction)
	require.True(t, timeutil.IsReal(mc))
	require.True(t, timeutil.IsReal(ic))

	// Equation of time in early May is about +3 minutes.
	noon := timeutil.TimeToJD(time.Date(2024, time.May, 5, 11, 57, 0, 0, time.UTC))
	assert.InDelta(t, noon, mc, 2.0/1440)
	assert.InDelta(t, 0.5, math.Abs(ic-mc), 0.01)

	peak := Altitude(o, mc, Sun, geo)
	assert.Greater(t, peak, Altitude(o, mc-0.01, Sun, geo))
	assert.Greater(t, peak, Altitude(o, mc+0.01, Sun, geo))
}

func TestNextEventNeverSets(t *testing.T) {
	// Midsummer at 80°N the Sun stays up all day.
	o := NewMeeus()
	jd := timeutil.CalendarToJD(2024, time.June, 21)
	geo := GeoPos{Lat: 80, Lng: 15}
	assert.Equal(t, 0.0, o.NextEvent(jd, Sun, geo, Set, CenterDiscNoRefraction))
	assert.True(t, timeutil.IsReal(o.NextEvent(jd, Sun, geo, MC, CenterDiscNoRefraction)))
}

func TestPhenomena(t *testing.T) {
	o := NewMeeus()

	full := timeutil.TimeToJD(time.Date(2024, time.January, 25, 17, 54, 0, 0, time.UTC))
	p := o.Phenomena(full, Moon)
	assert.Greater(t, p.PhaseIlluminated, 0.99)
	assert.InDelta(t, 180, p.Elongation, 6)
	assert.InDelta(t, 0.52, p.ApparentDiscDiameter, 0.05)

	s := o.Phenomena(full, Sun)
	assert.InDelta(t, 0.542, s.ApparentDiscDiameter, 0.01)
	assert.Equal(t, 1.0, s.PhaseIlluminated)

	v := o.Phenomena(full, Venus)
	assert.Greater(t, v.PhaseIlluminated, 0.5)
	assert.Less(t, v.ApparentMagnitude, -3.0)
}

func TestSerializedMatchesInner(t *testing.T) {
	inner := NewMeeus()
	o := Serialized(inner)
	assert.Same(t, o, Serialized(o))

	jd := timeutil.CalendarToJD(2024, time.February, 2)
	want := inner.Position(jd, Moon, TopocentricAt(phoenix))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, o.Position(jd, Moon, TopocentricAt(phoenix)))
		}()
	}
	wg.Wait()
}
