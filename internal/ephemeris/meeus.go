package ephemeris

import (
	"math"

	"github.com/mooncaker816/learnmeeus/v3/coord"
	"github.com/mooncaker816/learnmeeus/v3/nutation"
	"github.com/mooncaker816/learnmeeus/v3/sidereal"
	"github.com/soniakeys/unit"

	"github.com/thurmanmarka/risetrans/internal/moon"
	"github.com/thurmanmarka/risetrans/internal/solver"
	"github.com/thurmanmarka/risetrans/internal/sun"
	"github.com/thurmanmarka/risetrans/internal/timeutil"
)

// KmPerAU is the astronomical unit in kilometres.
const KmPerAU = 149597870.7

// Meeus is an Oracle built on the algorithms of Meeus' "Astronomical
// Algorithms": the Sun and Moon from their analytic series, the planets from
// mean Keplerian elements. It holds no mutable state and is safe for
// concurrent use.
type Meeus struct {
	searchSpan  float64 // days searched by NextEvent
	gridMinutes float64 // bracketing cadence for NextEvent
}

// MeeusOption configures a Meeus oracle.
type MeeusOption func(*Meeus)

// WithSearchSpan sets how many days NextEvent looks ahead.
func WithSearchSpan(days float64) MeeusOption {
	return func(m *Meeus) {
		if days > 0 {
			m.searchSpan = days
		}
	}
}

// WithSearchGrid sets the bracketing cadence of NextEvent in minutes.
func WithSearchGrid(minutes float64) MeeusOption {
	return func(m *Meeus) {
		if minutes > 0 {
			m.gridMinutes = minutes
		}
	}
}

// NewMeeus returns a Meeus oracle.
func NewMeeus(opts ...MeeusOption) *Meeus {
	m := &Meeus{searchSpan: 2, gridMinutes: 10}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ---- coordinate plumbing ----

// geocentric returns the apparent ecliptic longitude and latitude (degrees,
// equinox of date) and the distance in AU.
func geocentric(jde float64, body Body) (lng, lat, distanceAU float64) {
	switch body {
	case Sun:
		return sun.Position(jde)
	case Moon:
		l, b, d := moon.Position(jde)
		return l, b, d / KmPerAU
	}
	if k, ok := planetElements[body]; ok {
		l, b, d, _ := planetGeocentric(jde, k)
		return l, b, d
	}
	return 0, 0, 0
}

func obliquity(jde float64) (sε, cε float64) {
	return math.Sincos(nutation.MeanObliquity(jde).Rad())
}

// localSidereal returns the local mean sidereal time in degrees.
func localSidereal(jd, lng float64) float64 {
	return timeutil.Normalize360(float64(sidereal.Mean(jd))/240 + lng)
}

func eclToEq(lng, lat, jde float64) (ra, dec float64) {
	sε, cε := obliquity(jde)
	α, δ := coord.EclToEq(unit.AngleFromDeg(lng), unit.AngleFromDeg(lat), sε, cε)
	return timeutil.Normalize360(unit.Angle(α).Deg()), δ.Deg()
}

func eqToEcl(ra, dec, jde float64) (lng, lat float64) {
	sε, cε := obliquity(jde)
	λ, β := coord.EqToEcl(unit.RA(timeutil.Deg2Rad(ra)), unit.AngleFromDeg(dec), sε, cε)
	return timeutil.Normalize360(λ.Deg()), β.Deg()
}

// tropical returns the ecliptic position for the given mode, ignoring any
// sidereal offset.
func (m *Meeus) tropical(jd float64, body Body, mode Mode) (lng, lat, distanceAU float64) {
	jde := timeutil.JDE(jd)
	lng, lat, distanceAU = geocentric(jde, body)
	if mode.Topocentric && distanceAU > 0 {
		obs := mode.Observer
		ra, dec := eclToEq(lng, lat, jde)
		ra, dec = moon.Topocentric(ra, dec, distanceAU*KmPerAU, obs.Lat, obs.Alt, localSidereal(jd, obs.Lng))
		lng, lat = eqToEcl(ra, dec, jde)
	}
	return lng, lat, distanceAU
}

// ---- Oracle ----

// Position implements Oracle. Speeds are central differences over one hour.
func (m *Meeus) Position(jd float64, body Body, mode Mode) Position {
	if body == Earth {
		return Position{}
	}
	const h = 1.0 / 24

	lng, lat, dist := m.tropical(jd, body, mode)
	l0, b0, _ := m.tropical(jd-h/2, body, mode)
	l1, b1, _ := m.tropical(jd+h/2, body, mode)

	p := Position{
		Lng:      lng,
		Lat:      lat,
		Distance: dist,
		LngSpeed: timeutil.NormalizeSigned180(l1-l0) / h,
		LatSpeed: (b1 - b0) / h,
	}
	if mode.Sidereal {
		p.Lng = timeutil.Normalize360(p.Lng - mode.Ayanamsha.Offset(jd))
	}
	return p
}

// Equatorial implements Oracle.
func (m *Meeus) Equatorial(jd float64, body Body, mode Mode) EquatorialPos {
	if body == Earth {
		return EquatorialPos{}
	}
	lng, lat, dist := m.tropical(jd, body, mode)
	ra, dec := eclToEq(lng, lat, timeutil.JDE(jd))
	return EquatorialPos{RA: ra, Dec: dec, Distance: dist}
}

// AltitudeAzimuth implements Oracle.
func (m *Meeus) AltitudeAzimuth(jd float64, frame Frame, geo GeoPos, lng, lat float64) Horizontal {
	ra, dec := lng, lat
	if frame == Ecliptic {
		ra, dec = eclToEq(lng, lat, timeutil.JDE(jd))
	}
	// Meeus measures geographic longitude positive west.
	A, h := coord.EqToHz(
		unit.RA(timeutil.Deg2Rad(ra)),
		unit.AngleFromDeg(dec),
		unit.AngleFromDeg(geo.Lat),
		unit.AngleFromDeg(-geo.Lng),
		sidereal.Mean(jd),
	)
	alt := h.Deg()
	return Horizontal{
		Azimuth:  timeutil.Normalize360(A.Deg()),
		Altitude: alt,
		Apparent: alt + timeutil.ApproxRefraction(alt),
	}
}

// NextEvent implements Oracle. Rise and set are found by bracketing the
// disc-adjusted altitude; MC and IC by the zero crossing of the local hour
// angle (shifted by 180° for IC).
func (m *Meeus) NextEvent(jd float64, body Body, geo GeoPos, event Event, rs RiseSetMode) float64 {
	if body == Earth {
		return 0
	}

	var (
		f   solver.AltitudeFunc
		dir = solver.CrossingUp
	)
	switch event {
	case Rise, Set:
		f = func(t float64) float64 {
			return m.horizonAltitude(t, body, geo, rs)
		}
		if event == Set {
			dir = solver.CrossingDown
		}
	case MC:
		f = func(t float64) float64 {
			return m.hourAngle(t, body, geo)
		}
	case IC:
		f = func(t float64) float64 {
			return timeutil.NormalizeSigned180(m.hourAngle(t, body, geo) + 180)
		}
	default:
		return 0
	}

	steps := solver.Grid(m.searchSpan, m.gridMinutes)
	res := solver.FindAltitudeEvent(f, jd, jd+m.searchSpan, 0, dir, steps, solver.OneSecond)
	if !res.OK {
		return 0
	}
	return res.JD
}

func (m *Meeus) hourAngle(jd float64, body Body, geo GeoPos) float64 {
	eq := m.Equatorial(jd, body, TopocentricAt(geo))
	return timeutil.NormalizeSigned180(localSidereal(jd, geo.Lng) - eq.RA)
}

// horizonAltitude is the altitude that crosses zero at rise and set under rs.
func (m *Meeus) horizonAltitude(jd float64, body Body, geo GeoPos, rs RiseSetMode) float64 {
	lng, lat, dist := m.tropical(jd, body, TopocentricAt(geo))
	alt := m.AltitudeAzimuth(jd, Ecliptic, geo, lng, lat).Altitude
	if rs.Refraction() {
		alt += timeutil.ApproxRefraction(alt)
	}
	sd, mean := semidiameters(body, dist)
	return alt + rs.DiscOffset(sd, mean)
}

func semidiameters(body Body, distanceAU float64) (sd, mean float64) {
	switch body {
	case Sun:
		return sun.Semidiameter(distanceAU), sun.MeanSemidiameter
	case Moon:
		return moon.Semidiameter(distanceAU * KmPerAU), moon.MeanSemidiameter
	}
	return 0, 0
}
