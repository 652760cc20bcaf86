package ephemeris

import (
	"math"

	"github.com/thurmanmarka/risetrans/internal/moon"
	"github.com/thurmanmarka/risetrans/internal/sun"
	"github.com/thurmanmarka/risetrans/internal/timeutil"
)

// Phenomena implements Oracle.
func (m *Meeus) Phenomena(jd float64, body Body) Phenomena {
	jde := timeutil.JDE(jd)
	sl, sb, sr := sun.Position(jde)

	switch body {
	case Earth:
		return Phenomena{}
	case Sun:
		return Phenomena{
			PhaseIlluminated:     1,
			ApparentDiscDiameter: 2 * sun.Semidiameter(sr),
			ApparentMagnitude:    sun.Magnitude,
		}
	case Moon:
		lng, lat, km := moon.Position(jde)
		elong := separation(lng, lat, sl, sb)
		i := moon.PhaseAngle(elong, sr*KmPerAU, km)
		return Phenomena{
			PhaseAngle:           i,
			PhaseIlluminated:     moon.Illuminated(i),
			Elongation:           elong,
			ApparentDiscDiameter: 2 * moon.Semidiameter(km),
			ApparentMagnitude:    moon.Magnitude(i),
		}
	}

	k, ok := planetElements[body]
	if !ok {
		return Phenomena{}
	}
	lng, lat, delta, r := planetGeocentric(jde, k)
	i := planetPhaseAngle(r, delta, sr)
	return Phenomena{
		PhaseAngle:           i,
		PhaseIlluminated:     (1 + timeutil.CosD(i)) / 2,
		Elongation:           separation(lng, lat, sl, sb),
		ApparentDiscDiameter: 2 * k.semidiameter / delta / 3600,
		ApparentMagnitude:    k.absMag + 5*math.Log10(r*delta) + k.phaseCoeff*i,
	}
}

// separation returns the angle in degrees between two ecliptic positions.
func separation(l1, b1, l2, b2 float64) float64 {
	c := timeutil.SinD(b1)*timeutil.SinD(b2) + timeutil.CosD(b1)*timeutil.CosD(b2)*timeutil.CosD(l1-l2)
	return timeutil.Rad2Deg(math.Acos(clamp(c)))
}

// planetPhaseAngle returns the Sun–planet–Earth angle in degrees from the
// planet's heliocentric distance r, geocentric distance delta and the
// Earth–Sun distance R, all in AU.
func planetPhaseAngle(r, delta, R float64) float64 {
	c := (r*r + delta*delta - R*R) / (2 * r * delta)
	return timeutil.Rad2Deg(math.Acos(clamp(c)))
}

func clamp(c float64) float64 {
	return math.Max(-1, math.Min(1, c))
}
