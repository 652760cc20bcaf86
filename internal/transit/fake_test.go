package transit

import (
	"math"

	"github.com/thurmanmarka/risetrans/internal/ephemeris"
	"github.com/thurmanmarka/risetrans/internal/solver"
)

// curveOracle is an oracle whose altitude is a cosine in time, independent
// of the target coordinates.
type curveOracle struct {
	center    float64
	amp       float64
	peak      float64 // JD of a maximum
	period    float64 // days; 0 means 1
	disc      float64 // apparent diameter, degrees
	noTransit bool    // MC/IC search fails

	positions int
}

func (c *curveOracle) alt(jd float64) float64 {
	p := c.period
	if p == 0 {
		p = 1
	}
	return c.center + c.amp*math.Cos(2*math.Pi*(jd-c.peak)/p)
}

func (c *curveOracle) Position(jd float64, _ ephemeris.Body, _ ephemeris.Mode) ephemeris.Position {
	c.positions++
	return ephemeris.Position{Lng: jd, Distance: 1}
}

func (c *curveOracle) Equatorial(float64, ephemeris.Body, ephemeris.Mode) ephemeris.EquatorialPos {
	return ephemeris.EquatorialPos{}
}

func (c *curveOracle) AltitudeAzimuth(jd float64, _ ephemeris.Frame, _ ephemeris.GeoPos, _, _ float64) ephemeris.Horizontal {
	a := c.alt(jd)
	return ephemeris.Horizontal{Altitude: a, Apparent: a}
}

func (c *curveOracle) Phenomena(float64, ephemeris.Body) ephemeris.Phenomena {
	return ephemeris.Phenomena{ApparentDiscDiameter: c.disc}
}

func (c *curveOracle) NextEvent(jd float64, _ ephemeris.Body, _ ephemeris.GeoPos, ev ephemeris.Event, _ ephemeris.RiseSetMode) float64 {
	dir := solver.CrossingUp
	switch ev {
	case ephemeris.Set:
		dir = solver.CrossingDown
	case ephemeris.MC, ephemeris.IC:
		if c.noTransit {
			return 0
		}
		target := c.peak
		if ev == ephemeris.IC {
			target += 0.5
		}
		return target + math.Ceil(jd-target)
	}
	res := solver.FindAltitudeEvent(c.alt, jd, jd+2, 0, dir, solver.Grid(2, 10), solver.OneSecond)
	if !res.OK {
		return 0
	}
	return res.JD
}
