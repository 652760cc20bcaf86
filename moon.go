package risetrans

import (
	"math"
	"time"

	"github.com/thurmanmarka/risetrans/internal/ephemeris"
	"github.com/thurmanmarka/risetrans/internal/timeutil"
)

// LunarPhase is one new moon, first quarter, full moon or last quarter.
type LunarPhase struct {
	Time    time.Time
	Name    string  // "new moon", "first quarter", "full moon", "last quarter"
	Quarter int     // 1-4 in the same order as Name
	Angle   float64 // Moon minus Sun longitude, degrees
	Waxing  bool
	// Days since the previous phase in the list; zero for the first.
	Days float64
}

// MoonPhases returns cycles lunations of phases after start, beginning with
// the next phase of any kind. A nil loc gives geocentric instants.
func (c *Calculator) MoonPhases(loc *Coordinates, start time.Time, cycles int) []LunarPhase {
	phases := c.Lunar(loc).Phases(timeutil.TimeToJD(start), cycles)
	out := make([]LunarPhase, 0, len(phases))
	for _, p := range phases {
		lp := LunarPhase{
			Time:    jdTime(p.JD, start.Location()),
			Name:    p.Name(),
			Quarter: p.Quarter,
			Angle:   p.Angle,
			Waxing:  p.Waxing,
		}
		if p.Days != nil {
			lp.Days = *p.Days
		}
		out = append(out, lp)
	}
	return out
}

// MoonPhases uses the default Calculator.
func MoonPhases(loc *Coordinates, start time.Time, cycles int) []LunarPhase {
	return Default().MoonPhases(loc, start, cycles)
}

// MoonIllumination describes the illuminated fraction and qualitative phase
// of the Moon at a given instant.
type MoonIllumination struct {
	Time       time.Time // the instant this phase is evaluated at
	Fraction   float64   // illuminated fraction [0..1], 0=new, 1=full
	Elongation float64   // Sun-Moon angular separation in degrees [0..180]
	Waxing     bool      // true if waxing (illumination increasing), false if waning
	Name       string    // e.g. "New Moon", "Waxing Crescent", "First Quarter", ...
}

// MoonIlluminationAt computes the Moon's illuminated fraction and
// qualitative phase at t. It is geocentric, so no location is needed.
func (c *Calculator) MoonIlluminationAt(t time.Time) MoonIllumination {
	jd := timeutil.TimeToJD(t)
	ph := c.oracle.Phenomena(jd, ephemeris.Moon)
	_, waxing, _ := c.Lunar(nil).State(jd)

	fraction := math.Max(0, math.Min(1, ph.PhaseIlluminated))
	return MoonIllumination{
		Time:       t,
		Fraction:   fraction,
		Elongation: ph.Elongation,
		Waxing:     waxing,
		Name:       classifyMoonPhaseName(fraction, waxing),
	}
}

// MoonIlluminationAt uses the default Calculator.
func MoonIlluminationAt(t time.Time) MoonIllumination {
	return Default().MoonIlluminationAt(t)
}

func classifyMoonPhaseName(f float64, waxing bool) string {
	const (
		eps        = 0.01 // near 0 or 1
		quarterTol = 0.05 // fraction window around 0.5
	)

	switch {
	case f < eps:
		return "New Moon"
	case f > 1-eps:
		return "Full Moon"
	case math.Abs(f-0.5) < quarterTol:
		if waxing {
			return "First Quarter"
		}
		return "Last Quarter"
	case f < 0.5:
		if waxing {
			return "Waxing Crescent"
		}
		return "Waning Crescent"
	default:
		if waxing {
			return "Waxing Gibbous"
		}
		return "Waning Gibbous"
	}
}
