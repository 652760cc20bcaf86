package risetrans

import (
	"fmt"
	"time"

	"github.com/thurmanmarka/risetrans/internal/ephemeris"
	"github.com/thurmanmarka/risetrans/internal/solver"
	"github.com/thurmanmarka/risetrans/internal/sun"
	"github.com/thurmanmarka/risetrans/internal/timeutil"
)

// TwilightKind identifies the type of twilight based on the Sun's altitude
// below the horizon.
type TwilightKind int

const (
	// TwilightCivil corresponds to the Sun's center at -6 degrees altitude.
	TwilightCivil TwilightKind = iota

	// TwilightNautical corresponds to the Sun's center at -12 degrees altitude.
	TwilightNautical

	// TwilightAstronomical corresponds to the Sun's center at -18 degrees altitude.
	TwilightAstronomical
)

// Altitude returns the Sun's center altitude that defines the twilight.
func (k TwilightKind) Altitude() (float64, error) {
	switch k {
	case TwilightCivil:
		return sun.CivilTwilight, nil
	case TwilightNautical:
		return sun.NauticalTwilight, nil
	case TwilightAstronomical:
		return sun.AstronomicalTwilight, nil
	}
	return 0, fmt.Errorf("unknown TwilightKind: %d", k)
}

func (k TwilightKind) String() string {
	switch k {
	case TwilightCivil:
		return "civil"
	case TwilightNautical:
		return "nautical"
	case TwilightAstronomical:
		return "astronomical"
	}
	return "unknown"
}

// PhaseWindow represents a continuous time interval where the Sun's altitude
// stays within a particular range (e.g. golden hour or blue hour).
type PhaseWindow struct {
	Start time.Time
	End   time.Time
}

// DaylightPhases holds the morning and evening windows for a given phase
// (e.g. golden hour or blue hour).
type DaylightPhases struct {
	Morning    PhaseWindow
	Evening    PhaseWindow
	HasMorning bool
	HasEvening bool
}

// sunCrossings returns the upward and downward crossings of altDeg by the
// Sun's center during the local calendar date of date.
func (c *Calculator) sunCrossings(loc Coordinates, date time.Time, altDeg float64) (up, down time.Time) {
	start, end := localDay(date)
	geo := loc.geo()
	f := func(jd float64) float64 {
		return ephemeris.Altitude(c.oracle, jd, ephemeris.Sun, geo)
	}
	steps := solver.Grid(end-start, 10)

	if r := solver.FindAltitudeEvent(f, start, end, altDeg, solver.CrossingUp, steps, solver.OneSecond); r.OK {
		up = jdTime(r.JD, date.Location())
	}
	if r := solver.FindAltitudeEvent(f, start, end, altDeg, solver.CrossingDown, steps, solver.OneSecond); r.OK {
		down = jdTime(r.JD, date.Location())
	}
	return up, down
}

// TwilightFor computes twilight times (dawn and dusk) of the given kind for
// a location and local calendar date. Rise holds dawn and Set holds dusk.
func (c *Calculator) TwilightFor(loc Coordinates, date time.Time, kind TwilightKind) (RiseSet, error) {
	alt, err := kind.Altitude()
	if err != nil {
		return RiseSet{}, err
	}
	dawn, dusk := c.sunCrossings(loc, date, alt)
	if dawn.IsZero() && dusk.IsZero() {
		return RiseSet{}, ErrNoRiseNoSet
	}
	return RiseSet{Rise: dawn, Set: dusk}, nil
}

func (c *Calculator) window(loc Coordinates, date time.Time, lowAlt, highAlt float64) (DaylightPhases, error) {
	mLow, eLow := c.sunCrossings(loc, date, lowAlt)
	mHigh, eHigh := c.sunCrossings(loc, date, highAlt)

	var phases DaylightPhases
	if !mLow.IsZero() && !mHigh.IsZero() && mHigh.After(mLow) {
		phases.Morning = PhaseWindow{Start: mLow, End: mHigh}
		phases.HasMorning = true
	}
	if !eHigh.IsZero() && !eLow.IsZero() && eLow.After(eHigh) {
		phases.Evening = PhaseWindow{Start: eHigh, End: eLow}
		phases.HasEvening = true
	}
	if !phases.HasMorning && !phases.HasEvening {
		return DaylightPhases{}, ErrNoRiseNoSet
	}
	return phases, nil
}

// GoldenHourFor returns the windows in which the Sun's center is between
// -4° and +6°.
func (c *Calculator) GoldenHourFor(loc Coordinates, date time.Time) (DaylightPhases, error) {
	return c.window(loc, date, -4, 6)
}

// BlueHourFor returns the windows in which the Sun's center is between -6°
// and -4°.
func (c *Calculator) BlueHourFor(loc Coordinates, date time.Time) (DaylightPhases, error) {
	return c.window(loc, date, -6, -4)
}

// DaylightHours returns the hours the Sun's upper limb spends above the
// horizon on the local calendar date of date. A day on which the Sun stays
// up returns 24, one on which it stays down returns 0.
func (c *Calculator) DaylightHours(loc Coordinates, date time.Time) (float64, error) {
	start, _ := localDay(date)
	ext := c.civil.ExtendedAt(start, Sun, loc.geo(), false)

	rise, set := timeutil.IsReal(ext.Rise), timeutil.IsReal(ext.Set)
	switch {
	case rise && set:
		hours := (ext.Set - ext.Rise) * 24
		if hours < 0 {
			hours += 24
		}
		return hours, nil
	case !rise && !set && ext.IsUp():
		return 24, nil
	case !rise && !set && ext.IsDown():
		return 0, nil
	}
	return 0, ErrNoRiseNoSet
}

// TwilightFor uses the default Calculator.
func TwilightFor(loc Coordinates, date time.Time, kind TwilightKind) (RiseSet, error) {
	return Default().TwilightFor(loc, date, kind)
}

// GoldenHourFor uses the default Calculator.
func GoldenHourFor(loc Coordinates, date time.Time) (DaylightPhases, error) {
	return Default().GoldenHourFor(loc, date)
}

// BlueHourFor uses the default Calculator.
func BlueHourFor(loc Coordinates, date time.Time) (DaylightPhases, error) {
	return Default().BlueHourFor(loc, date)
}

// DaylightHours uses the default Calculator.
func DaylightHours(loc Coordinates, date time.Time) (float64, error) {
	return Default().DaylightHours(loc, date)
}
