package timeutil

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mooncaker816/learnmeeus/v3/julian"
	"github.com/mooncaker816/learnmeeus/v3/solstice"
)

const (
	// MinJD is the smallest Julian Day treated as a real instant. Anything
	// below it (including 0) means "not found".
	MinJD = 1000.0

	// MinsPerDay is the number of minutes in one day.
	MinsPerDay = 1440.0

	// J2000 is the Julian Day of the J2000.0 epoch.
	J2000 = 2451545.0

	// ISOLayout is the layout used for ISO-8601 UTC strings.
	ISOLayout = "2006-01-02T15:04:05"
)

// IsReal reports whether jd is a real instant rather than a sentinel.
func IsReal(jd float64) bool {
	return jd >= MinJD
}

// -----------------------------
// Julian Day <-> time.Time
// -----------------------------

// TimeToJD converts t to a UT Julian Day.
func TimeToJD(t time.Time) float64 {
	return julian.TimeToJD(t.UTC())
}

// JDToTime converts a UT Julian Day into a UTC time rounded to the millisecond.
func JDToTime(jd float64) time.Time {
	return julian.JDToTime(jd).UTC().Round(time.Millisecond)
}

// CalendarToJD returns the Julian Day of midnight UTC on the given date.
func CalendarToJD(year int, month time.Month, day int) float64 {
	return julian.CalendarGregorianToJD(year, int(month), float64(day))
}

// JDToISO formats jd as "YYYY-MM-DDTHH:MM:SS" in UTC. Sentinel values yield
// an empty string.
func JDToISO(jd float64) string {
	if jd <= MinJD {
		return ""
	}
	return JDToTime(jd).Round(time.Second).Format(ISOLayout)
}

var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseISO parses the common ISO-8601 shapes accepted by the CLI and the
// HTTP layer. Values without an offset are read in loc.
func ParseISO(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised datetime %q", s)
}

// DeltaT returns an estimate of TT-UT in seconds for the year containing jd.
func DeltaT(jd float64) float64 {
	y := 2000 + (jd-J2000)/365.25
	switch {
	case y >= 2005 && y < 2150:
		t := y - 2000
		return 62.92 + 0.32217*t + 0.005589*t*t
	case y >= 1986 && y < 2005:
		t := y - 2000
		return 63.86 + 0.3345*t - 0.060374*t*t + 0.0017275*t*t*t +
			0.000651814*t*t*t*t + 0.00002373599*t*t*t*t*t
	default:
		u := (y - 1820) / 100
		return -20 + 32*u*u
	}
}

// JDE converts a UT Julian Day to Julian Ephemeris Day.
func JDE(jd float64) float64 {
	return jd + DeltaT(jd)/86400
}

// -----------------------------
// Day boundaries
// -----------------------------

// StartJDGeo returns the Julian Day at which the local solar day containing
// jd begins, using lng (degrees, east positive) to place local midnight.
func StartJDGeo(jd, lng float64) float64 {
	offset := (0 - lng/15) / 24
	progress := math.Mod(jd, 1)
	startOffset := -0.5
	if offset-progress >= 0.5 {
		startOffset = 0.5
	}
	start := math.Floor(jd) + startOffset
	ref := start + offset
	switch diff := jd - ref; {
	case diff > 1:
		ref++
	case diff < -1:
		ref--
	}
	return ref
}

// StartJDGeoTZ is StartJDGeo with the day boundary following a time zone
// offset in seconds instead of solar time. A nil offset falls back to lng.
func StartJDGeoTZ(jd, lng float64, tzOffsetSecs *int) float64 {
	if tzOffsetSecs != nil {
		lng = float64(*tzOffsetSecs) / 240
	}
	return StartJDGeo(jd, lng)
}

// DaysToNextEquinox returns the number of days from jd to the next March or
// September equinox.
func DaysToNextEquinox(jd float64) float64 {
	year, _, _ := julian.JDToCalendar(jd)
	for _, eq := range []float64{
		solstice.March(year),
		solstice.September(year),
		solstice.March(year + 1),
	} {
		if eq > jd {
			return eq - jd
		}
	}
	return 0
}

// -----------------------------
// Basic degree/radian helpers and trig with degree inputs.
// -----------------------------

func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180.0
}

func Rad2Deg(r float64) float64 {
	return r * 180.0 / math.Pi
}

func SinD(deg float64) float64 {
	return math.Sin(Deg2Rad(deg))
}

func CosD(deg float64) float64 {
	return math.Cos(Deg2Rad(deg))
}

func Normalize360(d float64) float64 {
	d = math.Mod(d, 360.0)
	if d < 0 {
		d += 360.0
	}
	return d
}

// NormalizeSigned180 maps d into (-180, 180].
func NormalizeSigned180(d float64) float64 {
	d = Normalize360(d)
	if d > 180 {
		d -= 360
	}
	return d
}

// ApproxRefraction returns an approximation of atmospheric refraction (in
// degrees) at a given altitude altDeg (degrees) under standard conditions.
//
// Positive return means "add this to the geometric altitude to get apparent
// altitude". Saemundsson-style:
//
//	R (arcmin) ≈ 1.02 / tan( (alt + 10.3 / (alt + 5.11)) in degrees )
func ApproxRefraction(altDeg float64) float64 {
	// Below -1° refraction isn't meaningfully defined in this context.
	if altDeg < -1.0 || altDeg > 90 {
		return 0
	}

	// Clamp to keep away from the pole in the denominator.
	alt := altDeg
	if alt < -0.5 {
		alt = -0.5
	}

	t := math.Tan(Deg2Rad(alt + 10.3/(alt+5.11)))
	if t == 0 {
		return 0
	}
	return 1.02 / t / 60.0
}
