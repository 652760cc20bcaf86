package ephemeris

import (
	"fmt"
	"strings"

	"github.com/thurmanmarka/risetrans/internal/timeutil"
)

// GeoPos is an observer position: latitude and longitude in degrees (north
// and east positive) and altitude in metres.
type GeoPos struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
	Alt float64 `json:"alt"`
}

// Frame selects the coordinate frame of a target passed to AltitudeAzimuth.
type Frame int

const (
	Ecliptic Frame = iota
	Equatorial
)

// Ayanamsha selects a sidereal zodiac offset.
type Ayanamsha int

const (
	Tropical Ayanamsha = iota
	Lahiri
	FaganBradley
	Raman
	Krishnamurti
)

// offsets at J2000, degrees
var ayanamshaJ2000 = map[Ayanamsha]float64{
	Lahiri:       23.857092,
	FaganBradley: 24.740300,
	Raman:        22.410791,
	Krishnamurti: 23.760240,
}

var ayanamshaNames = map[string]Ayanamsha{
	"tropical":     Tropical,
	"lahiri":       Lahiri,
	"fagan":        FaganBradley,
	"raman":        Raman,
	"krishnamurti": Krishnamurti,
}

// general precession in longitude, degrees per Julian year
const precessionPerYear = 50.290966 / 3600

// Offset returns the ayanamsha in degrees at jd.
func (a Ayanamsha) Offset(jd float64) float64 {
	base, ok := ayanamshaJ2000[a]
	if !ok {
		return 0
	}
	return base + precessionPerYear*(jd-timeutil.J2000)/365.25
}

// ParseAyanamsha resolves an ayanamsha name.
func ParseAyanamsha(s string) (Ayanamsha, error) {
	if a, ok := ayanamshaNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return a, nil
	}
	return Tropical, fmt.Errorf("unknown ayanamsha %q", s)
}

// Mode carries the oracle state that the computation depends on. It is
// passed explicitly on every call.
type Mode struct {
	Topocentric bool
	Observer    GeoPos
	Sidereal    bool
	Ayanamsha   Ayanamsha
}

// Geocentric is the tropical, geocentric mode.
func Geocentric() Mode {
	return Mode{}
}

// TopocentricAt returns a tropical mode for an observer at geo.
func TopocentricAt(geo GeoPos) Mode {
	return Mode{Topocentric: true, Observer: geo}
}

// WithSidereal returns a copy of m using the given ayanamsha.
func (m Mode) WithSidereal(a Ayanamsha) Mode {
	m.Sidereal = a != Tropical
	m.Ayanamsha = a
	return m
}
