package ephemeris

import "sync"

// Position is a body's ecliptic position in degrees, its distance in AU and
// its daily motion in degrees/day.
type Position struct {
	Lng      float64 `json:"lng"`
	Lat      float64 `json:"lat"`
	Distance float64 `json:"distance"`
	LngSpeed float64 `json:"lngSpeed"`
	LatSpeed float64 `json:"latSpeed"`
}

// EquatorialPos holds right ascension and declination in degrees and the
// distance in AU.
type EquatorialPos struct {
	RA       float64 `json:"ra"`
	Dec      float64 `json:"dec"`
	Distance float64 `json:"distance"`
}

// Horizontal holds azimuth (from south, westward) and altitude in degrees.
// Apparent is the altitude with refraction applied.
type Horizontal struct {
	Azimuth  float64 `json:"azimuth"`
	Altitude float64 `json:"altitude"`
	Apparent float64 `json:"apparent"`
}

// Phenomena are the apparent properties of a body as seen from the Earth.
// Angles and the disc diameter are in degrees.
type Phenomena struct {
	PhaseAngle           float64 `json:"phaseAngle"`
	PhaseIlluminated     float64 `json:"phaseIlluminated"`
	Elongation           float64 `json:"elongation"`
	ApparentDiscDiameter float64 `json:"apparentDiameterOfDisc"`
	ApparentMagnitude    float64 `json:"apparentMagnitude"`
}

// Oracle answers position queries. Every call receives the mode it needs;
// implementations must not depend on state set by an earlier call.
type Oracle interface {
	// Position returns the body's ecliptic position at UT Julian Day jd.
	Position(jd float64, body Body, mode Mode) Position
	// Equatorial returns the body's tropical equatorial position.
	Equatorial(jd float64, body Body, mode Mode) EquatorialPos
	// AltitudeAzimuth converts a target given in frame to horizontal
	// coordinates for an observer at geo.
	AltitudeAzimuth(jd float64, frame Frame, geo GeoPos, lng, lat float64) Horizontal
	// Phenomena returns the body's apparent properties.
	Phenomena(jd float64, body Body) Phenomena
	// NextEvent returns the first instant at or after jd at which event
	// happens for the body, or 0 when none is found.
	NextEvent(jd float64, body Body, geo GeoPos, event Event, rs RiseSetMode) float64
}

// Altitude returns the body's altitude in degrees as seen by an observer at
// geo, using its topocentric ecliptic position.
func Altitude(o Oracle, jd float64, body Body, geo GeoPos) float64 {
	pos := o.Position(jd, body, TopocentricAt(geo))
	return o.AltitudeAzimuth(jd, Ecliptic, geo, pos.Lng, pos.Lat).Altitude
}

// Serialized wraps o so that at most one call runs at a time. Use it for
// backends that hold process-wide state.
func Serialized(o Oracle) Oracle {
	if _, ok := o.(*serialized); ok {
		return o
	}
	return &serialized{inner: o}
}

type serialized struct {
	mu    sync.Mutex
	inner Oracle
}

func (s *serialized) Position(jd float64, body Body, mode Mode) Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Position(jd, body, mode)
}

func (s *serialized) Equatorial(jd float64, body Body, mode Mode) EquatorialPos {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Equatorial(jd, body, mode)
}

func (s *serialized) AltitudeAzimuth(jd float64, frame Frame, geo GeoPos, lng, lat float64) Horizontal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.AltitudeAzimuth(jd, frame, geo, lng, lat)
}

func (s *serialized) Phenomena(jd float64, body Body) Phenomena {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Phenomena(jd, body)
}

func (s *serialized) NextEvent(jd float64, body Body, geo GeoPos, event Event, rs RiseSetMode) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.NextEvent(jd, body, geo, event, rs)
}
