// Package risetrans computes rise, set and meridian transit times for the
// Sun, the Moon and the planets, including at polar latitudes where a body
// can stay above or below the horizon for days, plus lunar phases and
// twilight windows.
//
// A Calculator bundles a position oracle with the transition engine. The
// package-level functions use a shared default Calculator backed by the
// in-repo Meeus ephemeris.
package risetrans

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/thurmanmarka/risetrans/internal/ephemeris"
	"github.com/thurmanmarka/risetrans/internal/lunar"
	"github.com/thurmanmarka/risetrans/internal/timeutil"
	"github.com/thurmanmarka/risetrans/internal/transit"
)

// Body represents a celestial body.
type Body = ephemeris.Body

const (
	Sun     = ephemeris.Sun
	Moon    = ephemeris.Moon
	Mercury = ephemeris.Mercury
	Venus   = ephemeris.Venus
	Mars    = ephemeris.Mars
	Jupiter = ephemeris.Jupiter
	Saturn  = ephemeris.Saturn
	Uranus  = ephemeris.Uranus
	Neptune = ephemeris.Neptune
	Pluto   = ephemeris.Pluto
)

// ParseBody accepts a two-letter key ("su", "mo", ...) or an English name.
// Unknown names map to the Earth placeholder, which never rises or sets.
func ParseBody(name string) Body {
	return ephemeris.BodyFromName(name)
}

// Coordinates represent an observer's location.
type Coordinates struct {
	Lat       float64 // degrees, north positive
	Lon       float64 // degrees, east positive (west negative, e.g. -105 for 105°W)
	Elevation float64 // meters above sea level
}

func (c Coordinates) geo() ephemeris.GeoPos {
	return ephemeris.GeoPos{Lat: c.Lat, Lng: c.Lon, Alt: c.Elevation}
}

// RiseSet holds rise and set times of a body on a given date. A zero time
// means the event does not happen that day.
type RiseSet struct {
	Rise time.Time
	Set  time.Time
}

var (
	// ErrNoRiseNoSet is returned when a body does not rise or set on that date at that location.
	ErrNoRiseNoSet = errors.New("body does not rise or set on this date")

	// ErrNotImplemented is returned for the Earth placeholder.
	ErrNotImplemented = errors.New("not implemented for this body")
)

// Calculator computes transitions and phases from one position oracle.
// It is safe for concurrent use when its oracle is.
type Calculator struct {
	oracle   ephemeris.Oracle
	dispatch *transit.Dispatcher
	civil    *transit.Dispatcher
	tracker  *transit.Tracker
	log      zerolog.Logger
}

type settings struct {
	oracle     ephemeris.Oracle
	serialize  bool
	log        zerolog.Logger
	transitOps []transit.Option
}

// Option configures a Calculator.
type Option func(*settings)

// WithOracle replaces the built-in Meeus ephemeris.
func WithOracle(o ephemeris.Oracle) Option {
	return func(s *settings) {
		s.oracle = o
	}
}

// WithSerializedOracle allows only one oracle call at a time.
func WithSerializedOracle() Option {
	return func(s *settings) {
		s.serialize = true
	}
}

// WithLogger sets the logger handed to the engine.
func WithLogger(l zerolog.Logger) Option {
	return func(s *settings) {
		s.log = l
	}
}

// WithTransitOptions passes options through to the transition engine.
func WithTransitOptions(opts ...transit.Option) Option {
	return func(s *settings) {
		s.transitOps = append(s.transitOps, opts...)
	}
}

// New returns a Calculator.
func New(opts ...Option) *Calculator {
	s := settings{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&s)
	}
	if s.oracle == nil {
		s.oracle = ephemeris.NewMeeus()
	}
	if s.serialize {
		s.oracle = ephemeris.Serialized(s.oracle)
	}

	base := append([]transit.Option{transit.WithLogger(s.log)}, s.transitOps...)
	c := &Calculator{
		oracle:   s.oracle,
		dispatch: transit.NewDispatcher(s.oracle, base...),
		// Calendar rise/set follows the almanac convention: upper limb
		// with refraction.
		civil: transit.NewDispatcher(s.oracle, append(base, transit.WithRiseSetMode(ephemeris.Unadjusted))...),
		log:   s.log,
	}
	c.tracker = transit.NewTracker(c.dispatch)
	return c
}

var (
	defaultOnce sync.Once
	defaultCalc *Calculator
)

// Default returns the shared Calculator used by the package-level functions.
func Default() *Calculator {
	defaultOnce.Do(func() {
		defaultCalc = New(WithTransitOptions(transit.WithDayCache(transit.NewDayCache(30 * time.Minute))))
	})
	return defaultCalc
}

// Oracle returns the calculator's position oracle.
func (c *Calculator) Oracle() ephemeris.Oracle {
	return c.oracle
}

// Dispatcher returns the transition engine.
func (c *Calculator) Dispatcher() *transit.Dispatcher {
	return c.dispatch
}

// Lunar returns a phase solver, topocentric when loc is not nil.
func (c *Calculator) Lunar(loc *Coordinates) *lunar.Solver {
	opts := []lunar.Option{lunar.WithLogger(c.log)}
	if loc != nil {
		opts = append(opts, lunar.WithObserver(loc.geo()))
	}
	return lunar.NewSolver(c.oracle, opts...)
}

// localDay returns the Julian Days bounding the calendar date of date in
// its own location.
func localDay(date time.Time) (start, end float64) {
	y, m, d := date.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, date.Location())
	next := midnight.AddDate(0, 0, 1)
	return timeutil.TimeToJD(midnight), timeutil.TimeToJD(next)
}

// jdTime converts jd to loc, or the zero time for a sentinel.
func jdTime(jd float64, loc *time.Location) time.Time {
	if !timeutil.IsReal(jd) {
		return time.Time{}
	}
	return timeutil.JDToTime(jd).In(loc)
}

func within(jd, start, end float64) bool {
	return timeutil.IsReal(jd) && jd >= start && jd < end
}

// RiseSetFor returns rise and set times for the body on the local calendar
// date of date, in date's location. Either time may be zero when the event
// falls on another day; ErrNoRiseNoSet is returned when neither happens.
func (c *Calculator) RiseSetFor(body Body, loc Coordinates, date time.Time) (RiseSet, error) {
	if body == ephemeris.Earth {
		return RiseSet{}, ErrNotImplemented
	}
	start, end := localDay(date)
	ext := c.civil.ExtendedAt(start, body, loc.geo(), false)

	var rs RiseSet
	if within(ext.Rise, start, end) {
		rs.Rise = jdTime(ext.Rise, date.Location())
	}
	if within(ext.Set, start, end) {
		rs.Set = jdTime(ext.Set, date.Location())
	}
	if rs.Rise.IsZero() && rs.Set.IsZero() {
		return RiseSet{}, ErrNoRiseNoSet
	}
	return rs, nil
}

// RiseSetFor uses the default Calculator.
func RiseSetFor(body Body, loc Coordinates, date time.Time) (RiseSet, error) {
	return Default().RiseSetFor(body, loc, date)
}

// SlideIntoSunset returns sunrise and sunset for the Sun at the given
// location and date.
func SlideIntoSunset(loc Coordinates, date time.Time) (RiseSet, error) {
	return RiseSetFor(Sun, loc, date)
}
