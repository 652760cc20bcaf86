package transit

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/thurmanmarka/risetrans/internal/ephemeris"
	"github.com/thurmanmarka/risetrans/internal/timeutil"
)

// DefaultPolarLatitude is the |latitude| from which the sampler replaces
// the oracle's event search.
const DefaultPolarLatitude = 60.0

// Dispatcher chooses between the oracle's event search and the altitude
// sampler depending on latitude, and assembles the transition records.
type Dispatcher struct {
	oracle   ephemeris.Oracle
	sampler  *Sampler
	cadence  float64
	polarLat float64
	maxDays  int
	riseSet  ephemeris.RiseSetMode
	fallback ephemeris.RiseSetMode
	cache    *DayCache
	log      zerolog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithCadence sets the sampler cadence in minutes.
func WithCadence(mins float64) Option {
	return func(d *Dispatcher) {
		if mins > 0 {
			d.cadence = mins
		}
	}
}

// WithPolarLatitude sets the |latitude| at which sampling takes over.
func WithPolarLatitude(lat float64) Option {
	return func(d *Dispatcher) {
		d.polarLat = math.Abs(lat)
	}
}

// WithMaxPolarDays bounds the day-by-day scans.
func WithMaxPolarDays(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.maxDays = n
		}
	}
}

// WithRiseSetMode sets the convention used by the oracle's rise/set search.
func WithRiseSetMode(m ephemeris.RiseSetMode) Option {
	return func(d *Dispatcher) {
		d.riseSet = m
	}
}

// WithDayCache shares a cache of sampled days.
func WithDayCache(c *DayCache) Option {
	return func(d *Dispatcher) {
		d.cache = c
	}
}

// WithLogger sets the logger used for fallback and scan diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Dispatcher) {
		d.log = l
	}
}

// NewDispatcher returns a Dispatcher backed by o.
func NewDispatcher(o ephemeris.Oracle, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		oracle:   o,
		cadence:  DefaultCadence,
		polarLat: DefaultPolarLatitude,
		maxDays:  MaxPolarDays,
		riseSet:  ephemeris.CenterDiscNoRefraction,
		fallback: ephemeris.FixedDisc,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.sampler = NewSampler(o, d.cadence)
	return d
}

// Oracle returns the position oracle behind d.
func (d *Dispatcher) Oracle() ephemeris.Oracle {
	return d.oracle
}

// Sampler returns the altitude sampler used for polar latitudes.
func (d *Dispatcher) Sampler() *Sampler {
	return d.sampler
}

// IsPolar reports whether lat is handled by the sampler.
func (d *Dispatcher) IsPolar(lat float64) bool {
	return math.Abs(lat) >= d.polarLat
}

// Day returns the sampled day beginning at start, from the cache when
// possible.
func (d *Dispatcher) Day(start float64, body ephemeris.Body, geo ephemeris.GeoPos) DaySamples {
	key := dayKey(body, start, geo, d.cadence)
	if ds, ok := d.cache.get(key); ok {
		return ds
	}
	ds := d.sampler.Day(start, body, geo)
	d.cache.put(key, ds)
	return ds
}

// Transitions returns the body's rise, MC, set and IC for the local day
// containing jd.
func (d *Dispatcher) Transitions(jd float64, body ephemeris.Body, geo ephemeris.GeoPos) TransitionSet {
	return d.TransitionsAt(timeutil.StartJDGeo(jd, geo.Lng), body, geo)
}

// TransitionsAt is Transitions for a day beginning at ref.
func (d *Dispatcher) TransitionsAt(ref float64, body ephemeris.Body, geo ephemeris.GeoPos) TransitionSet {
	if d.IsPolar(geo.Lat) {
		return d.Day(ref, body, geo).TransitionSet()
	}

	rise := d.next(ref, body, geo, ephemeris.Rise)
	set := d.next(realOr(rise, ref), body, geo, ephemeris.Set)
	mc := d.nextMC(ref, body, geo)
	ic := d.nextIC(realOr(mc, ref), body, geo)
	return TransitionSet{Rise: rise, MC: mc, Set: set, IC: ic}
}

// AltTransitions samples the local day containing jd at any latitude and
// returns the transitions with the altitude extrema.
func (d *Dispatcher) AltTransitions(jd float64, body ephemeris.Body, geo ephemeris.GeoPos) AltTransitionSet {
	return d.Day(timeutil.StartJDGeo(jd, geo.Lng), body, geo).AltTransitionSet()
}

// Extended returns the body's transitions for the local day containing jd
// together with the previous set, next rise and the altitude extrema. At
// polar latitudes the neighbours are only looked up when withPrevNext is
// set.
func (d *Dispatcher) Extended(jd float64, body ephemeris.Body, geo ephemeris.GeoPos, withPrevNext bool) ExtendedTransitionSet {
	return d.ExtendedAt(timeutil.StartJDGeo(jd, geo.Lng), body, geo, withPrevNext)
}

// ExtendedAt is Extended for a day beginning at ref, for callers whose day
// boundary follows a time zone rather than the observer's longitude.
func (d *Dispatcher) ExtendedAt(ref float64, body ephemeris.Body, geo ephemeris.GeoPos, withPrevNext bool) ExtendedTransitionSet {
	if d.IsPolar(geo.Lat) {
		return d.extendedSampled(ref, body, geo, withPrevNext)
	}

	ext := ExtendedTransitionSet{
		PrevSet: d.next(ref-1, body, geo, ephemeris.Set),
		Rise:    d.next(ref, body, geo, ephemeris.Rise),
		Set:     d.next(ref, body, geo, ephemeris.Set),
		MC:      d.nextMC(ref, body, geo),
		IC:      d.nextIC(ref, body, geo),
	}
	ext.NextRise = d.next(realOr(ext.Set, ref), body, geo, ephemeris.Rise)
	if timeutil.IsReal(ext.IC) {
		ext.Min = ephemeris.Altitude(d.oracle, ext.IC, body, geo)
	}
	if timeutil.IsReal(ext.MC) {
		ext.Max = ephemeris.Altitude(d.oracle, ext.MC, body, geo)
	}
	return ext
}

func (d *Dispatcher) extendedSampled(ref float64, body ephemeris.Body, geo ephemeris.GeoPos, withPrevNext bool) ExtendedTransitionSet {
	base := d.Day(ref, body, geo)
	ext := ExtendedTransitionSet{
		Rise: base.Rise.JD,
		MC:   base.MC.JD,
		Set:  base.Set.JD,
		IC:   base.IC.JD,
		Min:  base.IC.Value,
		Max:  base.MC.Value,
	}
	if !withPrevNext {
		return ext
	}

	ext.PrevSet = d.Day(ref-1, body, geo).Set.JD
	ext.NextRise = d.Day(ref+1, body, geo).Rise.JD
	if timeutil.IsReal(ext.PrevSet) && timeutil.IsReal(ext.NextRise) {
		return ext
	}

	fwd, back := PolarSearchOffsets(ref, geo.Lat)
	if !timeutil.IsReal(ext.NextRise) {
		ext.NextRise = d.scan(ref, body, geo, SampleRise, max(fwd, 2), 1)
	}
	if !timeutil.IsReal(ext.PrevSet) {
		ext.PrevSet = d.scan(ref, body, geo, SampleSet, max(back, 2), -1)
	}
	return ext
}

// scan samples whole days away from ref in direction dir, starting from the
// day offset from, until a day has the wanted crossing. It returns 0 when
// none turns up within the polar bound.
func (d *Dispatcher) scan(ref float64, body ephemeris.Body, geo ephemeris.GeoPos, want SampleMode, from, dir int) float64 {
	for k := from; k < d.maxDays; k++ {
		ds := d.Day(ref+float64(dir*k), body, geo)
		jd := ds.Set.JD
		if want == SampleRise {
			jd = ds.Rise.JD
		}
		if timeutil.IsReal(jd) {
			d.log.Debug().
				Str("body", body.String()).
				Str("event", want.String()).
				Int("days", dir*k).
				Msg("polar scan resolved")
			return jd
		}
	}
	d.log.Debug().
		Str("body", body.String()).
		Str("event", want.String()).
		Int("from", dir*from).
		Msg("polar scan exhausted")
	return 0
}

func (d *Dispatcher) next(jd float64, body ephemeris.Body, geo ephemeris.GeoPos, ev ephemeris.Event) float64 {
	return d.oracle.NextEvent(jd, body, geo, ev, d.riseSet)
}

// nextMC falls back to the midpoint of the next rise and set when the
// oracle has no upper transit.
func (d *Dispatcher) nextMC(jd float64, body ephemeris.Body, geo ephemeris.GeoPos) float64 {
	if mc := d.next(jd, body, geo, ephemeris.MC); mc >= 1 {
		return mc
	}
	rise := d.oracle.NextEvent(jd, body, geo, ephemeris.Rise, d.fallback)
	if !timeutil.IsReal(rise) {
		return 0
	}
	set := d.oracle.NextEvent(rise, body, geo, ephemeris.Set, d.fallback)
	if !timeutil.IsReal(set) {
		return 0
	}
	d.log.Debug().Str("body", body.String()).Msg("mc from rise/set midpoint")
	return (rise + set) / 2
}

// nextIC falls back to the midpoint of the next set and the following rise.
func (d *Dispatcher) nextIC(jd float64, body ephemeris.Body, geo ephemeris.GeoPos) float64 {
	if ic := d.next(jd, body, geo, ephemeris.IC); ic >= 1 {
		return ic
	}
	set := d.oracle.NextEvent(jd, body, geo, ephemeris.Set, d.fallback)
	if !timeutil.IsReal(set) {
		return 0
	}
	rise := d.oracle.NextEvent(set, body, geo, ephemeris.Rise, d.fallback)
	if !timeutil.IsReal(rise) {
		return 0
	}
	d.log.Debug().Str("body", body.String()).Msg("ic from set/rise midpoint")
	return (set + rise) / 2
}

func realOr(jd, fallback float64) float64 {
	if timeutil.IsReal(jd) {
		return jd
	}
	return fallback
}
