package transit

import (
	"math"

	"github.com/thurmanmarka/risetrans/internal/ephemeris"
	"github.com/thurmanmarka/risetrans/internal/timeutil"
)

const (
	// DefaultCadence is the coarse sampling step in minutes.
	DefaultCadence = 5.0

	// fineStepsPerMinute sets the refinement resolution to one second.
	fineStepsPerMinute = 60

	// refineWidth is the refinement window as a multiple of the cadence.
	refineWidth = 2.25
)

// DaySamples is the outcome of sampling one day: the interpolated rise and
// set crossings and the refined altitude extrema.
type DaySamples struct {
	Rise AltitudeSample `json:"rise"`
	Set  AltitudeSample `json:"set"`
	MC   AltitudeSample `json:"mc"`
	IC   AltitudeSample `json:"ic"`

	// Rises and Sets record a sign change of the centre altitude anywhere in
	// the day, independent of the disc-adjusted crossings above.
	Rises bool `json:"rises"`
	Sets  bool `json:"sets"`
}

// TransitionSet returns the day's events as Julian Days.
func (ds DaySamples) TransitionSet() TransitionSet {
	return TransitionSet{Rise: ds.Rise.JD, MC: ds.MC.JD, Set: ds.Set.JD, IC: ds.IC.JD}
}

// AltTransitionSet returns the day's events together with the extrema.
func (ds DaySamples) AltTransitionSet() AltTransitionSet {
	return AltTransitionSet{
		Min:  ds.IC.Value,
		Rise: ds.Rise.JD,
		MC:   ds.MC.JD,
		Set:  ds.Set.JD,
		IC:   ds.IC.JD,
		Max:  ds.MC.Value,
	}
}

// Sampler finds a day's transitions by walking the body's altitude at a
// fixed cadence. It works at any latitude, including where the body never
// crosses the horizon.
type Sampler struct {
	oracle  ephemeris.Oracle
	cadence float64
}

// NewSampler returns a Sampler stepping cadence minutes at a time. A
// non-positive cadence selects DefaultCadence.
func NewSampler(o ephemeris.Oracle, cadence float64) *Sampler {
	if cadence <= 0 {
		cadence = DefaultCadence
	}
	return &Sampler{oracle: o, cadence: cadence}
}

// Cadence returns the coarse step in minutes.
func (s *Sampler) Cadence() float64 {
	return s.cadence
}

type eclCoords struct {
	lng, lat float64
}

type dayInput struct {
	start float64
	body  ephemeris.Body
	geo   ephemeris.GeoPos
	mode  ephemeris.Mode
	base  ephemeris.Position
	disc  float64
}

// Day samples the body's altitude over the day beginning at start.
func (s *Sampler) Day(start float64, body ephemeris.Body, geo ephemeris.GeoPos) DaySamples {
	in := dayInput{
		start: start,
		body:  body,
		geo:   geo,
		mode:  ephemeris.TopocentricAt(geo),
	}
	in.base = s.oracle.Position(start, body, in.mode)
	if body.HasDisc() {
		in.disc = s.oracle.Phenomena(start, body).ApparentDiscDiameter / 2
	}

	ds, mcAt, icAt := s.scan(in)
	ds.MC = s.refine(ds.MC, mcAt, geo, true)
	ds.IC = s.refine(ds.IC, icAt, geo, false)
	return synthesize(ds)
}

func (s *Sampler) coordsAt(in dayInput, jd, frac float64) eclCoords {
	if in.body.Fast() {
		p := s.oracle.Position(jd, in.body, in.mode)
		return eclCoords{p.Lng, p.Lat}
	}
	return eclCoords{
		lng: in.base.Lng + in.base.LngSpeed*frac,
		lat: in.base.Lat + in.base.LatSpeed*frac,
	}
}

func (s *Sampler) altitude(jd float64, geo ephemeris.GeoPos, c eclCoords) float64 {
	return s.oracle.AltitudeAzimuth(jd, ephemeris.Ecliptic, geo, c.lng, c.lat).Altitude
}

// scan walks the day at the coarse cadence. Each disc-adjusted crossing
// replaces the previous one in the same direction, so the last rise and the
// last set of the day are kept.
func (s *Sampler) scan(in dayInput) (ds DaySamples, mcAt, icAt eclCoords) {
	ds.MC = AltitudeSample{Mode: SampleMC, Value: -90}
	ds.IC = AltitudeSample{Mode: SampleIC, Value: 90}

	n := int(timeutil.MinsPerDay/s.cadence) + 1
	var prev AltitudeSample
	for i := 0; i < n; i++ {
		mins := float64(i) * s.cadence
		frac := mins / timeutil.MinsPerDay
		jd := in.start + frac
		c := s.coordsAt(in, jd, frac)
		cur := AltitudeSample{Mins: mins, JD: jd, Value: s.altitude(jd, in.geo, c)}

		if cur.Value > ds.MC.Value {
			ds.MC, mcAt = cur.as(SampleMC), c
		}
		if cur.Value < ds.IC.Value {
			ds.IC, icAt = cur.as(SampleIC), c
		}

		if i > 0 {
			if prev.Value < 0 && cur.Value >= 0 {
				ds.Rises = true
			}
			if prev.Value > 0 && cur.Value <= 0 {
				ds.Sets = true
			}
			if prev.Value+in.disc < 0 && cur.Value+in.disc >= 0 {
				ds.Rise = midSample(prev.shift(in.disc), cur.shift(in.disc), SampleRise)
			}
			if prev.Value-in.disc > 0 && cur.Value-in.disc <= 0 {
				ds.Set = midSample(prev.shift(-in.disc), cur.shift(-in.disc), SampleSet)
			}
		}
		prev = cur
	}
	return ds, mcAt, icAt
}

// refine resamples around a coarse extremum at one-second resolution with
// the ecliptic coordinates held at their coarse value. Only a strictly
// better value replaces the coarse sample.
func (s *Sampler) refine(coarse AltitudeSample, c eclCoords, geo ephemeris.GeoPos, highest bool) AltitudeSample {
	steps := int(math.Round(s.cadence * refineWidth * fineStepsPerMinute))
	half := float64(steps) / fineStepsPerMinute / 2

	best := coarse
	for i := 0; i < steps+int(s.cadence); i++ {
		offset := -half + float64(i)/fineStepsPerMinute
		jd := coarse.JD + offset/timeutil.MinsPerDay
		v := s.altitude(jd, geo, c)
		if (highest && v > best.Value) || (!highest && v < best.Value) {
			best = AltitudeSample{Mode: coarse.Mode, Mins: coarse.Mins + offset, JD: jd, Value: v}
		}
	}
	return best
}

// synthesize fills a missing rise or set for bodies that only just clear
// or only just fail to clear the horizon.
func synthesize(ds DaySamples) DaySamples {
	rise, set := timeutil.IsReal(ds.Rise.JD), timeutil.IsReal(ds.Set.JD)

	switch {
	case rise && !set && ds.MC.Value >= 0 && ds.MC.Value < UpDownTolerance:
		ds.Set = horizonBetween(ds.MC, ds.IC, SampleSet)
	case set && !rise && ds.IC.Value <= 0 && ds.IC.Value > -UpDownTolerance && ds.MC.Value > 0:
		ds.Rise = horizonBetween(ds.IC, ds.MC, SampleRise)
	}

	rise, set = timeutil.IsReal(ds.Rise.JD), timeutil.IsReal(ds.Set.JD)
	if ds.MC.Value <= 0 {
		return ds
	}
	switch {
	case rise && !set && ds.Sets:
		if d := math.Abs(ds.MC.JD - ds.Rise.JD); d < UpDownTolerance {
			ds.Set = mirror(ds.MC, d, SampleSet)
		}
	case set && !rise && ds.Rises:
		if d := math.Abs(ds.Set.JD - ds.MC.JD); d < UpDownTolerance {
			ds.Rise = mirror(ds.MC, -d, SampleRise)
		}
	}
	return ds
}

// horizonBetween places the zero crossing between two extrema by the share
// of the altitude range lying above (or below) the horizon at from.
func horizonBetween(from, to AltitudeSample, mode SampleMode) AltitudeSample {
	progress := 0.0
	if span := from.Value - to.Value; span != 0 {
		progress = math.Abs(from.Value / span)
	}
	dt := math.Abs(to.JD - from.JD)
	return AltitudeSample{
		Mode: mode,
		Mins: from.Mins + dt*timeutil.MinsPerDay*progress,
		JD:   from.JD + dt*progress,
	}
}

func mirror(mc AltitudeSample, d float64, mode SampleMode) AltitudeSample {
	return AltitudeSample{
		Mode: mode,
		Mins: mc.Mins + d*timeutil.MinsPerDay,
		JD:   mc.JD + d,
	}
}
