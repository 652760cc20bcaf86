package transit

import (
	"github.com/thurmanmarka/risetrans/internal/ephemeris"
	"github.com/thurmanmarka/risetrans/internal/timeutil"
)

// Tracker walks consecutive days and links days on which the body stays up
// or down to the transitions bracketing that period.
type Tracker struct {
	d *Dispatcher
}

// NewTracker returns a Tracker that computes each day through d.
func NewTracker(d *Dispatcher) *Tracker {
	return &Tracker{d: d}
}

// carry is the state threaded from one day to the next.
type carry struct {
	prevSet  float64
	nextRise float64
	prevRise float64
	nextSet  float64

	// armed asks the next day for its neighbouring transitions. It is
	// cleared inside up or down periods and set again by a real crossing.
	armed bool
}

// Series returns one record per day for days days starting with the local
// day containing jd. On up days PrevSet and NextRise hold the rise before
// and the set after the period; on down days the set before and the rise
// after it.
func (t *Tracker) Series(jd float64, days int, body ephemeris.Body, geo ephemeris.GeoPos) []ExtendedTransitionSet {
	rows := make([]ExtendedTransitionSet, 0, max(days, 0))
	st := carry{armed: true}
	for i := 0; i < days; i++ {
		var row ExtendedTransitionSet
		row, st = t.step(st, jd+float64(i), body, geo)
		rows = append(rows, row)
	}
	return rows
}

func (t *Tracker) step(st carry, jd float64, body ephemeris.Body, geo ephemeris.GeoPos) (ExtendedTransitionSet, carry) {
	ref := timeutil.StartJDGeo(jd, geo.Lng)
	row := t.d.Extended(jd, body, geo, st.armed)

	rise, set := timeutil.IsReal(row.Rise), timeutil.IsReal(row.Set)
	switch {
	case set:
		st.prevSet = row.Set
		st.nextSet = 0
	case timeutil.IsReal(row.PrevSet):
		st.prevSet = row.PrevSet
	}
	if rise {
		st.prevRise = row.Rise
	}
	if timeutil.IsReal(row.NextRise) && row.NextRise > ref {
		st.nextRise = row.NextRise
	}

	switch {
	case row.IsDown():
		st.armed = false
		fwd, back := PolarSearchOffsets(ref, geo.Lat)
		if !timeutil.IsReal(st.prevSet) {
			st.prevSet = t.d.scan(ref, body, geo, SampleSet, max(back, 1), -1)
		}
		if !timeutil.IsReal(st.nextRise) || st.nextRise < ref {
			st.nextRise = t.d.scan(ref, body, geo, SampleRise, max(fwd, 1), 1)
		}
		row = row.WithLinks(st.prevSet, st.nextRise)
	case row.IsUp():
		st.armed = false
		fwd, back := PolarSearchOffsets(ref, geo.Lat)
		if !timeutil.IsReal(st.prevRise) {
			st.prevRise = t.d.scan(ref, body, geo, SampleRise, max(back, 1), -1)
		}
		if !timeutil.IsReal(st.nextSet) || st.nextSet < ref {
			st.nextSet = t.d.scan(ref, body, geo, SampleSet, max(fwd, 1), 1)
		}
		row = row.WithLinks(st.prevRise, st.nextSet)
	}

	if rise || set {
		st.armed = true
	}
	return row, st
}
