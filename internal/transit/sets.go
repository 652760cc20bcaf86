package transit

import (
	"github.com/thurmanmarka/risetrans/internal/timeutil"
)

// UpDownTolerance is the altitude margin in degrees within which a body is
// still counted as continuously up or down. It doubles as the day-fraction
// bound used when mirroring a missing rise or set around MC.
const UpDownTolerance = 0.5

// KeyNum is one labelled value of a flattened record.
type KeyNum struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// ---- TransitionSet ----

// TransitionSet is one day's rise, upper transit, set and lower transit.
// Any field may be a sentinel (below timeutil.MinJD).
type TransitionSet struct {
	Rise float64 `json:"rise"`
	MC   float64 `json:"mc"`
	Set  float64 `json:"set"`
	IC   float64 `json:"ic"`
}

// TransitionSetISO is TransitionSet with ISO-8601 UTC strings.
type TransitionSetISO struct {
	Rise string `json:"rise"`
	MC   string `json:"mc"`
	Set  string `json:"set"`
	IC   string `json:"ic"`
}

// ISO converts the set to ISO strings; sentinels become "".
func (ts TransitionSet) ISO() TransitionSetISO {
	return TransitionSetISO{
		Rise: timeutil.JDToISO(ts.Rise),
		MC:   timeutil.JDToISO(ts.MC),
		Set:  timeutil.JDToISO(ts.Set),
		IC:   timeutil.JDToISO(ts.IC),
	}
}

// KeyNums flattens the set in rise, mc, set, ic order.
func (ts TransitionSet) KeyNums() []KeyNum {
	return []KeyNum{
		{"rise", ts.Rise},
		{"mc", ts.MC},
		{"set", ts.Set},
		{"ic", ts.IC},
	}
}

// ---- AltTransitionSet ----

// AltTransitionSet is a TransitionSet with the day's altitude extrema.
type AltTransitionSet struct {
	Min  float64 `json:"min"`
	Rise float64 `json:"rise"`
	MC   float64 `json:"mc"`
	Set  float64 `json:"set"`
	IC   float64 `json:"ic"`
	Max  float64 `json:"max"`
}

// TransitionSet drops the extrema.
func (a AltTransitionSet) TransitionSet() TransitionSet {
	return TransitionSet{Rise: a.Rise, MC: a.MC, Set: a.Set, IC: a.IC}
}

// KeyNums flattens the set.
func (a AltTransitionSet) KeyNums() []KeyNum {
	return []KeyNum{
		{"min", a.Min},
		{"rise", a.Rise},
		{"mc", a.MC},
		{"set", a.Set},
		{"ic", a.IC},
		{"max", a.Max},
	}
}

// ---- ExtendedTransitionSet ----

// ExtendedTransitionSet adds links to the neighbouring days and the day's
// altitude extrema. When the body stays up all day PrevSet and NextRise hold
// the rise before and the set after the up period instead.
type ExtendedTransitionSet struct {
	PrevSet  float64 `json:"prevSet"`
	Rise     float64 `json:"rise"`
	MC       float64 `json:"mc"`
	Set      float64 `json:"set"`
	IC       float64 `json:"ic"`
	NextRise float64 `json:"nextRise"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// IsUp reports a day without a rise or set on which the body never drops
// meaningfully below the horizon.
func (e ExtendedTransitionSet) IsUp() bool {
	return (!timeutil.IsReal(e.Rise) || !timeutil.IsReal(e.Set)) && e.Min >= -UpDownTolerance
}

// IsDown reports a day without a rise or set on which the body never climbs
// meaningfully above the horizon.
func (e ExtendedTransitionSet) IsDown() bool {
	return (!timeutil.IsReal(e.Rise) || !timeutil.IsReal(e.Set)) && e.Max <= UpDownTolerance
}

// UpPeriodOver reports the last day of an up period: a set without a rise,
// after which the body drops below the horizon.
func (e ExtendedTransitionSet) UpPeriodOver() bool {
	return !timeutil.IsReal(e.Rise) && timeutil.IsReal(e.Set) && e.Min < 0
}

// NeedsRise reports a day without a rise on which the body still crosses
// the horizon, a pattern seen at the edges of polar periods.
func (e ExtendedTransitionSet) NeedsRise() bool {
	return !timeutil.IsReal(e.Rise) && e.Max > 0 && e.Min < 0
}

// linksUp reports whether the body stays strictly above the horizon all
// day, so the links hold the rise before and the set after the period.
func (e ExtendedTransitionSet) linksUp() bool {
	return e.Min >= 0 && e.Max > 0
}

// TransitionSet drops the links and extrema.
func (e ExtendedTransitionSet) TransitionSet() TransitionSet {
	return TransitionSet{Rise: e.Rise, MC: e.MC, Set: e.Set, IC: e.IC}
}

// WithLinks returns a copy with the cross-day links replaced.
func (e ExtendedTransitionSet) WithLinks(prev, next float64) ExtendedTransitionSet {
	e.PrevSet = prev
	e.NextRise = next
	return e
}

// ExtendedTransitionSetISO is ExtendedTransitionSet with ISO strings. Only one
// of each prev/next pair is filled, depending on whether the body is up.
type ExtendedTransitionSetISO struct {
	PrevSet  string  `json:"prevSet,omitempty"`
	PrevRise string  `json:"prevRise,omitempty"`
	Rise     string  `json:"rise"`
	MC       string  `json:"mc"`
	Set      string  `json:"set"`
	IC       string  `json:"ic"`
	NextRise string  `json:"nextRise,omitempty"`
	NextSet  string  `json:"nextSet,omitempty"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// ISO converts the set to ISO strings.
func (e ExtendedTransitionSet) ISO() ExtendedTransitionSetISO {
	out := ExtendedTransitionSetISO{
		Rise: timeutil.JDToISO(e.Rise),
		MC:   timeutil.JDToISO(e.MC),
		Set:  timeutil.JDToISO(e.Set),
		IC:   timeutil.JDToISO(e.IC),
		Min:  e.Min,
		Max:  e.Max,
	}
	if e.IsUp() {
		out.PrevRise = timeutil.JDToISO(e.PrevSet)
		out.NextSet = timeutil.JDToISO(e.NextRise)
	} else {
		out.PrevSet = timeutil.JDToISO(e.PrevSet)
		out.NextRise = timeutil.JDToISO(e.NextRise)
	}
	return out
}

// KeyNums flattens the set. The links are labelled as a rise and a set
// only when the body never dips below the horizon, so a day inside the
// tolerance band of IsUp keeps the prev_set and next_rise labels.
func (e ExtendedTransitionSet) KeyNums() []KeyNum {
	prevKey, nextKey := "prev_set", "next_rise"
	if e.linksUp() {
		prevKey, nextKey = "prev_rise", "next_set"
	}
	return []KeyNum{
		{prevKey, e.PrevSet},
		{"rise", e.Rise},
		{"mc", e.MC},
		{"set", e.Set},
		{"ic", e.IC},
		{nextKey, e.NextRise},
		{"min", e.Min},
		{"max", e.Max},
	}
}
