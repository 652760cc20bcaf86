package risetrans

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/thurmanmarka/risetrans/internal/ephemeris"
	"github.com/thurmanmarka/risetrans/internal/timeutil"
	"github.com/thurmanmarka/risetrans/internal/transit"
)

// Transitions holds a body's rise, upper transit (MC), set and lower
// transit (IC) for one local solar day. Missing events are zero times.
type Transitions struct {
	Rise time.Time
	MC   time.Time
	Set  time.Time
	IC   time.Time
}

func toTransitions(ts transit.TransitionSet, loc *time.Location) Transitions {
	return Transitions{
		Rise: jdTime(ts.Rise, loc),
		MC:   jdTime(ts.MC, loc),
		Set:  jdTime(ts.Set, loc),
		IC:   jdTime(ts.IC, loc),
	}
}

// ExtendedTransitions adds the neighbouring set and rise and the day's
// altitude range. When Up is true the body does not set that day and
// PrevSet/NextRise hold the rise before and the set after the up period.
type ExtendedTransitions struct {
	PrevSet  time.Time
	Rise     time.Time
	MC       time.Time
	Set      time.Time
	IC       time.Time
	NextRise time.Time
	Min      float64 // lowest altitude, degrees
	Max      float64 // highest altitude, degrees
	Up       bool
	Down     bool
}

func toExtended(e transit.ExtendedTransitionSet, loc *time.Location) ExtendedTransitions {
	return ExtendedTransitions{
		PrevSet:  jdTime(e.PrevSet, loc),
		Rise:     jdTime(e.Rise, loc),
		MC:       jdTime(e.MC, loc),
		Set:      jdTime(e.Set, loc),
		IC:       jdTime(e.IC, loc),
		NextRise: jdTime(e.NextRise, loc),
		Min:      e.Min,
		Max:      e.Max,
		Up:       e.IsUp(),
		Down:     e.IsDown(),
	}
}

// TransitionsFor returns the body's transitions for the local solar day
// containing t. Times are returned in t's location.
func (c *Calculator) TransitionsFor(body Body, loc Coordinates, t time.Time) Transitions {
	ts := c.dispatch.Transitions(timeutil.TimeToJD(t), body, loc.geo())
	return toTransitions(ts, t.Location())
}

// ExtendedTransitionsFor is TransitionsFor with the neighbouring events and
// the altitude range.
func (c *Calculator) ExtendedTransitionsFor(body Body, loc Coordinates, t time.Time) ExtendedTransitions {
	e := c.dispatch.Extended(timeutil.TimeToJD(t), body, loc.geo(), true)
	return toExtended(e, t.Location())
}

// TransitionSeries returns one ExtendedTransitions per day for days
// consecutive days starting with the day containing start. Days on which
// the body stays up or down link to the transitions bracketing that period.
func (c *Calculator) TransitionSeries(body Body, loc Coordinates, start time.Time, days int) []ExtendedTransitions {
	rows := c.tracker.Series(timeutil.TimeToJD(start), days, body, loc.geo())
	out := make([]ExtendedTransitions, len(rows))
	for i, row := range rows {
		out[i] = toExtended(row, start.Location())
	}
	return out
}

// SunTransitionSeries is TransitionSeries for the Sun.
func (c *Calculator) SunTransitionSeries(loc Coordinates, start time.Time, days int) []ExtendedTransitions {
	return c.TransitionSeries(Sun, loc, start, days)
}

// TransitionSetsFor computes TransitionsFor for several bodies in
// parallel. It stops early when ctx is cancelled.
func (c *Calculator) TransitionSetsFor(ctx context.Context, bodies []Body, loc Coordinates, t time.Time) (map[Body]Transitions, error) {
	results := make([]Transitions, len(bodies))
	g, ctx := errgroup.WithContext(ctx)
	for i, body := range bodies {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if body == ephemeris.Earth {
				return nil
			}
			results[i] = c.TransitionsFor(body, loc, t)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[Body]Transitions, len(bodies))
	for i, body := range bodies {
		out[body] = results[i]
	}
	return out, nil
}

// TransitionsFor uses the default Calculator.
func TransitionsFor(body Body, loc Coordinates, t time.Time) Transitions {
	return Default().TransitionsFor(body, loc, t)
}

// ExtendedTransitionsFor uses the default Calculator.
func ExtendedTransitionsFor(body Body, loc Coordinates, t time.Time) ExtendedTransitions {
	return Default().ExtendedTransitionsFor(body, loc, t)
}

// SunTransitionSeries uses the default Calculator.
func SunTransitionSeries(loc Coordinates, start time.Time, days int) []ExtendedTransitions {
	return Default().SunTransitionSeries(loc, start, days)
}
