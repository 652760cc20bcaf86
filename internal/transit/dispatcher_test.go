package transit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thurmanmarka/risetrans/internal/ephemeris"
	"github.com/thurmanmarka/risetrans/internal/timeutil"
)

var london = ephemeris.GeoPos{Lat: 51.5074, Lng: -0.1278, Alt: 11}

func TestDispatcherFastPath(t *testing.T) {
	o := &curveOracle{amp: 30, peak: 2460001.0}
	d := NewDispatcher(o)

	ts := d.Transitions(2460000.6, ephemeris.Jupiter, equator)
	assert.InDelta(t, 2460000.75, ts.Rise, 2*oneSecond)
	assert.InDelta(t, 2460001.0, ts.MC, 1e-9)
	assert.InDelta(t, 2460001.25, ts.Set, 2*oneSecond)
	assert.InDelta(t, 2460001.5, ts.IC, 1e-9)
}

func TestDispatcherTransitFallback(t *testing.T) {
	o := &curveOracle{amp: 30, peak: 2460001.0, noTransit: true}
	d := NewDispatcher(o)

	ts := d.Transitions(2460000.6, ephemeris.Jupiter, equator)
	assert.InDelta(t, 2460001.0, ts.MC, 2*oneSecond)
	assert.InDelta(t, 2460001.5, ts.IC, 2*oneSecond)

	// No crossing at all leaves the transits unresolved.
	o = &curveOracle{center: 50, amp: 10, peak: 2460001.0, noTransit: true}
	ts = NewDispatcher(o).Transitions(2460000.6, ephemeris.Jupiter, equator)
	assert.Equal(t, TransitionSet{}, ts)
}

func TestDispatcherExtendedFastPath(t *testing.T) {
	o := &curveOracle{amp: 30, peak: 2460001.0}
	ext := NewDispatcher(o).Extended(2460000.6, ephemeris.Jupiter, equator, false)

	assert.InDelta(t, 2460000.25, ext.PrevSet, 2*oneSecond)
	assert.InDelta(t, 2460000.75, ext.Rise, 2*oneSecond)
	assert.InDelta(t, 2460001.25, ext.Set, 2*oneSecond)
	assert.InDelta(t, 2460001.75, ext.NextRise, 2*oneSecond)
	assert.InDelta(t, 2460000.5, ext.IC, 1e-9)
	assert.InDelta(t, -30, ext.Min, 1e-9)
	assert.InDelta(t, 30, ext.Max, 1e-9)
	assert.False(t, ext.IsUp())
	assert.False(t, ext.IsDown())
}

func TestDispatcherSampledPath(t *testing.T) {
	o := &curveOracle{amp: 30, peak: 2460001.0}
	cache := NewDayCache(time.Minute)
	d := NewDispatcher(o, WithPolarLatitude(0), WithDayCache(cache))
	require.True(t, d.IsPolar(0))

	ts := d.Transitions(2460000.6, ephemeris.Jupiter, equator)
	assert.InDelta(t, 2460000.75, ts.Rise, 1e-4)
	assert.InDelta(t, 2460001.0, ts.MC, oneSecond)
	assert.InDelta(t, 2460001.25, ts.Set, 1e-4)
	assert.Equal(t, 1, cache.Len())

	calls := o.positions
	again := d.Transitions(2460000.9, ephemeris.Jupiter, equator)
	assert.Equal(t, ts, again)
	assert.Equal(t, calls, o.positions, "second call is served from the cache")

	ext := d.Extended(2460000.6, ephemeris.Jupiter, equator, true)
	assert.InDelta(t, 2460000.25, ext.PrevSet, 1e-4)
	assert.InDelta(t, 2460001.75, ext.NextRise, 1e-4)
	assert.InDelta(t, 30, ext.Max, 1e-9)
	assert.Equal(t, 3, cache.Len())

	alt := d.AltTransitions(2460000.6, ephemeris.Jupiter, equator)
	assert.Equal(t, ts, alt.TransitionSet())
	assert.InDelta(t, -30, alt.Min, 1e-6)

	cache.Flush()
	assert.Equal(t, 0, cache.Len())
}

func TestDispatcherSampledScanExhausts(t *testing.T) {
	o := &curveOracle{center: 40, amp: 10, peak: 2460001.0}
	d := NewDispatcher(o, WithPolarLatitude(0), WithMaxPolarDays(5))

	ext := d.Extended(2460000.6, ephemeris.Jupiter, equator, true)
	assert.True(t, ext.IsUp())
	assert.False(t, ext.IsDown())
	assert.Equal(t, 0.0, ext.PrevSet)
	assert.Equal(t, 0.0, ext.NextRise)
}

func TestDispatcherSunOrdering(t *testing.T) {
	d := NewDispatcher(ephemeris.NewMeeus())
	jd := timeutil.TimeToJD(time.Date(2024, time.May, 5, 12, 0, 0, 0, time.UTC))

	ts := d.Transitions(jd, ephemeris.Sun, london)
	require.True(t, timeutil.IsReal(ts.Rise))
	require.True(t, timeutil.IsReal(ts.Set))
	assert.Less(t, ts.Rise, ts.MC)
	assert.Less(t, ts.MC, ts.Set)
	assert.Greater(t, ts.IC, ts.Set, "ic falls outside the day's up period")

	iso := ts.ISO()
	assert.Contains(t, iso.Rise, "2024-05-05T04:")
	assert.Contains(t, iso.MC, "2024-05-05T11:")
	assert.Contains(t, iso.Set, "2024-05-05T19:")

	ext := d.Extended(jd, ephemeris.Sun, london, true)
	assert.Less(t, ext.PrevSet, ext.Rise)
	assert.Less(t, ext.Set, ext.NextRise)
	assert.Less(t, ext.Min, 0.0)
	assert.Greater(t, ext.Max, 50.0)
	assert.False(t, ext.IsUp())
	assert.False(t, ext.IsDown())
}

func TestDispatcherDeterministic(t *testing.T) {
	d := NewDispatcher(ephemeris.NewMeeus())
	jd := timeutil.TimeToJD(time.Date(2024, time.February, 10, 9, 0, 0, 0, time.UTC))
	tromso := ephemeris.GeoPos{Lat: 69.6492, Lng: 18.9553}

	for _, body := range []ephemeris.Body{ephemeris.Sun, ephemeris.Moon, ephemeris.Mars} {
		assert.Equal(t, d.Transitions(jd, body, london), d.Transitions(jd, body, london), body.String())
		assert.Equal(t, d.Extended(jd, body, tromso, false), d.Extended(jd, body, tromso, false), body.String())
	}
}
