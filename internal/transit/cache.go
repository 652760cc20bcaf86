package transit

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/thurmanmarka/risetrans/internal/ephemeris"
)

// DayCache memoizes sampled days so that polar scans and neighbouring-day
// lookups do not resample the same day. A nil *DayCache disables caching.
type DayCache struct {
	c *cache.Cache
}

// NewDayCache returns a cache whose entries expire after ttl.
func NewDayCache(ttl time.Duration) *DayCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &DayCache{c: cache.New(ttl, 2*ttl)}
}

func dayKey(body ephemeris.Body, startJD float64, geo ephemeris.GeoPos, cadence float64) string {
	return fmt.Sprintf("%s|%.6f|%.5f|%.5f|%.1f|%g", body.Key(), startJD, geo.Lat, geo.Lng, geo.Alt, cadence)
}

func (dc *DayCache) get(key string) (DaySamples, bool) {
	if dc == nil {
		return DaySamples{}, false
	}
	v, ok := dc.c.Get(key)
	if !ok {
		return DaySamples{}, false
	}
	ds, ok := v.(DaySamples)
	return ds, ok
}

func (dc *DayCache) put(key string, ds DaySamples) {
	if dc == nil {
		return
	}
	dc.c.SetDefault(key, ds)
}

// Len returns the number of cached days.
func (dc *DayCache) Len() int {
	if dc == nil {
		return 0
	}
	return dc.c.ItemCount()
}

// Flush drops every cached day.
func (dc *DayCache) Flush() {
	if dc != nil {
		dc.c.Flush()
	}
}
