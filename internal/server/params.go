package server

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/thurmanmarka/risetrans/internal/ephemeris"
	"github.com/thurmanmarka/risetrans/internal/timeutil"
)

const (
	maxDays   = 366
	maxCycles = 24
)

var defaultBodies = []ephemeris.Body{ephemeris.Sun, ephemeris.Moon}

// parseLoc reads "lat,lng[,alt]".
func parseLoc(s string) (ephemeris.GeoPos, error) {
	parts := strings.Split(s, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return ephemeris.GeoPos{}, fmt.Errorf("loc must be lat,lng[,alt], got %q", s)
	}
	vals := make([]float64, 3)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return ephemeris.GeoPos{}, fmt.Errorf("loc: %w", err)
		}
		vals[i] = v
	}
	geo := ephemeris.GeoPos{Lat: vals[0], Lng: vals[1], Alt: vals[2]}
	if geo.Lat < -90 || geo.Lat > 90 {
		return geo, fmt.Errorf("latitude %g out of range", geo.Lat)
	}
	if geo.Lng < -180 || geo.Lng > 180 {
		return geo, fmt.Errorf("longitude %g out of range", geo.Lng)
	}
	return geo, nil
}

// requireLoc reads the mandatory loc parameter.
func requireLoc(c *gin.Context) (ephemeris.GeoPos, error) {
	s, ok := c.GetQuery("loc")
	if !ok || s == "" {
		return ephemeris.GeoPos{}, fmt.Errorf("missing loc")
	}
	return parseLoc(s)
}

// optionalLoc returns nil when loc is absent.
func optionalLoc(c *gin.Context) (*ephemeris.GeoPos, error) {
	s := c.Query("loc")
	if s == "" {
		return nil, nil
	}
	geo, err := parseLoc(s)
	if err != nil {
		return nil, err
	}
	return &geo, nil
}

// parseDate reads dt as a UT Julian Day. now is used when dt is absent.
func parseDate(c *gin.Context, now func() time.Time) (float64, error) {
	s := c.Query("dt")
	if s == "" {
		return timeutil.TimeToJD(now()), nil
	}
	t, err := timeutil.ParseISO(s, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("dt: %w", err)
	}
	return timeutil.TimeToJD(t), nil
}

// parseBodies reads a comma-separated list of body keys or names. "all"
// selects every body with a position.
func parseBodies(s string) []ephemeris.Body {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return defaultBodies
	case "all":
		return ephemeris.Bodies()
	}
	var bodies []ephemeris.Body
	seen := make(map[ephemeris.Body]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		b := ephemeris.BodyFromName(part)
		if !seen[b] {
			seen[b] = true
			bodies = append(bodies, b)
		}
	}
	return bodies
}

// parseInt reads an integer query parameter bounded to [lo, hi].
func parseInt(c *gin.Context, key string, def, lo, hi int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%s must be between %d and %d", key, lo, hi)
	}
	return n, nil
}

// parseFlag treats "1", "true", "yes" and "y" as true.
func parseFlag(c *gin.Context, key string) bool {
	switch strings.ToLower(c.Query(key)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

// parseMode reads the optional rise/set mode.
func parseMode(c *gin.Context) (ephemeris.RiseSetMode, bool, error) {
	s := c.Query("mode")
	if s == "" {
		return 0, false, nil
	}
	m, err := ephemeris.ParseRiseSetMode(s)
	if err != nil {
		return 0, false, err
	}
	return m, true, nil
}

// parseTZOffset reads tzs, a time zone offset in seconds east of UTC that
// moves the day boundary from local solar midnight to civil midnight.
func parseTZOffset(c *gin.Context) (*int, error) {
	if c.Query("tzs") == "" {
		return nil, nil
	}
	n, err := parseInt(c, "tzs", 0, -14*3600, 14*3600)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// parseSidereal reads the optional ayanamsha for sidereal positions.
func parseSidereal(c *gin.Context, mode ephemeris.Mode) (ephemeris.Mode, error) {
	s := c.Query("sid")
	if s == "" {
		return mode, nil
	}
	a, err := ephemeris.ParseAyanamsha(s)
	if err != nil {
		return mode, err
	}
	return mode.WithSidereal(a), nil
}
