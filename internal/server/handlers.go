package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/thurmanmarka/risetrans"
	"github.com/thurmanmarka/risetrans/internal/ephemeris"
	"github.com/thurmanmarka/risetrans/internal/timeutil"
	"github.com/thurmanmarka/risetrans/internal/transit"
)

type bodyResult struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Days []any  `json:"days"`
}

type transitResponse struct {
	JD     float64          `json:"jd"`
	UTC    string           `json:"utc"`
	Loc    ephemeris.GeoPos `json:"loc"`
	Bodies []bodyResult     `json:"bodies"`
}

type shape struct {
	iso bool
	kn  bool
}

func shapeOf(c *gin.Context) shape {
	return shape{iso: parseFlag(c, "iso"), kn: parseFlag(c, "kn")}
}

func (sh shape) transitions(ts transit.TransitionSet) any {
	switch {
	case sh.kn:
		return ts.KeyNums()
	case sh.iso:
		return ts.ISO()
	}
	return ts
}

func (sh shape) alt(a transit.AltTransitionSet) any {
	if sh.kn {
		return a.KeyNums()
	}
	return a
}

func (sh shape) extended(e transit.ExtendedTransitionSet) any {
	switch {
	case sh.kn:
		return e.KeyNums()
	case sh.iso:
		return e.ISO()
	}
	return e
}

// noStore keeps responses computed for "now" out of the response cache.
func noStore(c *gin.Context) {
	if c.Query("dt") == "" {
		c.Header("Cache-Control", "no-store")
	}
}

func (s *Server) health(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"status": "ok"})
}

// riseSetTimes answers /rise-set-times: per body, one record per day.
// full=1 adds the neighbouring set/rise and the altitude range, alt=1 adds
// the range only. Days begin at local solar midnight unless tzs is given.
func (s *Server) riseSetTimes(c *gin.Context) {
	geo, err := requireLoc(c)
	if err != nil {
		fail(c, err)
		return
	}
	jd, err := parseDate(c, s.now)
	if err != nil {
		fail(c, err)
		return
	}
	days, err := parseInt(c, "days", 1, 1, maxDays)
	if err != nil {
		fail(c, err)
		return
	}
	mode, custom, err := parseMode(c)
	if err != nil {
		fail(c, err)
		return
	}
	tz, err := parseTZOffset(c)
	if err != nil {
		fail(c, err)
		return
	}

	var (
		d      = s.dispatcher(mode, custom)
		sh     = shapeOf(c)
		full   = parseFlag(c, "full")
		alt    = parseFlag(c, "alt")
		bodies = parseBodies(c.Query("bodies"))
		out    = make([]bodyResult, len(bodies))
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	for i, b := range bodies {
		g.Go(func() error {
			res := bodyResult{Key: b.Key(), Name: b.String(), Days: make([]any, 0, days)}
			for n := 0; n < days; n++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				ref := timeutil.StartJDGeoTZ(jd+float64(n), geo.Lng, tz)
				switch {
				case full:
					res.Days = append(res.Days, sh.extended(d.ExtendedAt(ref, b, geo, true)))
				case alt:
					res.Days = append(res.Days, sh.alt(d.Day(ref, b, geo).AltTransitionSet()))
				default:
					res.Days = append(res.Days, sh.transitions(d.TransitionsAt(ref, b, geo)))
				}
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("rise-set request abandoned")
		writeJSON(c, http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		c.Abort()
		return
	}

	noStore(c)
	writeJSON(c, http.StatusOK, transitResponse{
		JD:     jd,
		UTC:    timeutil.JDToISO(jd),
		Loc:    geo,
		Bodies: out,
	})
}

// sunRiseSetTimes answers /sun-rise-set-times with a carried day series,
// so polar days and nights link to the transitions around them.
func (s *Server) sunRiseSetTimes(c *gin.Context) {
	geo, err := requireLoc(c)
	if err != nil {
		fail(c, err)
		return
	}
	jd, err := parseDate(c, s.now)
	if err != nil {
		fail(c, err)
		return
	}
	days, err := parseInt(c, "days", 28, 1, maxDays)
	if err != nil {
		fail(c, err)
		return
	}
	mode, custom, err := parseMode(c)
	if err != nil {
		fail(c, err)
		return
	}

	body := ephemeris.Sun
	if b := c.Query("body"); b != "" {
		body = ephemeris.BodyFromName(b)
	}

	sh := shapeOf(c)
	series := transit.NewTracker(s.dispatcher(mode, custom)).Series(jd, days, body, geo)
	res := bodyResult{Key: body.Key(), Name: body.String(), Days: make([]any, len(series))}
	for i, e := range series {
		res.Days[i] = sh.extended(e)
	}

	noStore(c)
	writeJSON(c, http.StatusOK, transitResponse{
		JD:     jd,
		UTC:    timeutil.JDToISO(jd),
		Loc:    geo,
		Bodies: []bodyResult{res},
	})
}

type phasesResponse struct {
	JD     float64           `json:"jd"`
	UTC    string            `json:"utc"`
	Loc    *ephemeris.GeoPos `json:"loc,omitempty"`
	Phases []any             `json:"phases"`
}

// moonPhases answers /moon-phases. With loc the elongation is topocentric.
func (s *Server) moonPhases(c *gin.Context) {
	geo, err := optionalLoc(c)
	if err != nil {
		fail(c, err)
		return
	}
	jd, err := parseDate(c, s.now)
	if err != nil {
		fail(c, err)
		return
	}
	cycles, err := parseInt(c, "cycles", 1, 1, maxCycles)
	if err != nil {
		fail(c, err)
		return
	}

	var loc *risetrans.Coordinates
	if geo != nil {
		loc = &risetrans.Coordinates{Lat: geo.Lat, Lon: geo.Lng, Elevation: geo.Alt}
	}
	iso := parseFlag(c, "iso")
	phases := s.calc.Lunar(loc).Phases(jd, cycles)
	out := make([]any, len(phases))
	for i, p := range phases {
		if iso {
			out[i] = p.ISO()
		} else {
			out[i] = p
		}
	}

	noStore(c)
	writeJSON(c, http.StatusOK, phasesResponse{JD: jd, UTC: timeutil.JDToISO(jd), Loc: geo, Phases: out})
}

type phenoResult struct {
	Key        string                  `json:"key"`
	Name       string                  `json:"name"`
	Position   ephemeris.Position      `json:"position"`
	Equatorial ephemeris.EquatorialPos `json:"equatorial"`
	Horizontal *ephemeris.Horizontal   `json:"horizontal,omitempty"`
	Phenomena  ephemeris.Phenomena     `json:"phenomena"`
}

// pheno answers /pheno with positions and apparent properties. sid selects
// a sidereal zodiac for the ecliptic position; loc adds horizontal
// coordinates.
func (s *Server) pheno(c *gin.Context) {
	geo, err := optionalLoc(c)
	if err != nil {
		fail(c, err)
		return
	}
	jd, err := parseDate(c, s.now)
	if err != nil {
		fail(c, err)
		return
	}

	geoMode, err := parseSidereal(c, ephemeris.Geocentric())
	if err != nil {
		fail(c, err)
		return
	}

	o := s.calc.Oracle()
	bodies := parseBodies(c.Query("bodies"))
	out := make([]phenoResult, 0, len(bodies))
	for _, b := range bodies {
		r := phenoResult{
			Key:        b.Key(),
			Name:       b.String(),
			Position:   o.Position(jd, b, geoMode),
			Equatorial: o.Equatorial(jd, b, ephemeris.Geocentric()),
			Phenomena:  o.Phenomena(jd, b),
		}
		if geo != nil {
			topo := o.Position(jd, b, ephemeris.TopocentricAt(*geo))
			hz := o.AltitudeAzimuth(jd, ephemeris.Ecliptic, *geo, topo.Lng, topo.Lat)
			r.Horizontal = &hz
		}
		out = append(out, r)
	}

	noStore(c)
	writeJSON(c, http.StatusOK, gin.H{
		"jd":     jd,
		"utc":    timeutil.JDToISO(jd),
		"bodies": out,
	})
}
