package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/thurmanmarka/risetrans"
	"github.com/thurmanmarka/risetrans/internal/config"
	"github.com/thurmanmarka/risetrans/internal/logging"
	"github.com/thurmanmarka/risetrans/internal/timeutil"
)

var log zerolog.Logger

func main() {
	// No args or a leading flag means the rise/set command.
	args := os.Args[1:]
	cmd := "rise"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	run, ok := commands[cmd]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n\n", cmd)
		usage()
		os.Exit(1)
	}
	run(args)
}

var commands = map[string]func([]string){
	"rise":        runRiseSet,
	"transitions": runTransitions,
	"sun":         runSunSeries,
	"phase":       runPhase,
	"phases":      runPhases,
	"twilight":    runTwilight,
}

func usage() {
	fmt.Fprintf(os.Stderr, `risetrans - rise, set and transit times

Usage:
  risetrans [flags]               # rise/set for one calendar date (default)
  risetrans transitions [flags]   # rise, MC, set, IC for one or more bodies
  risetrans sun [flags]           # carried Sun series, polar days linked
  risetrans phase [flags]         # Moon illumination at an instant
  risetrans phases [flags]        # upcoming new/first/full/last quarter
  risetrans twilight [flags]      # twilight, golden and blue hour

Run "risetrans <command> -h" for the flags of each command.
`)
}

// common holds the flags shared by every command.
type common struct {
	fs      *flag.FlagSet
	lat     *float64
	lon     *float64
	elev    *float64
	date    *string
	tz      *string
	jsonOut *bool
	debug   *bool
}

func newCommon(name, help string) *common {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	c := &common{
		fs:      fs,
		lat:     fs.Float64("lat", 0, "latitude in degrees (north positive)"),
		lon:     fs.Float64("lon", 0, "longitude in degrees (east positive, west negative)"),
		elev:    fs.Float64("elev", 0, "elevation in metres"),
		date:    fs.String("date", "", "date or date-time, ISO-8601 (defaults to now)"),
		tz:      fs.String("tz", "Local", "IANA time zone name (e.g. America/Phoenix)"),
		jsonOut: fs.Bool("json", false, "output result as JSON"),
		debug:   fs.Bool("debug", false, "log engine decisions to stderr"),
	}
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: risetrans %s [flags]\n\n%s\n\nFlags:\n", name, help)
		fs.PrintDefaults()
	}
	return c
}

// parse parses args and returns the location, the instant and a calculator.
func (c *common) parse(args []string) (risetrans.Coordinates, time.Time, *risetrans.Calculator) {
	_ = c.fs.Parse(args)

	level := "info"
	if *c.debug {
		level = "debug"
	}
	l, err := logging.New(config.LoggerConfig{Level: level, Format: "console"}, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log = l.Logger

	if *c.lat == 0 && *c.lon == 0 {
		log.Warn().Msg("lat=0 lon=0 (Gulf of Guinea). Use -lat and -lon to set a real location.")
	}

	loc, err := time.LoadLocation(*c.tz)
	if err != nil {
		log.Fatal().Err(err).Str("tz", *c.tz).Msg("invalid time zone")
	}
	t := time.Now().In(loc)
	if *c.date != "" {
		if t, err = timeutil.ParseISO(*c.date, loc); err != nil {
			log.Fatal().Err(err).Msg("invalid -date")
		}
	}

	coords := risetrans.Coordinates{Lat: *c.lat, Lon: *c.lon, Elevation: *c.elev}
	return coords, t, risetrans.New(risetrans.WithLogger(log))
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to encode JSON")
	}
	fmt.Println(string(b))
}

func bodies(s string) []risetrans.Body {
	var out []risetrans.Body
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, risetrans.ParseBody(name))
		}
	}
	return out
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.RFC3339)
}

// ---------------------
// rise (default)
// ---------------------

func runRiseSet(args []string) {
	c := newCommon("rise", "Rise and set on the calendar date of -date in -tz.")
	bodyS := c.fs.String("body", "sun", "celestial body name or key (sun, moon, ma, ...)")
	event := c.fs.String("event", "both", "event: rise, set, or both")
	coords, date, calc := c.parse(args)

	body := risetrans.ParseBody(*bodyS)
	rs, err := calc.RiseSetFor(body, coords, date)
	if err != nil {
		log.Fatal().Err(err).Str("body", body.String()).Msg("error computing rise/set")
	}

	showRise := *event != "set"
	showSet := *event != "rise"

	if *c.jsonOut {
		out := struct {
			Body      string     `json:"body"`
			Latitude  float64    `json:"latitude"`
			Longitude float64    `json:"longitude"`
			Date      string     `json:"date"`
			Timezone  string     `json:"timezone"`
			Rise      *time.Time `json:"rise,omitempty"`
			Set       *time.Time `json:"set,omitempty"`
		}{
			Body:      body.String(),
			Latitude:  coords.Lat,
			Longitude: coords.Lon,
			Date:      date.Format("2006-01-02"),
			Timezone:  date.Location().String(),
		}
		if showRise && !rs.Rise.IsZero() {
			out.Rise = &rs.Rise
		}
		if showSet && !rs.Set.IsZero() {
			out.Set = &rs.Set
		}
		printJSON(out)
		return
	}

	fmt.Printf("%s rise/set for lat=%.6f lon=%.6f\n", body, coords.Lat, coords.Lon)
	fmt.Printf("Date: %s (%s)\n\n", date.Format("2006-01-02"), date.Location())
	if showRise {
		fmt.Printf("Rise: %s\n", fmtTime(rs.Rise))
	}
	if showSet {
		fmt.Printf("Set:  %s\n", fmtTime(rs.Set))
	}
}

// ---------------------
// transitions
// ---------------------

func runTransitions(args []string) {
	c := newCommon("transitions", "Rise, upper transit, set and lower transit for the solar day of -date.")
	bodyS := c.fs.String("bodies", "su,mo", "comma-separated body keys or names")
	full := c.fs.Bool("full", false, "include neighbouring set/rise and altitude range")
	coords, t, calc := c.parse(args)

	list := bodies(*bodyS)
	if *full {
		out := make(map[string]risetrans.ExtendedTransitions, len(list))
		for _, b := range list {
			out[b.String()] = calc.ExtendedTransitionsFor(b, coords, t)
		}
		if *c.jsonOut {
			printJSON(out)
			return
		}
		for _, b := range list {
			e := out[b.String()]
			fmt.Printf("%-8s prev %s  rise %s  mc %s  set %s  ic %s  next %s  alt %.2f..%.2f up=%t down=%t\n",
				b, fmtTime(e.PrevSet), fmtTime(e.Rise), fmtTime(e.MC), fmtTime(e.Set), fmtTime(e.IC),
				fmtTime(e.NextRise), e.Min, e.Max, e.Up, e.Down)
		}
		return
	}

	sets, err := calc.TransitionSetsFor(context.Background(), list, coords, t)
	if err != nil {
		log.Fatal().Err(err).Msg("transitions failed")
	}
	if *c.jsonOut {
		out := make(map[string]risetrans.Transitions, len(sets))
		for b, ts := range sets {
			out[b.String()] = ts
		}
		printJSON(out)
		return
	}
	for _, b := range list {
		ts := sets[b]
		fmt.Printf("%-8s rise %s  mc %s  set %s  ic %s\n", b, fmtTime(ts.Rise), fmtTime(ts.MC), fmtTime(ts.Set), fmtTime(ts.IC))
	}
}

// ---------------------
// sun series
// ---------------------

func runSunSeries(args []string) {
	c := newCommon("sun", "Sun transitions for consecutive days; polar days and nights link to the surrounding rise and set.")
	days := c.fs.Int("days", 28, "number of days")
	coords, t, calc := c.parse(args)

	series := calc.SunTransitionSeries(coords, t, *days)
	if *c.jsonOut {
		printJSON(series)
		return
	}
	for i, e := range series {
		state := ""
		switch {
		case e.Up:
			state = "up   "
		case e.Down:
			state = "down "
		}
		fmt.Printf("%3d %s%s  rise %s  set %s  (prev %s, next %s)\n",
			i, state, t.AddDate(0, 0, i).Format("2006-01-02"),
			fmtTime(e.Rise), fmtTime(e.Set), fmtTime(e.PrevSet), fmtTime(e.NextRise))
	}
}

// ---------------------
// phase / phases
// ---------------------

func runPhase(args []string) {
	c := newCommon("phase", "Moon illumination at -date.")
	_, t, calc := c.parse(args)

	phase := calc.MoonIlluminationAt(t)
	if *c.jsonOut {
		printJSON(phase)
		return
	}

	fmt.Printf("Moon phase at %s (%s)\n", phase.Time.Format(time.RFC3339), t.Location())
	fmt.Printf("  Name       : %s\n", phase.Name)
	fmt.Printf("  Fraction   : %.3f (%.1f%% illuminated)\n", phase.Fraction, phase.Fraction*100)
	fmt.Printf("  Elongation : %.2f°\n", phase.Elongation)
	if phase.Waxing {
		fmt.Printf("  Trend      : Waxing (illumination increasing)\n")
	} else {
		fmt.Printf("  Trend      : Waning (illumination decreasing)\n")
	}
}

func runPhases(args []string) {
	c := newCommon("phases", "Upcoming lunar phases after -date.")
	cycles := c.fs.Int("cycles", 1, "number of lunations")
	topo := c.fs.Bool("topo", false, "topocentric elongation for -lat/-lon")
	coords, t, calc := c.parse(args)

	var loc *risetrans.Coordinates
	if *topo {
		loc = &coords
	}
	phases := calc.MoonPhases(loc, t, *cycles)
	if *c.jsonOut {
		printJSON(phases)
		return
	}
	for _, p := range phases {
		fmt.Printf("%-14s %s  (%.2f days)\n", p.Name, fmtTime(p.Time), p.Days)
	}
}

// ---------------------
// twilight
// ---------------------

func runTwilight(args []string) {
	c := newCommon("twilight", "Twilight, golden hour and blue hour on the calendar date of -date.")
	coords, date, calc := c.parse(args)

	type twilight struct {
		Kind string            `json:"kind"`
		Rise risetrans.RiseSet `json:"times"`
		Err  string            `json:"error,omitempty"`
	}
	var out struct {
		Twilight []twilight               `json:"twilight"`
		Golden   risetrans.DaylightPhases `json:"golden"`
		Blue     risetrans.DaylightPhases `json:"blue"`
		Daylight float64                  `json:"daylightHours"`
	}

	for _, k := range []risetrans.TwilightKind{risetrans.TwilightCivil, risetrans.TwilightNautical, risetrans.TwilightAstronomical} {
		rs, err := calc.TwilightFor(coords, date, k)
		tw := twilight{Kind: k.String(), Rise: rs}
		if err != nil {
			tw.Err = err.Error()
		}
		out.Twilight = append(out.Twilight, tw)
	}
	out.Golden, _ = calc.GoldenHourFor(coords, date)
	out.Blue, _ = calc.BlueHourFor(coords, date)
	hours, err := calc.DaylightHours(coords, date)
	if err != nil {
		log.Warn().Err(err).Msg("daylight hours unavailable")
	}
	out.Daylight = hours

	if *c.jsonOut {
		printJSON(out)
		return
	}
	fmt.Printf("Twilight for lat=%.6f lon=%.6f on %s (%s)\n\n", coords.Lat, coords.Lon, date.Format("2006-01-02"), date.Location())
	for _, tw := range out.Twilight {
		if tw.Err != "" {
			fmt.Printf("%-13s %s\n", tw.Kind, tw.Err)
			continue
		}
		fmt.Printf("%-13s dawn %s  dusk %s\n", tw.Kind, fmtTime(tw.Rise.Rise), fmtTime(tw.Rise.Set))
	}
	fmt.Printf("golden hour   %s..%s  %s..%s\n",
		fmtTime(out.Golden.Morning.Start), fmtTime(out.Golden.Morning.End),
		fmtTime(out.Golden.Evening.Start), fmtTime(out.Golden.Evening.End))
	fmt.Printf("blue hour     %s..%s  %s..%s\n",
		fmtTime(out.Blue.Morning.Start), fmtTime(out.Blue.Morning.End),
		fmtTime(out.Blue.Evening.Start), fmtTime(out.Blue.Evening.End))
	fmt.Printf("daylight      %.2f h\n", out.Daylight)
}
