// Command risetrans-profiler compares computed rise/set or twilight times
// against a reference table and reports the error distribution.
//
// CSV format:
//
//	date,rise,set
//	2025-01-01,07:32,17:12
//	2025-01-02,07:32,17:13
//
// Dates are YYYY-MM-DD; rise and set are local HH:MM times in -tz. With
// -ref sunrise the table is generated by the go-sunrise algorithm instead.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/thurmanmarka/risetrans"
	"github.com/thurmanmarka/risetrans/internal/config"
	"github.com/thurmanmarka/risetrans/internal/logging"
)

func main() {
	var (
		lat      = flag.Float64("lat", 0, "latitude in degrees (north positive)")
		lon      = flag.Float64("lon", 0, "longitude in degrees (east positive, west negative)")
		tzName   = flag.String("tz", "UTC", "IANA time zone name (e.g. America/Phoenix)")
		bodyS    = flag.String("body", "sun", "celestial body name or key")
		ref      = flag.String("ref", "csv", "reference source: csv or sunrise")
		refCSV   = flag.String("refcsv", "", "path to reference CSV file (date,rise,set)")
		fromS    = flag.String("from", "", "first date for -ref sunrise (YYYY-MM-DD)")
		days     = flag.Int("days", 365, "number of days for -ref sunrise")
		verbose  = flag.Bool("verbose", false, "print per-day errors instead of only the summary")
		twilight = flag.String("twilight", "", "twilight kind: civil, nautical, astronomical (Sun only)")
		outCSV   = flag.String("outcsv", "", "optional path to write per-row error CSV")
	)
	flag.Parse()

	l, err := logging.New(config.LoggerConfig{Level: "info", Format: "console"}, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := l.Logger

	loc, err := time.LoadLocation(*tzName)
	if err != nil {
		log.Fatal().Err(err).Str("tz", *tzName).Msg("failed to load timezone")
	}

	body := risetrans.ParseBody(*bodyS)
	kind, useTwilight := parseTwilight(log, *twilight, body)
	modeDesc := strings.ToUpper(body.String())
	if useTwilight {
		modeDesc = fmt.Sprintf("SUN (%s TWILIGHT)", strings.ToUpper(kind.String()))
	}

	if *lat == 0 && *lon == 0 {
		log.Warn().Msg("lat=0 lon=0 (Gulf of Guinea). Did you mean to set -lat/-lon?")
	}

	var table []refDay
	switch *ref {
	case "csv":
		if *refCSV == "" {
			log.Fatal().Msg("missing -refcsv (path to reference CSV)")
		}
		f, err := os.Open(*refCSV)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open refcsv")
		}
		var bad []error
		table, bad, err = readCSV(f, loc)
		f.Close()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to read refcsv")
		}
		for _, e := range bad {
			log.Warn().Err(e).Msg("skipping row")
		}
	case "sunrise":
		if body != risetrans.Sun || useTwilight {
			log.Fatal().Msg("-ref sunrise only supports plain Sun rise/set")
		}
		from := time.Now().In(loc)
		if *fromS != "" {
			if from, err = time.ParseInLocation("2006-01-02", *fromS, loc); err != nil {
				log.Fatal().Err(err).Msg("invalid -from")
			}
		}
		from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
		table = sunriseTable(*lat, *lon, from, *days)
	default:
		log.Fatal().Str("ref", *ref).Msg("unknown -ref (use csv or sunrise)")
	}

	var out *csv.Writer
	if *outCSV != "" {
		f, err := os.Create(*outCSV)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create outcsv")
		}
		defer f.Close()
		out = csv.NewWriter(f)
		defer out.Flush()
		if err := out.Write([]string{
			"date", "body", "mode",
			"rise_err", "set_err", "rise_signed", "set_signed",
			"phase_fraction", "phase_name", "phase_elongation", "phase_waxing",
		}); err != nil {
			log.Fatal().Err(err).Msg("failed to write outcsv header")
		}
	}

	calc := risetrans.New(risetrans.WithLogger(log))
	coords := risetrans.Coordinates{Lat: *lat, Lon: *lon}

	var sum summary
	for _, day := range table {
		var rs risetrans.RiseSet
		if useTwilight {
			// "rise" is dawn and "set" is dusk.
			rs, err = calc.TwilightFor(coords, day.Date, kind)
		} else {
			rs, err = calc.RiseSetFor(body, coords, day.Date)
		}
		if err != nil {
			log.Warn().Err(err).Int("row", day.Line).Msg("skipping row")
			sum.skipped++
			continue
		}

		gotRise, gotSet := rs.Rise.In(loc), rs.Set.In(loc)
		riseSigned, setSigned := sum.add(gotRise, day.Rise, gotSet, day.Set)

		if *verbose {
			fmt.Printf("%s %s: rise err=%.2f min (got=%s ref=%s), set err=%.2f min (got=%s ref=%s)\n",
				day.Date.Format("2006-01-02"), modeDesc,
				riseSigned, gotRise.Format("15:04"), day.Rise.Format("15:04"),
				setSigned, gotSet.Format("15:04"), day.Set.Format("15:04"))
		}

		if out == nil {
			continue
		}
		var fraction, name, elongation, trend string
		if body == risetrans.Moon {
			mp := calc.MoonIlluminationAt(time.Date(day.Date.Year(), day.Date.Month(), day.Date.Day(), 12, 0, 0, 0, loc))
			fraction = fmt.Sprintf("%.6f", mp.Fraction)
			name = mp.Name
			elongation = fmt.Sprintf("%.3f", mp.Elongation)
			trend = "waning"
			if mp.Waxing {
				trend = "waxing"
			}
		}
		if err := out.Write([]string{
			day.Date.Format("2006-01-02"), strings.ToUpper(body.Key()), modeDesc,
			fmt.Sprintf("%.6f", diffMinutes(gotRise, day.Rise)),
			fmt.Sprintf("%.6f", diffMinutes(gotSet, day.Set)),
			fmt.Sprintf("%.6f", riseSigned),
			fmt.Sprintf("%.6f", setSigned),
			fraction, name, elongation, trend,
		}); err != nil {
			log.Warn().Err(err).Int("row", day.Line).Msg("failed to write outcsv")
		}
	}

	fmt.Println("=== risetrans profiler summary ===")
	fmt.Printf("Mode:    %s\n", modeDesc)
	fmt.Printf("Lat/Lon: %.4f / %.4f\n", *lat, *lon)
	fmt.Printf("TZ:      %s\n", loc)
	fmt.Printf("Rows:    %d (processed), %d skipped\n", sum.processed, sum.skipped)

	if sum.rise.count == 0 && sum.set.count == 0 {
		fmt.Println("No valid rows to compute stats.")
		return
	}
	sum.rise.print(os.Stdout, "Rise error (minutes)", "avg")
	sum.set.print(os.Stdout, "Set error (minutes)", "avg")
	sum.riseSigned.print(os.Stdout, "Rise signed error (minutes, ours - ref)", "mean")
	sum.setSigned.print(os.Stdout, "Set signed error (minutes, ours - ref)", "mean")
}

func parseTwilight(log zerolog.Logger, s string, body risetrans.Body) (risetrans.TwilightKind, bool) {
	if s == "" {
		return 0, false
	}
	if body != risetrans.Sun {
		log.Fatal().Msg("twilight mode only supported for -body sun")
	}
	for _, k := range []risetrans.TwilightKind{risetrans.TwilightCivil, risetrans.TwilightNautical, risetrans.TwilightAstronomical} {
		if strings.EqualFold(s, k.String()) {
			return k, true
		}
	}
	log.Fatal().Str("twilight", s).Msg("unknown twilight kind (use civil, nautical, or astronomical)")
	return 0, false
}
