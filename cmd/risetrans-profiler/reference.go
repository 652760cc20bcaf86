package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nathan-osman/go-sunrise"
)

// refDay is one expected rise/set pair in the reference time zone.
type refDay struct {
	Line int
	Date time.Time
	Rise time.Time
	Set  time.Time
}

// readCSV reads "date,rise,set" rows where rise and set are local HH:MM or
// HH:MM:SS times. A header row is skipped. Malformed rows are returned as
// errors alongside the rows that parsed.
func readCSV(r io.Reader, loc *time.Location) ([]refDay, []error, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("empty CSV file")
	}

	start := 0
	if len(records[0]) >= 1 && strings.EqualFold(strings.TrimSpace(records[0][0]), "date") {
		start = 1
	}

	var (
		days []refDay
		bad  []error
	)
	for i := start; i < len(records); i++ {
		row := records[i]
		if len(row) < 3 {
			bad = append(bad, fmt.Errorf("row %d: expected date,rise,set, got %d columns", i+1, len(row)))
			continue
		}
		date, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(row[0]), loc)
		if err != nil {
			bad = append(bad, fmt.Errorf("row %d: invalid date: %w", i+1, err))
			continue
		}
		rise, err := parseLocalTime(date, strings.TrimSpace(row[1]), loc)
		if err != nil {
			bad = append(bad, fmt.Errorf("row %d: invalid rise: %w", i+1, err))
			continue
		}
		set, err := parseLocalTime(date, strings.TrimSpace(row[2]), loc)
		if err != nil {
			bad = append(bad, fmt.Errorf("row %d: invalid set: %w", i+1, err))
			continue
		}
		days = append(days, refDay{Line: i + 1, Date: date, Rise: rise, Set: set})
	}
	return days, bad, nil
}

// sunriseTable builds a reference from the go-sunrise algorithm for n days
// starting at from.
func sunriseTable(lat, lon float64, from time.Time, n int) []refDay {
	days := make([]refDay, 0, n)
	for i := 0; i < n; i++ {
		d := from.AddDate(0, 0, i)
		rise, set := sunrise.SunriseSunset(lat, lon, d.Year(), d.Month(), d.Day())
		days = append(days, refDay{
			Line: i + 1,
			Date: d,
			Rise: rise.In(from.Location()),
			Set:  set.In(from.Location()),
		})
	}
	return days
}

// parseLocalTime combines an HH:MM or HH:MM:SS clock time with date.
func parseLocalTime(date time.Time, hhmm string, loc *time.Location) (time.Time, error) {
	layout := "15:04"
	if strings.Count(hhmm, ":") == 2 {
		layout = "15:04:05"
	}

	parsed, err := time.ParseInLocation(layout, hhmm, loc)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		parsed.Hour(), parsed.Minute(), parsed.Second(), 0, loc), nil
}
