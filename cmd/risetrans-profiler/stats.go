package main

import (
	"fmt"
	"io"
	"math"
	"time"
)

// stats accumulates error samples in minutes. NaN samples are ignored.
type stats struct {
	count int
	sum   float64
	min   float64
	max   float64
}

func (s *stats) add(v float64) {
	if math.IsNaN(v) {
		return
	}
	if s.count == 0 {
		s.min, s.max = v, v
	} else {
		s.min = math.Min(s.min, v)
		s.max = math.Max(s.max, v)
	}
	s.sum += v
	s.count++
}

func (s *stats) mean() float64 {
	if s.count == 0 {
		return math.NaN()
	}
	return s.sum / float64(s.count)
}

func (s *stats) print(w io.Writer, title, avgLabel string) {
	fmt.Fprintf(w, "\n%s:\n", title)
	fmt.Fprintf(w, "  count: %d\n", s.count)
	fmt.Fprintf(w, "  min:   %.3f\n", s.min)
	fmt.Fprintf(w, "  max:   %.3f\n", s.max)
	fmt.Fprintf(w, "  %-6s %.3f\n", avgLabel+":", s.mean())
}

// diffMinutes is |a-b| in minutes, NaN when either time is missing.
func diffMinutes(a, b time.Time) float64 {
	return math.Abs(diffMinutesSigned(a, b))
}

// diffMinutesSigned is a-b in minutes, NaN when either time is missing.
func diffMinutesSigned(a, b time.Time) float64 {
	if a.IsZero() || b.IsZero() {
		return math.NaN()
	}
	return a.Sub(b).Minutes()
}

// summary groups the four accumulators reported at the end of a run.
type summary struct {
	rise, set             stats
	riseSigned, setSigned stats
	processed, skipped    int
}

func (s *summary) add(gotRise, refRise, gotSet, refSet time.Time) (riseSigned, setSigned float64) {
	riseSigned = diffMinutesSigned(gotRise, refRise)
	setSigned = diffMinutesSigned(gotSet, refSet)
	s.rise.add(math.Abs(riseSigned))
	s.set.add(math.Abs(setSigned))
	s.riseSigned.add(riseSigned)
	s.setSigned.add(setSigned)
	s.processed++
	return riseSigned, setSigned
}
