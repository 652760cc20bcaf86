package lunar

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/thurmanmarka/risetrans/internal/ephemeris"
	"github.com/thurmanmarka/risetrans/internal/timeutil"
)

const (
	// MedianSynodicMonth is the mean interval between new moons in days.
	MedianSynodicMonth = 29.53059

	// ShortLunarMonth bounds the reported gap between consecutive phases.
	ShortLunarMonth = 24.0

	// MaxIterations caps a single phase search.
	MaxIterations = 500

	// Tolerance is the remaining angle, in degrees, at which a search stops.
	Tolerance = 0.005

	quarterMonth = MedianSynodicMonth / 4
	initialStep  = 1.0 / 12
)

// Solver finds lunar phases from the Sun and Moon longitudes given by an
// oracle.
type Solver struct {
	oracle ephemeris.Oracle
	mode   ephemeris.Mode
	log    zerolog.Logger
}

// Option configures a Solver.
type Option func(*Solver)

// WithObserver measures the longitudes topocentrically from geo.
func WithObserver(geo ephemeris.GeoPos) Option {
	return func(s *Solver) {
		s.mode = ephemeris.TopocentricAt(geo)
	}
}

// WithLogger sets the logger used to report searches that do not converge.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Solver) {
		s.log = l
	}
}

// NewSolver returns a geocentric Solver unless an observer is given.
func NewSolver(o ephemeris.Oracle, opts ...Option) *Solver {
	s := &Solver{
		oracle: o,
		mode:   ephemeris.Geocentric(),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Angle returns the Moon's longitude minus the Sun's, in [0, 360).
func (s *Solver) Angle(jd float64) float64 {
	sun := s.oracle.Position(jd, ephemeris.Sun, s.mode)
	moon := s.oracle.Position(jd, ephemeris.Moon, s.mode)
	return timeutil.Normalize360(moon.Lng - sun.Lng)
}

// State returns the elongation at jd, whether the Moon is waxing and the
// quarter (1-4) it is in.
func (s *Solver) State(jd float64) (angle float64, waxing bool, quarter int) {
	angle = s.Angle(jd)
	return angle, angle <= 180, int(angle/90)%4 + 1
}

// Next returns the first phase after jd.
func (s *Solver) Next(jd float64) MoonPhase {
	angle := s.Angle(jd)
	p, _ := s.seek(jd, math.Floor(angle/90)*90+90)
	return p
}

// Phases returns the next cycles full lunar cycles of phases after jd,
// starting with the next phase of any kind. cycles below 1 counts as 1.
func (s *Solver) Phases(jd float64, cycles int) []MoonPhase {
	cycles = max(cycles, 1)
	n := 4 * cycles

	angle := s.Angle(jd)
	boundary := math.Floor(angle/90)*90 + 90
	phases := make([]MoonPhase, 0, n)

	p, _ := s.seek(jd, boundary)
	phases = append(phases, p)
	from := jd
	for len(phases) < n {
		if p.Found() {
			from = p.JD
		} else {
			from += quarterMonth
		}
		boundary += 90
		next, _ := s.seek(from, boundary)
		if p.Found() && next.Found() {
			if gap := next.JD - p.JD; gap < ShortLunarMonth {
				next.Days = &gap
			}
		}
		phases = append(phases, next)
		p = next
	}
	return phases
}

// seek walks from an estimate towards the instant the elongation equals
// boundary, shrinking the step as the remaining angle shrinks. It returns
// the phase and the number of iterations used.
func (s *Solver) seek(from, boundary float64) (MoonPhase, int) {
	target := timeutil.Normalize360(boundary)
	jd := from + quarterMonth*timeutil.NormalizeSigned180(target-s.Angle(from))/90
	step := initialStep

	for i := 1; i <= MaxIterations; i++ {
		angle := s.Angle(jd)
		rem := timeutil.NormalizeSigned180(target - angle)
		if math.Abs(rem) < Tolerance {
			return newPhase(jd, angle, rem, target), i
		}
		step = adjustStep(math.Abs(rem), step)
		if rem > 0 {
			jd += step
		} else {
			jd -= step
		}
	}

	s.log.Debug().
		Float64("from", from).
		Float64("target", target).
		Msg("lunar phase search did not converge")
	q := quarterOf(target)
	return MoonPhase{Quarter: q, Waxing: q <= 2}, MaxIterations
}

func newPhase(jd, angle, rem, target float64) MoonPhase {
	if math.Abs(rem) <= 0.05 {
		angle = target
	}
	// Project the residual at a quarter month per 90 degrees.
	if extra := rem / 90 * quarterMonth; math.Abs(extra) < 0.0005 {
		jd += extra
	}
	q := quarterOf(target)
	return MoonPhase{JD: jd, Angle: angle, Quarter: q, Waxing: q <= 2}
}

// adjustStep picks the step in days for a remaining angle in degrees.
func adjustStep(rem, step float64) float64 {
	switch {
	case rem < 0.0078125:
		return 1.0 / 15360
	case rem < 0.03125:
		return 1.0 / 3840
	case rem < 0.0625:
		return 1.0 / 1920
	case rem < 0.125:
		return 1.0 / 960
	case rem < 0.25:
		return 1.0 / 480
	case rem < 0.5:
		return 1.0 / 240
	case rem < 1:
		return 1.0 / 96
	case rem < 2:
		return 1.0 / 48
	case rem < 4:
		return 1.0 / 24
	}
	return step
}
