package lunar

import (
	"github.com/thurmanmarka/risetrans/internal/timeutil"
)

// MoonPhase is the instant the Sun-Moon elongation reaches a multiple of
// 90 degrees.
type MoonPhase struct {
	JD      float64 `json:"jd"`
	Angle   float64 `json:"angle"`
	Quarter int     `json:"num"`
	Waxing  bool    `json:"waxing"`

	// Days since the previous phase in a sequence; nil for the first.
	Days *float64 `json:"days,omitempty"`
}

var phaseNames = [...]string{"new moon", "first quarter", "full moon", "last quarter"}

// Name returns the conventional name of the phase.
func (p MoonPhase) Name() string {
	if p.Quarter < 1 || p.Quarter > 4 {
		return ""
	}
	return phaseNames[p.Quarter-1]
}

// Found reports whether the search converged.
func (p MoonPhase) Found() bool {
	return timeutil.IsReal(p.JD)
}

// MoonPhaseISO is MoonPhase with the instant as an ISO-8601 UTC string.
type MoonPhaseISO struct {
	UTC     string   `json:"utc"`
	JD      float64  `json:"jd"`
	Angle   float64  `json:"angle"`
	Quarter int      `json:"num"`
	Name    string   `json:"name"`
	Waxing  bool     `json:"waxing"`
	Days    *float64 `json:"days,omitempty"`
}

// ISO converts the phase for presentation.
func (p MoonPhase) ISO() MoonPhaseISO {
	return MoonPhaseISO{
		UTC:     timeutil.JDToISO(p.JD),
		JD:      p.JD,
		Angle:   p.Angle,
		Quarter: p.Quarter,
		Name:    p.Name(),
		Waxing:  p.Waxing,
		Days:    p.Days,
	}
}

// quarterOf maps a boundary angle to its phase number: 0 is 1 (new moon),
// 90 is 2, 180 is 3 and 270 is 4.
func quarterOf(boundary float64) int {
	return int(timeutil.Normalize360(boundary)/90)%4 + 1
}
