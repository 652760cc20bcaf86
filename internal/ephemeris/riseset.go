package ephemeris

import (
	"fmt"
	"strconv"
	"strings"
)

// Event is a horizon or meridian event searched for by NextEvent.
type Event int

const (
	Rise Event = iota
	Set
	MC
	IC
)

func (e Event) String() string {
	switch e {
	case Rise:
		return "rise"
	case Set:
		return "set"
	case MC:
		return "mc"
	case IC:
		return "ic"
	}
	return "unknown"
}

// RiseSetMode selects which part of the disc defines rise and set, and
// whether atmospheric refraction is applied.
type RiseSetMode int

const (
	// Unadjusted uses the upper limb with refraction.
	Unadjusted RiseSetMode = iota
	// NoRefraction uses the upper limb without refraction.
	NoRefraction
	CenterDiscNoRefraction
	CenterDisc
	BottomDiscNoRefraction
	BottomDisc
	// FixedDiscNoRefraction uses the upper limb of a disc of mean size.
	FixedDiscNoRefraction
	// FixedDisc uses the upper limb of a disc of mean size, with refraction.
	FixedDisc
)

var riseSetModeNames = [...]string{
	"unadjusted",
	"no-refraction",
	"center-disc-no-refraction",
	"center-disc",
	"bottom-disc-no-refraction",
	"bottom-disc",
	"fixed-disc-no-refraction",
	"fixed-disc",
}

func (m RiseSetMode) String() string {
	if m < 0 || int(m) >= len(riseSetModeNames) {
		return "invalid"
	}
	return riseSetModeNames[m]
}

// ParseRiseSetMode accepts a mode name or its numeric code 0-7.
func ParseRiseSetMode(s string) (RiseSetMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n >= len(riseSetModeNames) {
			return Unadjusted, fmt.Errorf("rise/set mode %d out of range", n)
		}
		return RiseSetMode(n), nil
	}
	for i, name := range riseSetModeNames {
		if name == s {
			return RiseSetMode(i), nil
		}
	}
	return Unadjusted, fmt.Errorf("unknown rise/set mode %q", s)
}

// Refraction reports whether the mode applies atmospheric refraction.
func (m RiseSetMode) Refraction() bool {
	switch m {
	case Unadjusted, CenterDisc, BottomDisc, FixedDisc:
		return true
	}
	return false
}

// DiscOffset returns the degrees added to the center altitude before it is
// compared with the horizon, given the body's current and mean semidiameters.
func (m RiseSetMode) DiscOffset(semidiameter, meanSemidiameter float64) float64 {
	switch m {
	case CenterDiscNoRefraction, CenterDisc:
		return 0
	case BottomDiscNoRefraction, BottomDisc:
		return -semidiameter
	case FixedDiscNoRefraction, FixedDisc:
		return meanSemidiameter
	}
	return semidiameter
}
