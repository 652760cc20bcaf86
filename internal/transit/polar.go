package transit

import (
	"math"

	"github.com/thurmanmarka/risetrans/internal/timeutil"
)

const (
	// MaxPolarDays bounds every day-by-day scan for a missing rise or set.
	MaxPolarDays = 183

	// polarFloor is the latitude below which scans start right next to the
	// reference day.
	polarFloor = 200.0 / 3

	polarMargin = 18
)

// poleProgress maps |lat| to 0 at polarFloor and 1 at the pole.
func poleProgress(lat float64) float64 {
	a := math.Abs(lat)
	if a <= polarFloor {
		return 0
	}
	return math.Sqrt(1 - (90-a)/(90-polarFloor))
}

// PolarSearchOffsets estimates how many days to skip before scanning
// forward and backward for the end and start of a polar period around jd.
// The estimate grows with latitude and with distance to the next equinox
// and is never negative.
func PolarSearchOffsets(jd, lat float64) (next, prev int) {
	share := math.Floor(poleProgress(lat)*120) / MaxPolarDays
	toEquinox := timeutil.DaysToNextEquinox(jd)

	next = int(math.Floor(toEquinox*share)) - polarMargin
	prev = int(math.Floor((MaxPolarDays-toEquinox)*share)) - polarMargin
	return max(next, 0), max(prev, 0)
}
