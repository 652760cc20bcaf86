package sun

// Twilight altitudes of the Sun's center, in degrees.
const (
	CivilTwilight        = -6.0
	NauticalTwilight     = -12.0
	AstronomicalTwilight = -18.0
)

// Semidiameter of the Sun at 1 AU in arcseconds.
const semidiameterAt1AU = 959.63

// MeanSemidiameter is the Sun's semidiameter at its mean distance, degrees.
const MeanSemidiameter = semidiameterAt1AU / 3600

// Magnitude is the Sun's apparent visual magnitude at 1 AU.
const Magnitude = -26.74

// Semidiameter returns the Sun's apparent semidiameter in degrees at a
// distance of distanceAU.
func Semidiameter(distanceAU float64) float64 {
	if distanceAU <= 0 {
		return MeanSemidiameter
	}
	return semidiameterAt1AU / distanceAU / 3600
}
