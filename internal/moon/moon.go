package moon

import (
	"math"

	"github.com/thurmanmarka/risetrans/internal/timeutil"
)

const (
	// MeanDistanceKm is the average Earth–Moon distance.
	MeanDistanceKm = 384400.0

	// earthRadiusKm is the equatorial radius used for parallax.
	earthRadiusKm = 6378.14

	// semidiameterK gives the semidiameter in arcseconds as k / Δ(km).
	semidiameterK = 358473400.0
)

// MeanSemidiameter is the Moon's semidiameter at its mean distance, degrees.
var MeanSemidiameter = Semidiameter(MeanDistanceKm)

// Semidiameter returns the Moon's geocentric semidiameter in degrees.
func Semidiameter(distanceKm float64) float64 {
	if distanceKm <= 0 {
		distanceKm = MeanDistanceKm
	}
	return semidiameterK / distanceKm / 3600
}

// HorizontalParallax returns the equatorial horizontal parallax in radians for
// a body at distanceKm.
func HorizontalParallax(distanceKm float64) float64 {
	if distanceKm <= earthRadiusKm {
		// ridiculously close / invalid, just clamp
		return timeutil.Deg2Rad(1.0)
	}
	return math.Asin(earthRadiusKm / distanceKm)
}

// parallaxConstants returns ρ·sinφ' and ρ·cosφ' for an observer at latDeg
// and heightM above sea level (Meeus ch. 11).
func parallaxConstants(latDeg, heightM float64) (rhoSin, rhoCos float64) {
	const ba = 0.99664719 // polar/equatorial axis ratio
	φ := timeutil.Deg2Rad(latDeg)
	u := math.Atan(ba * math.Tan(φ))
	h := heightM / (earthRadiusKm * 1000)
	return ba*math.Sin(u) + h*math.Sin(φ), math.Cos(u) + h*math.Cos(φ)
}

// Topocentric corrects geocentric right ascension and declination (degrees)
// for the parallax seen by an observer at latDeg/heightM, given the local
// sidereal time lstDeg and the body's distance in km.
func Topocentric(raDeg, decDeg, distanceKm, latDeg, heightM, lstDeg float64) (raTopo, decTopo float64) {
	pi := HorizontalParallax(distanceKm)
	rhoSinφ, rhoCosφ := parallaxConstants(latDeg, heightM)

	raRad := timeutil.Deg2Rad(raDeg)
	decRad := timeutil.Deg2Rad(decDeg)

	// Geocentric hour angle H
	H := timeutil.Deg2Rad(timeutil.NormalizeSigned180(lstDeg - raDeg))

	sinδ := math.Sin(decRad)
	cosδ := math.Cos(decRad)
	sinH := math.Sin(H)
	cosH := math.Cos(H)
	sinπ := math.Sin(pi)

	// Δα (correction to RA)
	deltaAlpha := math.Atan2(
		-rhoCosφ*sinπ*sinH,
		cosδ-rhoCosφ*sinπ*cosH,
	)

	decT := math.Atan2(
		(sinδ-rhoSinφ*sinπ)*math.Cos(deltaAlpha),
		cosδ-rhoCosφ*sinπ*cosH,
	)

	return timeutil.Normalize360(timeutil.Rad2Deg(raRad + deltaAlpha)), timeutil.Rad2Deg(decT)
}

// PhaseAngle returns the Sun–Moon–Earth angle in degrees from the Moon's
// geocentric elongation (degrees) and the Sun and Moon distances in km
// (Meeus 48.3).
func PhaseAngle(elongationDeg, sunDistanceKm, moonDistanceKm float64) float64 {
	ψ := timeutil.Deg2Rad(elongationDeg)
	i := math.Atan2(sunDistanceKm*math.Sin(ψ), moonDistanceKm-sunDistanceKm*math.Cos(ψ))
	return timeutil.Rad2Deg(i)
}

// Illuminated returns the illuminated fraction of the disc for a phase angle
// in degrees.
func Illuminated(phaseAngleDeg float64) float64 {
	return (1 + timeutil.CosD(phaseAngleDeg)) / 2
}

// Magnitude returns the Moon's approximate apparent visual magnitude at a
// phase angle in degrees.
func Magnitude(phaseAngleDeg float64) float64 {
	i := math.Abs(phaseAngleDeg)
	return -12.73 + 0.026*i + 4e-9*i*i*i*i
}
