package ephemeris

import (
	"math"

	"github.com/mooncaker816/learnmeeus/v3/base"

	"github.com/thurmanmarka/risetrans/internal/timeutil"
)

// keplerian holds J2000 mean orbital elements and their rates per Julian
// century (Standish, "Keplerian Elements for Approximate Positions of the
// Major Planets", valid 1800-2050). Angles in degrees, a in AU.
type keplerian struct {
	a, e, i, l, peri, node           float64
	da, de, di, dl, dperi, dnode     float64
	semidiameter, absMag, phaseCoeff float64 // arcsec at 1 AU, V(1,0), mag/deg
}

var (
	earthBary = keplerian{
		a: 1.00000261, e: 0.01671123, i: -0.00001531, l: 100.46457166, peri: 102.93768193, node: 0,
		da: 0.00000562, de: -0.00004392, di: -0.01294668, dl: 35999.37244981, dperi: 0.32327364, dnode: 0,
	}

	planetElements = map[Body]keplerian{
		Mercury: {
			a: 0.38709927, e: 0.20563593, i: 7.00497902, l: 252.25032350, peri: 77.45779628, node: 48.33076593,
			da: 0.00000037, de: 0.00001906, di: -0.00594749, dl: 149472.67411175, dperi: 0.16047689, dnode: -0.12534081,
			semidiameter: 3.36, absMag: -0.42, phaseCoeff: 0.038,
		},
		Venus: {
			a: 0.72333566, e: 0.00677672, i: 3.39467605, l: 181.97909950, peri: 131.60246718, node: 76.67984255,
			da: 0.00000390, de: -0.00004107, di: -0.00078890, dl: 58517.81538729, dperi: 0.00268329, dnode: -0.27769418,
			semidiameter: 8.41, absMag: -4.40, phaseCoeff: 0.0009,
		},
		Mars: {
			a: 1.52371034, e: 0.09339410, i: 1.84969142, l: -4.55343205, peri: -23.94362959, node: 49.55953891,
			da: 0.00001847, de: 0.00007882, di: -0.00813131, dl: 19140.30268499, dperi: 0.44441088, dnode: -0.29257343,
			semidiameter: 4.68, absMag: -1.52, phaseCoeff: 0.016,
		},
		Jupiter: {
			a: 5.20288700, e: 0.04838624, i: 1.30439695, l: 34.39644051, peri: 14.72847983, node: 100.47390909,
			da: -0.00011607, de: -0.00013253, di: -0.00183714, dl: 3034.74612775, dperi: 0.21252668, dnode: 0.20469106,
			semidiameter: 98.44, absMag: -9.40, phaseCoeff: 0.005,
		},
		Saturn: {
			a: 9.53667594, e: 0.05386179, i: 2.48599187, l: 49.95424423, peri: 92.59887831, node: 113.66242448,
			da: -0.00125060, de: -0.00050991, di: 0.00193609, dl: 1222.49362201, dperi: -0.41897216, dnode: -0.28867794,
			semidiameter: 82.73, absMag: -8.88, phaseCoeff: 0.044,
		},
		Uranus: {
			a: 19.18916464, e: 0.04725744, i: 0.77263783, l: 313.23810451, peri: 170.95427630, node: 74.01692503,
			da: -0.00196176, de: -0.00004397, di: -0.00242939, dl: 428.48202785, dperi: 0.40805281, dnode: 0.04240589,
			semidiameter: 35.02, absMag: -7.19,
		},
		Neptune: {
			a: 30.06992276, e: 0.00859048, i: 1.77004347, l: -55.12002969, peri: 44.96476227, node: 131.78422574,
			da: 0.00026291, de: 0.00005105, di: 0.00035372, dl: 218.45945325, dperi: -0.32241464, dnode: -0.00508664,
			semidiameter: 33.50, absMag: -6.87,
		},
		Pluto: {
			a: 39.48211675, e: 0.24882730, i: 17.14001206, l: 238.92903833, peri: 224.06891629, node: 110.30393684,
			da: -0.00031596, de: 0.00005170, di: 0.00004818, dl: 145.20780515, dperi: -0.04062942, dnode: -0.01183482,
			semidiameter: 2.07, absMag: -1.0,
		},
	}
)

// general precession in longitude per Julian century, degrees
const precessionPerCentury = 1.396971

// heliocentric returns J2000 ecliptic rectangular coordinates in AU.
func (k keplerian) heliocentric(T float64) (x, y, z float64) {
	a := k.a + k.da*T
	e := k.e + k.de*T
	i := timeutil.Deg2Rad(k.i + k.di*T)
	l := k.l + k.dl*T
	peri := k.peri + k.dperi*T
	node := k.node + k.dnode*T

	ω := timeutil.Deg2Rad(peri - node)
	Ω := timeutil.Deg2Rad(node)
	M := timeutil.Deg2Rad(timeutil.NormalizeSigned180(l - peri))

	E := solveKepler(M, e)
	xp := a * (math.Cos(E) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(E)

	cω, sω := math.Cos(ω), math.Sin(ω)
	cΩ, sΩ := math.Cos(Ω), math.Sin(Ω)
	ci, si := math.Cos(i), math.Sin(i)

	x = (cω*cΩ-sω*sΩ*ci)*xp + (-sω*cΩ-cω*sΩ*ci)*yp
	y = (cω*sΩ+sω*cΩ*ci)*xp + (-sω*sΩ+cω*cΩ*ci)*yp
	z = (sω*si)*xp + (cω*si)*yp
	return x, y, z
}

// solveKepler solves E - e·sin E = M by Newton iteration, radians.
func solveKepler(M, e float64) float64 {
	E := M + e*math.Sin(M)
	for n := 0; n < 30; n++ {
		dE := (E - e*math.Sin(E) - M) / (1 - e*math.Cos(E))
		E -= dE
		if math.Abs(dE) < 1e-12 {
			break
		}
	}
	return E
}

// planetGeocentric returns the geocentric ecliptic longitude and latitude
// (degrees, equinox of date) and distances in AU: from the Earth and from
// the Sun.
func planetGeocentric(jde float64, k keplerian) (lng, lat, delta, r float64) {
	T := base.J2000Century(jde)
	px, py, pz := k.heliocentric(T)
	ex, ey, ez := earthBary.heliocentric(T)

	x, y, z := px-ex, py-ey, pz-ez
	delta = math.Sqrt(x*x + y*y + z*z)
	r = math.Sqrt(px*px + py*py + pz*pz)
	lng = timeutil.Normalize360(timeutil.Rad2Deg(math.Atan2(y, x)) + precessionPerCentury*T)
	lat = timeutil.Rad2Deg(math.Atan2(z, math.Hypot(x, y)))
	return lng, lat, delta, r
}
