package sun

import (
	"github.com/mooncaker816/learnmeeus/v3/base"
	"github.com/mooncaker816/learnmeeus/v3/solar"

	"github.com/thurmanmarka/risetrans/internal/timeutil"
)

// Position returns the Sun's apparent geocentric ecliptic longitude and
// latitude in degrees and its distance in AU at Julian Ephemeris Day jde.
//
// The longitude includes nutation and aberration (Meeus ch. 25, low
// accuracy); the latitude never exceeds a few arcseconds and is reported as 0.
func Position(jde float64) (lng, lat, distanceAU float64) {
	T := base.J2000Century(jde)
	lng = timeutil.Normalize360(solar.ApparentLongitude(T).Deg())
	return lng, 0, solar.Radius(T)
}
