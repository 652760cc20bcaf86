package moon

import (
	"github.com/mooncaker816/learnmeeus/v3/moonposition"

	"github.com/thurmanmarka/risetrans/internal/timeutil"
)

// Position returns the Moon's geocentric ecliptic longitude and latitude in
// degrees and its distance in km at Julian Ephemeris Day jde, from the
// truncated ELP series in Meeus ch. 47.
func Position(jde float64) (lng, lat, distanceKm float64) {
	λ, β, Δ := moonposition.Position(jde)
	return timeutil.Normalize360(λ.Deg()), β.Deg(), Δ
}
