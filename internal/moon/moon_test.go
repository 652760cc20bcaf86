package moon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionMeeusExample(t *testing.T) {
	// Meeus example 47.a: 1992 April 12.0 TD.
	lng, lat, dist := Position(2448724.5)
	assert.InDelta(t, 133.162655, lng, 0.01)
	assert.InDelta(t, -3.229126, lat, 0.001)
	assert.InDelta(t, 368409.7, dist, 1)
}

func TestSemidiameter(t *testing.T) {
	assert.InDelta(t, 0.259, MeanSemidiameter, 0.001)
	assert.Greater(t, Semidiameter(356500), Semidiameter(406700))
	assert.Equal(t, MeanSemidiameter, Semidiameter(0))
}

func TestTopocentricLowersDeclination(t *testing.T) {
	// For a northern observer with the Moon on the meridian, parallax pushes
	// the apparent position south by up to about a degree.
	ra, dec := Topocentric(120, 10, MeanDistanceKm, 45, 0, 120)
	assert.InDelta(t, 120, ra, 1e-6)
	assert.Less(t, dec, 10.0)
	assert.Greater(t, dec, 9.0)

	// Off the meridian the right ascension shifts too.
	ra, _ = Topocentric(120, 10, MeanDistanceKm, 0, 0, 60)
	assert.NotEqual(t, 120.0, ra)
}

func TestPhaseAngleAndIllumination(t *testing.T) {
	const au = 149597870.7

	// Full moon: elongation 180 -> phase angle ~0 -> fully lit.
	i := PhaseAngle(180, au, MeanDistanceKm)
	assert.InDelta(t, 0, i, 1e-6)
	assert.InDelta(t, 1, Illuminated(i), 1e-9)

	// New moon: elongation 0 -> phase angle 180 -> dark.
	i = PhaseAngle(0, au, MeanDistanceKm)
	assert.InDelta(t, 180, i, 1e-6)
	assert.InDelta(t, 0, Illuminated(i), 1e-9)

	// Quarter: roughly half lit.
	i = PhaseAngle(90, au, MeanDistanceKm)
	assert.InDelta(t, 0.5, Illuminated(i), 0.01)

	assert.Less(t, Magnitude(0), Magnitude(90))
}
