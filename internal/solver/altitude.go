package solver

// AltitudeFunc returns a value in degrees (an altitude, or any angle that
// varies smoothly in time) at Julian Day jd.
type AltitudeFunc func(jd float64) float64

// EventType describes whether we are looking for a rising or setting event.
type EventType int

const (
	// CrossingUp means the value is increasing through the target (rise, MC).
	CrossingUp EventType = iota
	// CrossingDown means the value is decreasing through the target (set).
	CrossingDown
	// CrossingAny accepts either direction.
	CrossingAny
)

// OneSecond is one second expressed in days.
const OneSecond = 1.0 / 86400

// Result holds the output of an altitude event search.
type Result struct {
	JD float64 // approximate Julian Day of the event
	OK bool    // true if an event was found
}

// Grid returns the number of samples needed to walk span days at a cadence of
// stepMinutes minutes.
func Grid(span, stepMinutes float64) int {
	if stepMinutes <= 0 {
		return 2
	}
	return int(span*1440/stepMinutes) + 1
}

// FindAltitudeEvent searches for a Julian Day in [start, end] where f crosses
// targetDeg in the direction specified by eventType. It samples the interval
// at steps points, brackets the first sign change and bisects it down to tol
// days.
func FindAltitudeEvent(f AltitudeFunc, start, end, targetDeg float64, eventType EventType, steps int, tol float64) Result {
	if !(start < end) {
		return Result{OK: false}
	}
	if steps < 2 {
		steps = 2
	}

	interval := (end - start) / float64(steps-1)

	var (
		prevJD  = start
		prevAlt = f(prevJD) - targetDeg
	)

	for i := 1; i < steps; i++ {
		jd := start + float64(i)*interval
		alt := f(jd) - targetDeg

		if hasCrossing(prevAlt, alt, eventType) {
			return bisect(f, prevJD, jd, targetDeg, eventType, tol)
		}

		prevJD, prevAlt = jd, alt
	}

	return Result{OK: false}
}

func hasCrossing(a1, a2 float64, eventType EventType) bool {
	switch eventType {
	case CrossingUp:
		return a1 < 0 && a2 >= 0
	case CrossingDown:
		return a1 > 0 && a2 <= 0
	default:
		return a1*a2 <= 0
	}
}

func bisect(f AltitudeFunc, a, b, targetDeg float64, eventType EventType, tol float64) Result {
	var (
		altA = f(a) - targetDeg
		altB = f(b) - targetDeg
	)

	if !hasCrossing(altA, altB, eventType) {
		return Result{OK: false}
	}

	for b-a > tol {
		mid := a + (b-a)/2
		altM := f(mid) - targetDeg

		if hasCrossing(altA, altM, eventType) {
			b = mid
			altB = altM
		} else {
			a = mid
			altA = altM
		}
	}

	return Result{
		JD: a + (b-a)/2,
		OK: true,
	}
}
