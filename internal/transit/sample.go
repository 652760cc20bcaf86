package transit

import "math"

// SampleMode tags what an AltitudeSample stands for.
type SampleMode int

const (
	SampleUnset SampleMode = iota
	SampleRise
	SampleSet
	SampleMC
	SampleIC
)

func (m SampleMode) String() string {
	switch m {
	case SampleRise:
		return "rise"
	case SampleSet:
		return "set"
	case SampleMC:
		return "mc"
	case SampleIC:
		return "ic"
	}
	return "unset"
}

// AltitudeSample is one altitude reading within a sampled day. Samples are
// values: refining one produces a new sample.
type AltitudeSample struct {
	Mode  SampleMode `json:"mode"`
	Mins  float64    `json:"mins"`  // minutes after the start of the day
	JD    float64    `json:"jd"`    // sentinel when the event was not found
	Value float64    `json:"value"` // altitude, degrees
}

func (s AltitudeSample) as(mode SampleMode) AltitudeSample {
	s.Mode = mode
	return s
}

func (s AltitudeSample) shift(delta float64) AltitudeSample {
	s.Value += delta
	return s
}

// CalcMidPoint interpolates the Julian Day at which the altitude passes
// zero between two consecutive samples, weighting by the magnitude of the
// second sample.
func CalcMidPoint(first, second AltitudeSample) float64 {
	diff := second.Value - first.Value
	if diff == 0 {
		return second.JD
	}
	return second.JD - math.Abs(second.JD-first.JD)*math.Abs(second.Value)/math.Abs(diff)
}

func midSample(first, second AltitudeSample, mode SampleMode) AltitudeSample {
	ratio := 0.0
	if diff := second.Value - first.Value; diff != 0 {
		ratio = math.Abs(second.Value) / math.Abs(diff)
	}
	return AltitudeSample{
		Mode: mode,
		Mins: second.Mins - math.Abs(second.Mins-first.Mins)*ratio,
		JD:   CalcMidPoint(first, second),
	}
}
