package scoring

import "math"

// Compress maps a raw total onto the default display scale. The mapping is
// continuous and non-decreasing.
func Compress(raw float64) float64 {
	return compress(raw, DefaultFloor, DefaultCap)
}

func compress(raw, floor, ceil float64) float64 {
	var v float64
	switch {
	case raw >= 7:
		v = 9.0 + 0.1*(raw-7)
	case raw >= 5:
		v = 7.5 + 0.75*(raw-5)
	case raw >= 3:
		v = 5.5 + (raw - 3)
	case raw >= 0:
		v = 3.0 + (2.5/3)*raw
	default:
		v = 3.0 + 0.5*raw
	}
	return round(math.Max(floor, math.Min(ceil, v)), 1)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
