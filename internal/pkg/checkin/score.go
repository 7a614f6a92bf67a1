package checkin

import "math"

// Score is the mean of the three ratings rounded half away from zero to one
// decimal.
func Score(energy, sleep, mood int) float64 {
	return round1(float64(energy+sleep+mood) / 3)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
