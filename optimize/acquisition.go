package optimize

import "math"

// expectedImprovement scores a candidate by how much it is expected to
// improve on the best observed loss. mean and std come from the
// surrogate; bestLoss is the minimum loss seen so far.
func expectedImprovement(mean, std, bestLoss float64) float64 {
	if std <= 0 {
		return 0
	}
	z := (bestLoss - mean) / std
	return (bestLoss-mean)*normalCDF(z) + std*normalPDF(z)
}

func normalCDF(x float64) float64 {
	return 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
}

func normalPDF(x float64) float64 {
	return math.Exp(-x*x/2.0) / math.Sqrt(2.0*math.Pi)
}
