package pricing

import "math"

const sqrt2Pi = 2.5066282746310002

// Abramowitz & Stegun 7.1.26 error-function coefficients.
const (
	erfA1 = 0.254829592
	erfA2 = -0.284496736
	erfA3 = 1.421413741
	erfA4 = -1.453152027
	erfA5 = 1.061405429
	erfP  = 0.3275911
)

// NormalCDF computes the cumulative distribution function of the standard
// normal distribution using the Abramowitz-Stegun polynomial approximation
// of the error function (formula 7.1.26, five terms in t = 1/(1+p*x)).
//
// Accuracy is roughly seven significant digits, which is adequate for
// delta estimation but not for financial-grade pricing.
//
// Returns a value in [0, 1] representing P(Z <= x) for Z ~ N(0, 1).
func NormalCDF(x float64) float64 {
	sign := 1.0
	if x < 0 {
		sign = -1.0
	}
	z := math.Abs(x) / math.Sqrt2

	t := 1.0 / (1.0 + erfP*z)
	// Horner form of a1*t + a2*t^2 + ... + a5*t^5
	poly := ((((erfA5*t+erfA4)*t+erfA3)*t+erfA2)*t + erfA1) * t
	erf := 1.0 - poly*math.Exp(-z*z)

	return 0.5 * (1.0 + sign*erf)
}

// normPDF calculates the probability density function of the standard
// normal distribution at x: exp(-0.5 * x^2) / sqrt(2*pi).
func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / sqrt2Pi
}
