package geodetic

import "math"

// Ellipsoid describes an oblate spheroid by its semi-major axis, semi-minor axis and flattening
type Ellipsoid struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	F float64 `json:"f"`
}

// WGS84 is the ellipsoid used for every geographic computation
var WGS84 = NewEllipsoid(6378137.0, 1/298.257223563)

// NewEllipsoid derives the semi-minor axis from a and f
func NewEllipsoid(a, f float64) Ellipsoid {
	return Ellipsoid{A: a, B: a * (1 - f), F: f}
}

// ReducedLatitude returns the parametric latitude U for a geodetic latitude, both in radians
func (e Ellipsoid) ReducedLatitude(latRad float64) float64 {
	return math.Atan((1 - e.F) * math.Tan(latRad))
}

// SecondEccentricitySquared returns (a^2 - b^2) / b^2
func (e Ellipsoid) SecondEccentricitySquared() float64 {
	return (e.A*e.A - e.B*e.B) / (e.B * e.B)
}

// seriesCoefficients returns Vincenty's A and B for u^2 = cos^2(alpha) * e'^2
func (e Ellipsoid) seriesCoefficients(cosSqAlpha float64) (float64, float64) {
	uSq := cosSqAlpha * e.SecondEccentricitySquared()
	a := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	b := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
	return a, b
}

// lambdaCorrection returns Vincenty's C term
func (e Ellipsoid) lambdaCorrection(cosSqAlpha float64) float64 {
	return e.F / 16 * cosSqAlpha * (4 + e.F*(4-3*cosSqAlpha))
}

func deltaSigma(b, sinSigma, cosSigma, cos2SigmaM float64) float64 {
	cos2SigmaMSq := cos2SigmaM * cos2SigmaM
	return b * sinSigma * (cos2SigmaM + b/4*(cosSigma*(-1+2*cos2SigmaMSq)-
		b/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaMSq)))
}
