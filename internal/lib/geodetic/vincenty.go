package geodetic

import "math"

const (
	maxIterations        = 200
	convergenceTolerance = 1e-12
	coincidentTolerance  = 1e-8
)

// Inverse solves Vincenty's inverse problem between two points given in degrees.
// Points closer than 1e-8 degrees on both axes return a zero solution without iterating.
func (e Ellipsoid) Inverse(lat1, lon1, lat2, lon2 float64) (InverseSolution, error) {
	dlon := lon2 - lon1
	if dlon > 180 {
		dlon -= 360
	} else if dlon <= -180 {
		dlon += 360
	}
	if math.Abs(lat2-lat1) < coincidentTolerance && math.Abs(dlon) < coincidentTolerance {
		return InverseSolution{}, nil
	}

	u1 := e.ReducedLatitude(radians(lat1))
	u2 := e.ReducedLatitude(radians(lat2))
	sinU1, cosU1 := math.Sincos(u1)
	sinU2, cosU2 := math.Sincos(u2)

	l := radians(dlon)
	lambda := l

	var sinSigma, cosSigma, sigma, sinAlpha, cosSqAlpha, cos2SigmaM float64
	iterations := 0
	for {
		if iterations >= maxIterations {
			return InverseSolution{Iterations: iterations}, &ConvergenceError{Problem: "inverse", Iterations: iterations}
		}
		iterations++

		sinLambda, cosLambda := math.Sincos(lambda)
		t1 := cosU2 * sinLambda
		t2 := cosU1*sinU2 - sinU1*cosU2*cosLambda
		sinSigma = math.Sqrt(t1*t1 + t2*t2)
		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)

		sinAlpha = 0
		if sinSigma != 0 {
			sinAlpha = cosU1 * cosU2 * sinLambda / sinSigma
		}
		cosSqAlpha = 1 - sinAlpha*sinAlpha

		// Equatorial lines have cos^2(alpha) == 0
		cos2SigmaM = 0
		if cosSqAlpha != 0 {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cosSqAlpha
		}

		c := e.lambdaCorrection(cosSqAlpha)
		last := lambda
		lambda = l + (1-c)*e.F*sinAlpha*
			(sigma+c*sinSigma*(cos2SigmaM+c*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))

		if math.IsNaN(lambda) {
			return InverseSolution{Iterations: iterations}, &ConvergenceError{Problem: "inverse", Iterations: iterations}
		}
		if lambda == 0 || math.Abs((last-lambda)/lambda) <= convergenceTolerance {
			break
		}
	}

	a, b := e.seriesCoefficients(cosSqAlpha)
	distance := e.B * a * (sigma - deltaSigma(b, sinSigma, cosSigma, cos2SigmaM))

	sinLambda, cosLambda := math.Sincos(lambda)
	forward := math.Atan2(cosU2*sinLambda, cosU1*sinU2-sinU1*cosU2*cosLambda)
	final := math.Atan2(cosU1*sinLambda, -sinU1*cosU2+cosU1*sinU2*cosLambda)

	return InverseSolution{
		Distance:       distance,
		ForwardAzimuth: Normalize360(degrees(forward)),
		ReverseAzimuth: Normalize360(degrees(final) + 180),
		Iterations:     iterations,
	}, nil
}

// Direct solves Vincenty's direct problem: project a point given in degrees along an azimuth
// for a distance in metres. Negative distances project along the reciprocal azimuth.
func (e Ellipsoid) Direct(lat1, lon1, azimuth, distance float64) (DirectSolution, error) {
	if distance == 0 {
		return DirectSolution{Latitude: lat1, Longitude: lon1}, nil
	}

	alpha1 := radians(Normalize360(azimuth))
	sinAlpha1, cosAlpha1 := math.Sincos(alpha1)

	u1 := e.ReducedLatitude(radians(lat1))
	sinU1, cosU1 := math.Sincos(u1)

	sigma1 := math.Atan2(math.Tan(u1), cosAlpha1)
	sinAlpha := cosU1 * sinAlpha1
	cosSqAlpha := 1 - sinAlpha*sinAlpha
	a, b := e.seriesCoefficients(cosSqAlpha)

	base := distance / (e.B * a)
	sigma := base

	var sinSigma, cosSigma, cos2SigmaM float64
	iterations := 0
	for {
		if iterations >= maxIterations {
			return DirectSolution{Iterations: iterations}, &ConvergenceError{Problem: "direct", Iterations: iterations}
		}
		iterations++

		cos2SigmaM = math.Cos(2*sigma1 + sigma)
		sinSigma, cosSigma = math.Sincos(sigma)
		last := sigma
		sigma = base + deltaSigma(b, sinSigma, cosSigma, cos2SigmaM)

		if math.IsNaN(sigma) {
			return DirectSolution{Iterations: iterations}, &ConvergenceError{Problem: "direct", Iterations: iterations}
		}
		if math.Abs((last-sigma)/sigma) <= convergenceTolerance {
			break
		}
	}

	cos2SigmaM = math.Cos(2*sigma1 + sigma)
	sinSigma, cosSigma = math.Sincos(sigma)

	tmp := sinU1*sinSigma - cosU1*cosSigma*cosAlpha1
	lat2 := math.Atan2(sinU1*cosSigma+cosU1*sinSigma*cosAlpha1,
		(1-e.F)*math.Sqrt(sinAlpha*sinAlpha+tmp*tmp))
	lambda := math.Atan2(sinSigma*sinAlpha1, cosU1*cosSigma-sinU1*sinSigma*cosAlpha1)

	c := e.lambdaCorrection(cosSqAlpha)
	omega := lambda - (1-c)*e.F*sinAlpha*
		(sigma+c*sinSigma*(cos2SigmaM+c*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))

	final := math.Atan2(sinAlpha, -tmp)

	return DirectSolution{
		Latitude:       degrees(lat2),
		Longitude:      NormalizeLongitude(lon1 + degrees(omega)),
		ReverseAzimuth: Normalize360(degrees(final) + 180),
		Iterations:     iterations,
	}, nil
}
