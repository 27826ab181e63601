package geodetic

import "math"

// planarDirect projects along the grid using the 270-bearing convention of the survey
// tooling, which places the new point on the reciprocal of the bearing.
func planarDirect(origin Coordinate, bearingDeg, rangeMetres float64) Coordinate {
	theta := radians(270 - bearingDeg)
	return Coordinate{
		X:      origin.X + rangeMetres*math.Cos(theta),
		Y:      origin.Y + rangeMetres*math.Sin(theta),
		System: Planar,
	}
}

// planarInverse returns Euclidean distance and an un-normalized grid bearing
func planarInverse(p1, p2 Coordinate) (float64, float64) {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	return math.Hypot(dx, dy), 90 - degrees(math.Atan2(dy, dx))
}
