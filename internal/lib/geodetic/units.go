package geodetic

import "math"

// metresPerDegree is one minute of arc per nautical mile, as used for quick conversions
const metresPerDegree = 1852 * 60

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

// Normalize360 maps any bearing into [0, 360)
func Normalize360(bearingDeg float64) float64 {
	orientation := math.Mod(bearingDeg, 360)
	if orientation < 0 {
		orientation += 360
	}
	// -1e-15 + 360 rounds to 360
	if orientation >= 360 {
		orientation = 0
	}
	return orientation
}

// NormalizeLongitude wraps a longitude into [-180, 180). Values already in range are returned unchanged.
func NormalizeLongitude(lonDeg float64) float64 {
	if lonDeg >= -180 && lonDeg < 180 {
		return lonDeg
	}
	return Normalize360(lonDeg+180) - 180
}

// DegreesToMetres converts an arc length in degrees to metres at 1852 m per arc minute
func DegreesToMetres(deg float64) float64 {
	return deg * metresPerDegree
}

// MetresToDegrees is the inverse of DegreesToMetres
func MetresToDegrees(metres float64) float64 {
	return metres / metresPerDegree
}

// DMS is an angle split into degrees, minutes and seconds. Negative is set for angles below zero.
type DMS struct {
	Negative bool
	Degrees  int
	Minutes  int
	Seconds  float64
}

// FromDMS converts degrees, minutes and seconds to decimal degrees. The sign is taken from deg.
func FromDMS(deg, min int, sec float64) float64 {
	value := math.Abs(float64(deg)) + float64(min)/60 + sec/3600
	if deg < 0 {
		return -value
	}
	return value
}

// Decimal returns the angle in decimal degrees
func (d DMS) Decimal() float64 {
	value := float64(d.Degrees) + float64(d.Minutes)/60 + d.Seconds/3600
	if d.Negative {
		return -value
	}
	return value
}

// ToDMS splits decimal degrees into degrees, minutes and seconds
func ToDMS(deg float64) DMS {
	out := DMS{Negative: deg < 0}
	deg = math.Abs(deg)
	out.Degrees = int(deg)
	minutes := (deg - float64(out.Degrees)) * 60
	out.Minutes = int(minutes)
	out.Seconds = (minutes - float64(out.Minutes)) * 60
	return out
}

// EstimateDistance is a quick flat-earth approximation of the geodesic distance in metres,
// generally within 1% of the Vincenty result for short lines.
func EstimateDistance(lat1, lon1, lat2, lon2 float64) float64 {
	e := WGS84
	phi1, phi2 := radians(lat1), radians(lat2)
	c := math.Cos((phi1 + phi2) / 2)
	dLat := phi2 - phi1
	dLon := radians(lon2-lon1) * c
	return math.Sqrt(dLat*dLat+dLon*dLon) * e.A * (1 - e.F + e.F*c)
}
