package geo

import (
	"math"
)

/**
 *      Positions are stored the way the autopilot stores them: latitude and longitude as integers
 *      in 1e-7 degrees ("E7"). Distances between two positions are calculated on a flat earth
 *      around the mean latitude of both positions:
 *
 *          north = (lat2 - lat1) * k
 *          east  = (lon2 - lon1) * cos(mean latitude) * k
 *
 *      with
 *          - k = meters per 1e-7 degree on a sphere with radius 6378100m
 *          - cos(mean latitude) clamped to 0.01 so that positions close to the poles don't explode
 *          - (lon2 - lon1) corrected by 360° if both longitudes straddle the antimeridian
 *
 *      Offsetting a position by a metric distance is the exact inverse of the above.
 */

const (
	// LocationScalingFactor converts a 1e-7 degree delta to meters. The autopilot keeps this as a
	// single precision float, so do we.
	LocationScalingFactor = float64(float32(0.011131884502145034))

	// LocationScalingFactorInv converts meters to a 1e-7 degree delta.
	LocationScalingFactorInv = float64(float32(89.83204953368922))

	// E7 is the scale of all integer latitudes / longitudes
	E7 = 1e7

	minLongitudeScale = 0.01

	halfCircleE7 = 1800000000
	fullCircleE7 = 3600000000
	quarterE7    = 900000000
)

func rad2deg(rad float64) float64 { return (rad * (180.0 / math.Pi)) }
func deg2rad(deg float64) float64 { return (deg * (math.Pi / 180.0)) }

// Anchor is a latitude / longitude pair in 1e-7 degrees
type Anchor struct {
	LatE7 int32
	LonE7 int32
}

// AnchorFromDegrees creates an anchor on whole degrees
func AnchorFromDegrees(latDeg, lonDeg int) Anchor {
	return Anchor{LatE7: int32(latDeg) * E7, LonE7: int32(lonDeg) * E7}
}

// Valid reports whether the anchor lies within [-90°, 90°] x [-180°, 180°]
func (a Anchor) Valid() bool {
	return a.LatE7 >= -quarterE7 && a.LatE7 <= quarterE7 &&
		a.LonE7 >= -halfCircleE7 && a.LonE7 <= halfCircleE7
}

// Degrees returns latitude and longitude in degrees
func (a Anchor) Degrees() (lat, lon float64) {
	return float64(a.LatE7) / E7, float64(a.LonE7) / E7
}

// LongitudeScale returns the factor east distances shrink by at the given latitude (degrees).
// It never drops below 0.01.
func LongitudeScale(latDeg float64) float64 {
	scale := math.Cos(deg2rad(latDeg))
	if scale < minLongitudeScale {
		return minLongitudeScale
	}
	return scale
}

// LongitudeDelta returns the signed eastward delta (1e-7 degrees) going from longitude from to
// longitude to. Crossing the antimeridian yields the short way round.
func LongitudeDelta(from, to int32) int32 {
	return int32(longitudeDeltaE7(float64(from), float64(to)))
}

func longitudeDeltaE7(from, to float64) float64 {
	dlon := to - from
	if to*from >= 0 {
		return dlon
	}

	if dlon > halfCircleE7 {
		dlon -= fullCircleE7
	} else if dlon < -halfCircleE7 {
		dlon += fullCircleE7
	}
	return dlon
}

func wrapLongitudeE7(lon float64) float64 {
	for lon > halfCircleE7 {
		lon -= fullCircleE7
	}
	for lon < -halfCircleE7 {
		lon += fullCircleE7
	}
	return lon
}

// DistanceNE returns the north and east distance in meters from a to b
func (a Anchor) DistanceNE(b Anchor) (north, east float64) {
	return DistanceNEE7(float64(a.LatE7), float64(a.LonE7), float64(b.LatE7), float64(b.LonE7))
}

// Offset moves the anchor by north / east meters. The result is truncated to whole 1e-7 degrees.
func (a Anchor) Offset(north, east float64) Anchor {
	lat, lon := OffsetE7(float64(a.LatE7), float64(a.LonE7), north, east)
	return Anchor{LatE7: int32(lat), LonE7: int32(lon)}
}

// DistanceNEE7 is DistanceNE on unrounded 1e-7 degree values
func DistanceNEE7(lat1, lon1, lat2, lon2 float64) (north, east float64) {
	dlat := lat2 - lat1
	dlon := longitudeDeltaE7(lon1, lon2)
	dlon *= LongitudeScale((lat1*0.5 + lat2*0.5) / E7)

	return dlat * LocationScalingFactor, dlon * LocationScalingFactor
}

// OffsetE7 is Offset without truncation
func OffsetE7(lat, lon, north, east float64) (float64, float64) {
	dlat := north * LocationScalingFactorInv
	// the scale at the mid latitude keeps this the inverse of DistanceNEE7
	scale := LongitudeScale((lat + dlat*0.5) / E7)
	dlon := east * LocationScalingFactorInv / scale

	return lat + dlat, wrapLongitudeE7(lon + dlon)
}
