package geo

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// EarthRadius is the sphere radius LocationScalingFactor is derived from
const EarthRadius = 6378100.0

// Sinusoidal is the simple cylindrical projection terrain grids are laid out in:
//
//	x = R * (longitude - lon0) * cos(latitude)
//	y = R * (latitude - lat0)
//
// The inverse divides by cos(latitude) and is useless close to the poles.
//
// y is relative to Lat0 so that (0, 0) is the anchor of the grid. The ardusinu PROJ plugin ignores
// lat_0 and measures y from the equator.
type Sinusoidal struct {
	Radius float64
	Lat0   float64
	Lon0   float64
}

// NewSinusoidal creates the projection for a terrain grid anchored at the given whole degrees
func NewSinusoidal(latDeg, lonDeg int) Sinusoidal {
	return Sinusoidal{Radius: EarthRadius, Lat0: float64(latDeg), Lon0: float64(lonDeg)}
}

// Forward projects a longitude / latitude point (degrees) to meters
func (s Sinusoidal) Forward(p orb.Point) orb.Point {
	lam := deg2rad(p.Lon() - s.Lon0)
	phi := deg2rad(p.Lat())

	return orb.Point{
		s.Radius * lam * math.Cos(phi),
		s.Radius * (phi - deg2rad(s.Lat0)),
	}
}

// Inverse projects meters back to longitude / latitude (degrees)
func (s Sinusoidal) Inverse(p orb.Point) orb.Point {
	phi := p.Y()/s.Radius + deg2rad(s.Lat0)
	lam := p.X() / (s.Radius * math.Cos(phi))

	return orb.Point{rad2deg(lam) + s.Lon0, rad2deg(phi)}
}

// ToWGS84 returns Inverse as an orb.Projection
func (s Sinusoidal) ToWGS84() orb.Projection {
	return s.Inverse
}

// FromWGS84 returns Forward as an orb.Projection
func (s Sinusoidal) FromWGS84() orb.Projection {
	return s.Forward
}

// Proj4 returns the proj definition of the projection. PROJ places y = 0 on the equator for it,
// not on Lat0.
func (s Sinusoidal) Proj4() string {
	return fmt.Sprintf("+proj=ardusinu +R=%.0f +lat_0=%g +lon_0=%g", s.Radius, s.Lat0, s.Lon0)
}
