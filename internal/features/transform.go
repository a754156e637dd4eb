package features

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/project"
	"github.com/paulmach/orb/simplify"
)

// simplifyFeatures drops vertices closer than threshold to the line, in grid units
func simplifyFeatures(fc *geojson.FeatureCollection, threshold float64) {
	s := simplify.DouglasPeucker(threshold)

	for _, f := range fc.Features {
		if _, ok := f.Geometry.(orb.LineString); ok {
			f.Geometry = s.Simplify(f.Geometry)
		}
	}
}

// projectFeatures maps all geometries of fc with proj
func projectFeatures(fc *geojson.FeatureCollection, proj orb.Projection) {
	for _, f := range fc.Features {
		f.Geometry = project.Geometry(f.Geometry, proj)
	}
	fc.BBox = nil
}
