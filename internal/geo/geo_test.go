package geo

import (
	"math"
	"math/rand"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestLongitudeDeltaAntimeridian(t *testing.T) {
	d := LongitudeDelta(1799000000, -1799000000)
	assert.Equal(t, int32(2000000), d)

	d = LongitudeDelta(-1799000000, 1799000000)
	assert.Equal(t, int32(-2000000), d)
}

func TestLongitudeDeltaSameHemisphere(t *testing.T) {
	assert.Equal(t, int32(10000000), LongitudeDelta(10000000, 20000000))
	assert.Equal(t, int32(-30000000), LongitudeDelta(-10000000, -40000000))
	// across greenwich, no correction
	assert.Equal(t, int32(20000000), LongitudeDelta(-10000000, 10000000))
}

func TestLongitudeScaleClamp(t *testing.T) {
	assert.InDelta(t, 1.0, LongitudeScale(0), 1e-12)
	assert.InDelta(t, 0.5, LongitudeScale(60), 1e-9)
	assert.Equal(t, 0.01, LongitudeScale(90))
	assert.Equal(t, 0.01, LongitudeScale(-89.9))
}

func TestDistanceOneDegree(t *testing.T) {
	a := AnchorFromDegrees(0, 0)

	north, east := a.DistanceNE(AnchorFromDegrees(1, 0))
	assert.InDelta(t, 111318.845, north, 0.01)
	assert.Zero(t, east)

	north, east = a.DistanceNE(AnchorFromDegrees(0, 1))
	assert.Zero(t, north)
	assert.InDelta(t, 111318.845, east, 0.01)
}

func TestOffsetRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(69420))

	for i := 0; i < 10000; i++ {
		lat := float64(r.Int63n(2*850000000) - 850000000)
		lon := float64(r.Int63n(2*halfCircleE7) - halfCircleE7)
		north := (r.Float64() - 0.5) * 200000
		east := (r.Float64() - 0.5) * 200000

		lat2, lon2 := OffsetE7(lat, lon, north, east)
		gotNorth, gotEast := DistanceNEE7(lat, lon, lat2, lon2)

		assert.InDelta(t, north, gotNorth, math.Abs(north)*1e-6+1e-6)
		assert.InDelta(t, east, gotEast, math.Abs(east)*1e-6+1e-6)
	}
}

func TestOffsetWrapsLongitude(t *testing.T) {
	a := AnchorFromDegrees(0, 180)
	b := a.Offset(0, 1000)

	assert.True(t, b.Valid())
	assert.Less(t, b.LonE7, int32(-1790000000))

	_, east := a.DistanceNE(b)
	assert.InDelta(t, 1000, east, 0.02)
}

func TestAnchorOffsetTruncates(t *testing.T) {
	a := AnchorFromDegrees(-35, 149)
	b := a.Offset(2400, 2800)

	north, east := a.DistanceNE(b)
	assert.InDelta(t, 2400, north, 0.02)
	assert.InDelta(t, 2800, east, 0.02)
}

func TestSinusoidalRoundTrip(t *testing.T) {
	s := NewSinusoidal(-35, 149)

	for _, p := range []orb.Point{{149, -35}, {149.5, -34.5}, {148.2, -35.9}} {
		q := s.Inverse(s.Forward(p))
		assert.InDelta(t, p.Lon(), q.Lon(), 1e-9)
		assert.InDelta(t, p.Lat(), q.Lat(), 1e-9)
	}

	origin := s.Forward(orb.Point{149, -35})
	assert.InDelta(t, 0, origin.X(), 1e-9)
	assert.InDelta(t, 0, origin.Y(), 1e-9)
}

func TestSinusoidalProj4(t *testing.T) {
	assert.Equal(t, "+proj=ardusinu +R=6378100 +lat_0=-35 +lon_0=149", NewSinusoidal(-35, 149).Proj4())
}
