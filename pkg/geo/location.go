package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// GlobalScale is the overall scale factor between projected units and the
// units used by downstream consumers (renderers, simulations).
const GlobalScale = 100.0

// One longitudinal degree is approximately 110.6 km at the Equator at sea
// level, but this strongly varies depending on the location on earth. One
// latitudinal degree is approximately 111.3 km.
const (
	longitudinalScale = 64000.0 * GlobalScale
	latitudinalScale  = 64000.0 * GlobalScale
)

// Location is a single point on the surface of the earth.
type Location struct {
	// West to east.
	Longitude float64
	// North to south.
	Latitude float64
}

// Offset is the unscaled projection origin currently in effect. It is owned
// by a single coordinator and replaced wholesale when recentring triggers,
// never partially mutated.
type Offset struct {
	X float64
	Y float64
}

// DefaultOffset returns the offset used before any data has been ingested.
// It is infinitely far from every candidate, so the first ingest always
// recenters.
func DefaultOffset() Offset {
	return Offset{X: math.Inf(-1), Y: math.Inf(-1)}
}

// IsSet reports whether the offset has been assigned a real origin yet.
func (o Offset) IsSet() bool {
	return !math.IsInf(o.X, -1) && !math.IsInf(o.Y, -1)
}

// DistanceTo returns the Euclidean distance between two offsets in the
// unscaled projection plane.
func (o Offset) DistanceTo(other Offset) float64 {
	return math.Hypot(other.X-o.X, other.Y-o.Y)
}

// Project converts geographic coordinates to XZ coordinates on a plane.
//
// Longitude maps linearly. Latitude goes through a Mercator-like transform
// (inverse hyperbolic sine of the tangent) so that visual spacing stays
// plausible away from the Equator. The result is narrowed through single
// precision, since that is what the render layer consumes.
func (l Location) Project(offset Offset) orb.Point {
	x := ((l.Longitude+180.0)/360.0 - offset.X) * longitudinalScale
	latRadians := l.Latitude / 180.0 * math.Pi
	y := ((1.0-math.Asinh(math.Tan(latRadians))/math.Pi)/2.0 - offset.Y) * latitudinalScale
	return orb.Point{float64(float32(x)), float64(float32(y))}
}

// Unproject inverts Project. It is not exact, since Project narrows through
// single precision, but close enough for reporting coordinates.
func Unproject(p orb.Point, offset Offset) Location {
	longitude := (p[0]/longitudinalScale+offset.X)*360.0 - 180.0
	yNorm := p[1]/latitudinalScale + offset.Y
	latRadians := math.Atan(math.Sinh((1.0 - 2.0*yNorm) * math.Pi))
	return Location{
		Longitude: longitude,
		Latitude:  latRadians * 180.0 / math.Pi,
	}
}

// ProjectNoScale performs the same projection as Project, but without offset
// subtraction or scaling. The result lies in [0,1) on both axes and is used
// to compute candidate offsets for recentring.
func (l Location) ProjectNoScale() (x, y float64) {
	x = (l.Longitude + 180.0) / 360.0
	latRadians := l.Latitude / 180.0 * math.Pi
	y = (1.0 - math.Asinh(math.Tan(latRadians))/math.Pi) / 2.0
	return x, y
}
