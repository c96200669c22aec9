package geo

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// ChunkSize is the side length of a chunk in projected world units.
const ChunkSize = 8.0 * GlobalScale

// ChunkIndex identifies a fixed-size square region of the projected plane.
// It is used only as a grouping key; two points in the same tile always
// produce equal indices.
type ChunkIndex struct {
	X int64
	Z int64
}

// ChunkAt returns the index of the chunk that the given projected
// coordinates lie inside of.
func ChunkAt(p orb.Point) ChunkIndex {
	return ChunkIndex{
		X: int64(math.Floor(p[0] / ChunkSize)),
		Z: int64(math.Floor(p[1] / ChunkSize)),
	}
}

func (c ChunkIndex) String() string {
	return fmt.Sprintf("%d/%d", c.X, c.Z)
}
