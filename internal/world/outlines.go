package world

import (
	"github.com/paulmach/orb"

	"geoworld/internal/geodata"
	"geoworld/pkg/geo"
	"geoworld/pkg/simplify"
)

// ChunkOutlines holds the simplified, projected footprints of one chunk's
// area features, precomputed for the mesh generators downstream.
type ChunkOutlines struct {
	Buildings map[uint64]orb.Ring
	Lakes     map[uint64]orb.Ring
	LandUses  map[uint64]orb.Ring
}

// buildOutlines projects and simplifies the area features of one chunk. It
// reads only its own slice of the immutable batch, so chunks can be processed
// concurrently.
func buildOutlines(
	nodeLocations map[uint64]geo.Location,
	chunk *geodata.Chunk,
	offset geo.Offset,
	threshold float64,
) *ChunkOutlines {
	return &ChunkOutlines{
		Buildings: outlineSet(nodeLocations, chunk.Buildings, offset, threshold),
		Lakes:     outlineSet(nodeLocations, chunk.Lakes, offset, threshold),
		LandUses:  outlineSet(nodeLocations, chunk.LandUses, offset, threshold),
	}
}

func outlineSet(
	nodeLocations map[uint64]geo.Location,
	features map[uint64]geodata.Feature,
	offset geo.Offset,
	threshold float64,
) map[uint64]orb.Ring {
	outlines := make(map[uint64]orb.Ring, len(features))
	for id, feature := range features {
		ring := make(orb.Ring, 0, len(feature.Nodes))
		for _, nodeID := range feature.Nodes {
			location, ok := nodeLocations[nodeID]
			if !ok {
				continue
			}
			ring = append(ring, location.Project(offset))
		}
		if len(ring) == 0 {
			continue
		}
		outlines[id] = simplify.Ring(ring, threshold)
	}
	return outlines
}
