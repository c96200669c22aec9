// Package geodata defines the internal in-memory geographic data structures
// and the routines converting external formats to them. These routines are
// pure: they do no I/O and hold no shared state.
package geodata

import (
	"geoworld/pkg/geo"
)

// GeoData is a collection of geographic data produced by one ingested batch.
// It is immutable after construction and superseded by the next batch.
type GeoData struct {
	NodeLocations map[uint64]geo.Location
	Chunks        map[geo.ChunkIndex]*Chunk
}

// IsEmpty reports whether there are zero features and nodes.
func (d *GeoData) IsEmpty() bool {
	return len(d.NodeLocations) == 0 && len(d.Chunks) == 0
}

// Chunk holds the nodes and features that lie within one chunk.
type Chunk struct {
	Nodes     map[uint64]Node
	Buildings map[uint64]Feature
	Roads     map[uint64]Feature
	LandUses  map[uint64]Feature
	Lakes     map[uint64]Feature
	Rivers    map[uint64]Feature
}

func newChunk() *Chunk {
	return &Chunk{
		Nodes:     make(map[uint64]Node),
		Buildings: make(map[uint64]Feature),
		Roads:     make(map[uint64]Feature),
		LandUses:  make(map[uint64]Feature),
		Lakes:     make(map[uint64]Feature),
		Rivers:    make(map[uint64]Feature),
	}
}

// Node is a single point on earth that carries some associated information.
// Points without tags are kept only in NodeLocations.
type Node struct {
	Tags map[string]string
}

// Feature is a map feature defined by an ordered list of member node ids.
// Member ids reference NodeLocations and are not guaranteed to resolve.
type Feature struct {
	Nodes []uint64
	Tags  map[string]string
}

// FeatureKind tells which collection of a chunk a feature belongs to.
type FeatureKind int

const (
	KindBuilding FeatureKind = iota
	KindRoad
	KindLandUse
	KindLake
	KindRiver
)

// classifyFeature maps a tag set to a feature kind. The priority order
// matters: a way tagged both building and highway is a building.
func classifyFeature(tags map[string]string) (FeatureKind, bool) {
	switch {
	case hasTag(tags, "building"):
		return KindBuilding, true
	case hasTag(tags, "waterway"):
		return KindRiver, true
	case hasTag(tags, "highway"):
		return KindRoad, true
	case hasTag(tags, "landuse"):
		return KindLandUse, true
	case tags["natural"] == "water":
		return KindLake, true
	default:
		return 0, false
	}
}

func hasTag(tags map[string]string, key string) bool {
	_, ok := tags[key]
	return ok
}

// insert places a feature into the collection matching its kind.
func (c *Chunk) insert(kind FeatureKind, id uint64, f Feature) {
	switch kind {
	case KindBuilding:
		c.Buildings[id] = f
	case KindRoad:
		c.Roads[id] = f
	case KindLandUse:
		c.LandUses[id] = f
	case KindLake:
		c.Lakes[id] = f
	case KindRiver:
		c.Rivers[id] = f
	}
}

// chunkFor returns the chunk at the given index, creating it on first use.
func chunkFor(chunks map[geo.ChunkIndex]*Chunk, index geo.ChunkIndex) *Chunk {
	chunk, ok := chunks[index]
	if !ok {
		chunk = newChunk()
		chunks[index] = chunk
	}
	return chunk
}

// averageLocation returns the arithmetic mean of the locations of the
// resolvable member nodes. Unresolvable ids are skipped, not treated as zero.
// The second return is false when no member node resolves.
func averageLocation(locations map[uint64]geo.Location, nodes []uint64) (geo.Location, bool) {
	var sumLon, sumLat float64
	count := 0
	for _, id := range nodes {
		location, ok := locations[id]
		if !ok {
			continue
		}
		sumLon += location.Longitude
		sumLat += location.Latitude
		count++
	}
	if count == 0 {
		return geo.Location{}, false
	}
	return geo.Location{
		Longitude: sumLon / float64(count),
		Latitude:  sumLat / float64(count),
	}, true
}
