package traffic

import (
	"geoworld/internal/geodata"
	"geoworld/pkg/geo"
)

// BuildFromRoads adds the connections described by a set of road features to
// the graph, projecting node locations under the given offset.
//
// A road's nodes are walked in order with a cursor on the last resolvable
// node: ids with no known location are skipped without breaking the chain, so
// an edge connects the nearest resolvable predecessor to the nearest
// resolvable successor.
func BuildFromRoads(
	graph *Graph,
	nodeLocations map[uint64]geo.Location,
	roads map[uint64]geodata.Feature,
	offset geo.Offset,
) {
	for _, road := range roads {
		direction := ParseDirection(road.Tags["oneway"])
		category := ParseRoadCategory(road.Tags["highway"])

		haveLast := false
		var lastID uint64
		var lastLocation geo.Location

		for _, nodeID := range road.Nodes {
			geoLocation, ok := nodeLocations[nodeID]
			if !ok {
				continue
			}

			graph.AddNode(nodeID, geoLocation.Project(offset))

			if haveLast {
				graph.AddConnection(
					lastID, lastLocation.Project(offset),
					nodeID, geoLocation.Project(offset),
					direction, category,
				)
			}

			haveLast = true
			lastID = nodeID
			lastLocation = geoLocation
		}
	}
}
