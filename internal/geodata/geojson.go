package geodata

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"geoworld/internal/geoerr"
	"geoworld/pkg/geo"
)

// ConvertGeoJSON converts a GeoJSON FeatureCollection to GeoData.
//
// GeoJSON carries no OSM ids, so node and feature ids are synthesized in
// document order. String-valued properties become tags and go through the
// same classification as OSM tags; points with at least one tag are kept as
// nodes; line strings and polygon outer rings become way-like features.
func ConvertGeoJSON(data []byte, offset geo.Offset) (*GeoData, error) {
	collection, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, geoerr.FromJSON(data, err, geoerr.FormatGeoJSON)
	}

	result := &GeoData{
		NodeLocations: make(map[uint64]geo.Location),
		Chunks:        make(map[geo.ChunkIndex]*Chunk),
	}
	nextID := uint64(1)

	for _, feature := range collection.Features {
		tags := stringProperties(feature.Properties)

		switch geometry := feature.Geometry.(type) {
		case orb.Point:
			id := nextID
			nextID++
			location := geo.Location{Longitude: geometry.Lon(), Latitude: geometry.Lat()}
			result.NodeLocations[id] = location
			if len(tags) > 0 {
				index := geo.ChunkAt(location.Project(offset))
				chunkFor(result.Chunks, index).Nodes[id] = Node{Tags: tags}
			}

		case orb.LineString:
			addWayFeature(result, &nextID, orb.Ring(geometry), tags, offset)

		case orb.Polygon:
			if len(geometry) > 0 {
				addWayFeature(result, &nextID, geometry[0], tags, offset)
			}

		case orb.MultiPolygon:
			for _, polygon := range geometry {
				if len(polygon) > 0 {
					addWayFeature(result, &nextID, polygon[0], tags, offset)
				}
			}

		default:
			// Other geometry types have no equivalent in the model.
		}
	}

	return result, nil
}

// addWayFeature registers the points of a ring as nodes and, when the tags
// classify to a feature kind, inserts the feature into the chunk of its mean
// location.
func addWayFeature(result *GeoData, nextID *uint64, ring orb.Ring, tags map[string]string, offset geo.Offset) {
	kind, classified := classifyFeature(tags)

	nodes := make([]uint64, 0, len(ring))
	for _, point := range ring {
		id := *nextID
		*nextID++
		result.NodeLocations[id] = geo.Location{Longitude: point.Lon(), Latitude: point.Lat()}
		nodes = append(nodes, id)
	}

	if !classified || len(nodes) == 0 {
		return
	}

	id := *nextID
	*nextID++
	average, ok := averageLocation(result.NodeLocations, nodes)
	if !ok {
		return
	}
	index := geo.ChunkAt(average.Project(offset))
	chunkFor(result.Chunks, index).insert(kind, id, Feature{Nodes: nodes, Tags: tags})
}

func stringProperties(properties geojson.Properties) map[string]string {
	tags := make(map[string]string)
	for key, value := range properties {
		if text, ok := value.(string); ok {
			tags[key] = text
		}
	}
	return tags
}
