package geodata

import (
	"bytes"
	"encoding/json"
	"strconv"

	"geoworld/internal/geoerr"
	"geoworld/pkg/geo"
)

// ConvertOSMJSON converts an OSM JSON document to GeoData. Features are
// bucketed into the chunk containing their projection under the given offset.
//
// Two passes over the element list are needed: chunk placement of a way
// depends on the locations of its member nodes, which are collected up front.
// Structural violations abort the whole conversion; per-element problems
// (a node without coordinates, a way with no resolvable members, a way with
// no recognized tags) are skipped without error.
//
// See the OSM JSON format: https://wiki.openstreetmap.org/wiki/OSM_JSON
// and the almost identical Overpass JSON output format.
func ConvertOSMJSON(data []byte, offset geo.Offset) (*GeoData, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var root any
	if err := decoder.Decode(&root); err != nil {
		return nil, geoerr.FromJSON(data, err, geoerr.FormatOSMJSON)
	}

	rootObject, ok := root.(map[string]any)
	if !ok {
		return nil, syntaxError("OSM JSON root must be an object")
	}

	elements, ok := rootObject["elements"].([]any)
	if !ok {
		return nil, syntaxError("OSM JSON root needs to have an `elements` key that is an array")
	}

	// Pass 1: node locations only.
	nodeLocations := make(map[uint64]geo.Location)
	for _, element := range elements {
		object, ok := element.(map[string]any)
		if !ok {
			return nil, syntaxError("an element in the `elements` array must be an object")
		}

		elementType, err := getElementType(object)
		if err != nil {
			return nil, err
		}
		if elementType != "node" {
			continue
		}

		id, err := getID(object)
		if err != nil {
			return nil, err
		}

		// A node without "lon" and "lat" is ignored.
		longitude, ok := getNumber(object, "lon")
		if !ok {
			continue
		}
		latitude, ok := getNumber(object, "lat")
		if !ok {
			continue
		}
		nodeLocations[id] = geo.Location{Longitude: longitude, Latitude: latitude}
	}

	// Pass 2: everything else.
	chunks := make(map[geo.ChunkIndex]*Chunk)
	for _, element := range elements {
		object := element.(map[string]any) // validated in the first pass

		elementType, err := getElementType(object)
		if err != nil {
			return nil, err
		}
		id, err := getID(object)
		if err != nil {
			return nil, err
		}
		tags, err := getTags(object)
		if err != nil {
			return nil, err
		}

		switch elementType {
		case "node":
			if len(tags) == 0 {
				continue
			}
			// A tagged node must have appeared with coordinates in pass 1.
			location, ok := nodeLocations[id]
			if !ok {
				return nil, syntaxError("node has tags but no location")
			}
			index := geo.ChunkAt(location.Project(offset))
			chunkFor(chunks, index).Nodes[id] = Node{Tags: tags}

		case "way":
			// Confusingly, things like buildings are also "way"s.
			nodesField, ok := object["nodes"].([]any)
			if !ok {
				return nil, syntaxError("a \"way\" element must have a `nodes` key")
			}
			nodes, ok := parseIDArray(nodesField)
			if !ok {
				return nil, syntaxError("`nodes` array must not contain non-integral values")
			}

			kind, ok := classifyFeature(tags)
			if !ok {
				continue
			}

			// The chunk a feature lies in is decided by the average location
			// of its member nodes.
			average, ok := averageLocation(nodeLocations, nodes)
			if !ok {
				continue
			}
			index := geo.ChunkAt(average.Project(offset))
			chunkFor(chunks, index).insert(kind, id, Feature{Nodes: nodes, Tags: tags})

		case "relation":
			// Multipolygon relations are deliberately not supported.

		default:
			// Unknown element types are ignored.
		}
	}

	return &GeoData{NodeLocations: nodeLocations, Chunks: chunks}, nil
}

// getElementType returns the "type" field of an element if it is there and
// is a string.
func getElementType(object map[string]any) (string, error) {
	elementType, ok := object["type"].(string)
	if !ok {
		return "", syntaxError("an element must have a `type` tag that is a string")
	}
	return elementType, nil
}

// getID returns the "id" field of an element if it is a nonnegative integer.
func getID(object map[string]any) (uint64, error) {
	number, ok := object["id"].(json.Number)
	if !ok {
		return 0, syntaxError("an element must have an `id` tag that is a nonnegative integer")
	}
	id, err := strconv.ParseUint(number.String(), 10, 64)
	if err != nil {
		return 0, syntaxError("an element must have an `id` tag that is a nonnegative integer")
	}
	return id, nil
}

// getTags returns the tags of an element, or an error if not all key-value
// pairs are from string to string. An absent tags field yields no tags.
func getTags(object map[string]any) (map[string]string, error) {
	field, present := object["tags"]
	if !present {
		return nil, nil
	}
	tagsObject, ok := field.(map[string]any)
	if !ok {
		return nil, syntaxError("`tags` field must be an object")
	}

	tags := make(map[string]string, len(tagsObject))
	for key, value := range tagsObject {
		text, ok := value.(string)
		if !ok {
			return nil, syntaxError("`tags` field must be a map from strings to strings")
		}
		tags[key] = text
	}
	return tags, nil
}

// getNumber reads a numeric field, accepting both integer and floating JSON
// encodings and normalizing to double precision.
func getNumber(object map[string]any, key string) (float64, bool) {
	number, ok := object[key].(json.Number)
	if !ok {
		return 0, false
	}
	value, err := number.Float64()
	if err != nil {
		return 0, false
	}
	return value, true
}

// parseIDArray converts an array of JSON values to ids, or returns false if
// not all values are nonnegative integers.
func parseIDArray(values []any) ([]uint64, bool) {
	ids := make([]uint64, 0, len(values))
	for _, value := range values {
		number, ok := value.(json.Number)
		if !ok {
			return nil, false
		}
		id, err := strconv.ParseUint(number.String(), 10, 64)
		if err != nil {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

func syntaxError(message string) *geoerr.Error {
	return geoerr.DataSyntax(geoerr.FormatOSMJSON, message)
}
