// Package query converts user-facing query strings into executable data
// queries.
package query

import (
	"fmt"
	"path/filepath"
	"strings"

	"geoworld/internal/geoerr"
)

// InputType is the type of a user's query. City queries are a convenience
// and compile down to OverpassQL.
type InputType int

const (
	InputCity InputType = iota
	InputFile
	InputOverpass
)

// ParseInputType maps a user-supplied type name to an InputType.
func ParseInputType(name string) (InputType, error) {
	switch name {
	case "city":
		return InputCity, nil
	case "file":
		return InputFile, nil
	case "overpass":
		return InputOverpass, nil
	default:
		return 0, geoerr.InputSyntax("unknown query type %q", name)
	}
}

// Kind tells how a DataQuery is executed.
type Kind int

const (
	// KindOverpassQL runs against the Overpass API. The output is OSM JSON.
	KindOverpassQL Kind = iota
	// KindFile reads a file on the local file system.
	KindFile
)

// DataQuery is a query in internal format that can be executed to load
// geographic data. It cannot be assumed that the query is semantically
// correct or that the queried resources exist.
type DataQuery struct {
	Kind Kind

	// OverpassQL query text, for KindOverpassQL.
	QL string

	// File path and its data format, for KindFile.
	Path   string
	Format geoerr.Format
}

// cityTemplate finds all ways of interest within a named area, then appends
// the nodes they reference. `out body` outputs all tags.
const cityTemplate = `[out:json];
area[name="%s"]->.searchArea;
(
    way["highway"](area.searchArea);
    way["building"](area.searchArea);
    way["landuse"](area.searchArea);
    way["natural"="water"](area.searchArea);
    way["waterway"~"river|stream|canal|ditch"](area.searchArea);
)->.result;
(.result; .result >;);
out body;`

// Parse converts a query string given by the user to a query in internal
// format.
func Parse(inputType InputType, value string) (DataQuery, error) {
	switch inputType {
	case InputCity:
		if strings.Contains(value, `"`) {
			return DataQuery{}, geoerr.InputSyntax("city query may not contain quotes")
		}
		return DataQuery{
			Kind: KindOverpassQL,
			QL:   fmt.Sprintf(cityTemplate, value),
		}, nil

	case InputOverpass:
		return DataQuery{Kind: KindOverpassQL, QL: value}, nil

	case InputFile:
		extension := filepath.Ext(value)
		var format geoerr.Format
		switch extension {
		case ".json":
			format = geoerr.FormatOSMJSON
		case ".geojson":
			format = geoerr.FormatGeoJSON
		case "":
			return DataQuery{}, geoerr.InputSyntax("file without file extension")
		default:
			return DataQuery{}, geoerr.InputSyntax("unsupported file extension %q", extension)
		}
		return DataQuery{Kind: KindFile, Path: value, Format: format}, nil

	default:
		return DataQuery{}, geoerr.InputSyntax("unknown query type")
	}
}
