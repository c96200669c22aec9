// Package traffic builds a directed weighted routing graph from road
// features and answers multi-class shortest-path queries over it.
package traffic

import "strings"

// RoadCategory classifies a road segment from the OSM highway tag.
//
// See https://wiki.openstreetmap.org/wiki/Key:highway
type RoadCategory int

const (
	// A restricted access major divided highway. Equivalent to the freeway,
	// Autobahn, etc.
	Motorway RoadCategory = iota
	// The most important roads in a country's system that aren't motorways.
	Trunk
	Primary
	Secondary
	Tertiary
	// Minor through roads of a lower classification than tertiary.
	Unclassified
	// Access roads to housing, without a function of connecting settlements.
	Residential

	// Link roads connecting the road classes above.
	MotorwayLink
	TrunkLink
	PrimaryLink
	SecondaryLink
	TertiaryLink

	// Paths mainly or exclusively for pedestrians.
	Footway
	Steps
	Path

	// Uncategorized covers every highway value not in the enum, and roads
	// with no highway tag at all.
	Uncategorized
)

var roadCategoryNames = map[RoadCategory]string{
	Motorway:      "motorway",
	Trunk:         "trunk",
	Primary:       "primary",
	Secondary:     "secondary",
	Tertiary:      "tertiary",
	Unclassified:  "unclassified",
	Residential:   "residential",
	MotorwayLink:  "motorway_link",
	TrunkLink:     "trunk_link",
	PrimaryLink:   "primary_link",
	SecondaryLink: "secondary_link",
	TertiaryLink:  "tertiary_link",
	Footway:       "footway",
	Steps:         "steps",
	Path:          "path",
	Uncategorized: "uncategorized",
}

func (c RoadCategory) String() string {
	if name, ok := roadCategoryNames[c]; ok {
		return name
	}
	return "uncategorized"
}

// ParseRoadCategory converts a highway tag value to a RoadCategory. It is
// total: unrecognized or empty values map to Uncategorized.
func ParseRoadCategory(value string) RoadCategory {
	switch strings.ToLower(value) {
	case "motorway":
		return Motorway
	case "trunk":
		return Trunk
	case "primary":
		return Primary
	case "secondary":
		return Secondary
	case "tertiary":
		return Tertiary
	case "residential":
		return Residential
	case "unclassified":
		return Unclassified
	case "motorway_link":
		return MotorwayLink
	case "trunk_link":
		return TrunkLink
	case "primary_link":
		return PrimaryLink
	case "secondary_link":
		return SecondaryLink
	case "tertiary_link":
		return TertiaryLink
	case "footway":
		return Footway
	case "steps":
		return Steps
	case "path":
		return Path
	default:
		return Uncategorized
	}
}

// LaneWidth is the width of one lane of this category in world units before
// scaling. Read by the road mesh generators.
func (c RoadCategory) LaneWidth() float64 {
	switch c {
	case Motorway, Trunk, MotorwayLink, TrunkLink:
		return 4.0
	case Primary, Secondary, Tertiary, PrimaryLink, SecondaryLink, TertiaryLink:
		return 3.75
	case Residential:
		return 3.5
	case Footway, Steps, Path:
		return 0.5
	case Unclassified:
		return 3.0
	default:
		return 1.0
	}
}

// DefaultLanes is the lane count assumed when the data does not say.
func (c RoadCategory) DefaultLanes() int {
	switch c {
	case Motorway:
		return 4
	case Trunk:
		return 3
	case Primary, Secondary, Tertiary, MotorwayLink, TrunkLink:
		return 2
	default:
		return 1
	}
}

// Direction tells if a road is two-way, one-way, or one-way against the node
// order.
type Direction int

const (
	TwoWay Direction = iota
	OneWay
	Reversed
)

// ParseDirection converts an oneway tag value to a Direction. It is total:
// if we don't know, assume two-way. An absent tag parses as the empty string.
func ParseDirection(value string) Direction {
	switch value {
	case "yes", "true", "1":
		return OneWay
	case "-1", "reverse":
		return Reversed
	default:
		return TwoWay
	}
}
