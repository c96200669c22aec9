package traffic

import (
	"math/rand/v2"

	"geoworld/pkg/geo"
)

// ReferenceSpeed is the speed of a pedestrian, about 5 km/h in real life,
// expressed in world units. All other speeds are multiples of it.
const ReferenceSpeed = 0.01 * geo.GlobalScale

// AgentClass is a category of routing consumer with its own road-category
// permissions and speed multipliers.
type AgentClass int

const (
	ClassCar AgentClass = iota
	ClassPedestrian
)

// ParseAgentClass maps a class name to an AgentClass.
func ParseAgentClass(name string) (AgentClass, bool) {
	switch name {
	case "car":
		return ClassCar, true
	case "pedestrian":
		return ClassPedestrian, true
	default:
		return 0, false
	}
}

func (a AgentClass) String() string {
	switch a {
	case ClassCar:
		return "car"
	case ClassPedestrian:
		return "pedestrian"
	default:
		return "unknown"
	}
}

// Allows reports whether this agent class may normally use a road category.
// Disallowed categories are still traversable at a heavy cost penalty.
func (a AgentClass) Allows(category RoadCategory) bool {
	switch a {
	case ClassCar:
		switch category {
		case Motorway, Trunk, Primary, Secondary, Tertiary, Residential,
			MotorwayLink, TrunkLink, PrimaryLink, SecondaryLink, TertiaryLink,
			Uncategorized:
			return true
		default:
			return false
		}
	case ClassPedestrian:
		switch category {
		case Tertiary, Residential, Footway, Steps, Path, Unclassified,
			Uncategorized:
			return true
		default:
			return false
		}
	default:
		return false
	}
}

// Speed is the traversal speed of this agent class on the given road
// category. The multiplier table is total: categories without an entry use
// the slowest motorized multiplier, and pedestrians always move at the
// reference speed.
func (a AgentClass) Speed(category RoadCategory) float64 {
	switch a {
	case ClassCar:
		multiplier := 6.0
		switch category {
		case Motorway, Trunk:
			multiplier = 24.0
		case Primary:
			multiplier = 20.0
		case Secondary:
			multiplier = 16.0
		case Tertiary:
			multiplier = 12.0
		case Residential, Unclassified:
			multiplier = 6.0 // about 30 km/h
		}
		return multiplier * ReferenceSpeed
	default:
		return ReferenceSpeed
	}
}

// Agent is a routing consumer placed in the world with a precomputed path.
// Moving the agent along the path is the simulation layer's concern.
type Agent struct {
	Class       AgentClass
	Origin      VertexID
	Destination VertexID
	Path        []VertexID
}

// pedestrianCarSplit is the chance that a spawned agent is a car.
const pedestrianCarSplit = 0.5

// SpawnAgents creates up to n agents with random origins and destinations
// and a shortest path between them. Agents whose endpoints fall in different
// connected components are dropped.
func SpawnAgents(graph *Graph, n int, rng *rand.Rand) []Agent {
	if graph.Size() == 0 {
		return nil
	}

	agents := make([]Agent, 0, n)
	for range n {
		origin := graph.RandomVertex(rng)
		destination := graph.RandomVertex(rng)

		class := ClassPedestrian
		if rng.Float64() < pedestrianCarSplit {
			class = ClassCar
		}

		path := graph.ShortestPath(origin, destination, class)
		if path == nil {
			continue
		}

		agents = append(agents, Agent{
			Class:       class,
			Origin:      origin,
			Destination: destination,
			Path:        path,
		})
	}
	return agents
}
