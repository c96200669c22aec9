package traffic

import (
	"container/heap"
	"math"
	"math/rand/v2"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// costMultiplierDisallowed is the cost multiplier for edges whose category is
// disallowed for the querying agent class. A very high number, so such edges
// are only taken when nothing else connects.
const costMultiplierDisallowed = 100.0

// VertexID is a stable handle into the graph's vertex arena.
type VertexID int

// Graph is a directed weighted graph for agents to travel in the world.
// Vertices hold their projected location; edges are weighted by distance and
// carry the road category.
//
// All mutating calls must be serialized through one owner. Shortest-path
// queries only read and may run concurrently with each other, but not with a
// mutation.
type Graph struct {
	vertices  []orb.Point
	out       [][]edge
	ids       map[uint64]VertexID // maps external node ids to vertices
	edgeCount int
}

type edge struct {
	to       VertexID
	distance float64
	category RoadCategory
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{ids: make(map[uint64]VertexID)}
}

// AddNode adds a vertex to the graph, or returns the existing handle when the
// external id has been seen before.
func (g *Graph) AddNode(externalID uint64, location orb.Point) VertexID {
	if id, ok := g.ids[externalID]; ok {
		return id
	}
	id := VertexID(len(g.vertices))
	g.vertices = append(g.vertices, location)
	g.out = append(g.out, nil)
	g.ids[externalID] = id
	return id
}

// AddConnection adds a way to travel between two vertices, creating the
// vertices as needed. One directed edge is inserted for one-way roads, two
// for two-way. Parallel edges between the same pair are kept as-is.
func (g *Graph) AddConnection(
	fromID uint64, fromLocation orb.Point,
	toID uint64, toLocation orb.Point,
	direction Direction, category RoadCategory,
) {
	distance := planar.Distance(fromLocation, toLocation)

	from := g.AddNode(fromID, fromLocation)
	to := g.AddNode(toID, toLocation)

	switch direction {
	case OneWay:
		g.addEdge(from, to, distance, category)
	case TwoWay:
		g.addEdge(from, to, distance, category)
		g.addEdge(to, from, distance, category)
	case Reversed:
		g.addEdge(to, from, distance, category)
	}
}

func (g *Graph) addEdge(from, to VertexID, distance float64, category RoadCategory) {
	g.out[from] = append(g.out[from], edge{to: to, distance: distance, category: category})
	g.edgeCount++
}

// VertexID returns the handle for an external node id, if it is in the graph.
func (g *Graph) VertexID(externalID uint64) (VertexID, bool) {
	id, ok := g.ids[externalID]
	return id, ok
}

// Location returns the projected location of a vertex. The handle must be
// valid.
func (g *Graph) Location(id VertexID) orb.Point {
	return g.vertices[id]
}

// Size returns the number of vertices.
func (g *Graph) Size() int {
	return len(g.vertices)
}

// EdgeCount returns the number of directed edges.
func (g *Graph) EdgeCount() int {
	return g.edgeCount
}

// Category returns the road category of the first edge between two vertices,
// or Uncategorized when they are not directly connected.
func (g *Graph) Category(from, to VertexID) RoadCategory {
	for _, e := range g.out[from] {
		if e.to == to {
			return e.category
		}
	}
	return Uncategorized
}

// RandomVertex returns a uniformly random vertex handle. The graph must not
// be empty.
func (g *Graph) RandomVertex(rng *rand.Rand) VertexID {
	return VertexID(rng.IntN(len(g.vertices)))
}

// Reset clears vertices, edges and the id map. Invoked when the projection
// offset recenters and every stored location becomes stale.
func (g *Graph) Reset() {
	g.vertices = nil
	g.out = nil
	g.ids = make(map[uint64]VertexID)
	g.edgeCount = 0
}

// ShortestPath runs A* between two vertices and returns the vertex sequence
// of the cheapest path for the given agent class, or nil when no path exists.
// Disconnected endpoints are a normal condition, not an error. Both handles
// must be valid; callers validate them beforehand.
//
// Edge cost is the Euclidean distance, multiplied by a heavy penalty when the
// category is disallowed for the class, divided by the class's speed on the
// category. The heuristic is the straight-line distance to the goal.
func (g *Graph) ShortestPath(from, to VertexID, class AgentClass) []VertexID {
	goal := g.vertices[to]

	cost := make([]float64, len(g.vertices))
	for i := range cost {
		cost[i] = math.Inf(1)
	}
	cameFrom := make([]VertexID, len(g.vertices))
	for i := range cameFrom {
		cameFrom[i] = -1
	}
	settled := make([]bool, len(g.vertices))

	cost[from] = 0
	frontier := &vertexQueue{{vertex: from, priority: planar.Distance(g.vertices[from], goal)}}
	heap.Init(frontier)

	for frontier.Len() > 0 {
		current := heap.Pop(frontier).(queueItem)
		if settled[current.vertex] {
			continue
		}
		settled[current.vertex] = true

		if current.vertex == to {
			return reconstructPath(cameFrom, from, to)
		}

		for _, e := range g.out[current.vertex] {
			if settled[e.to] {
				continue
			}

			weight := e.distance
			if !class.Allows(e.category) {
				weight *= costMultiplierDisallowed
			}
			weight /= class.Speed(e.category)

			next := cost[current.vertex] + weight
			if next < cost[e.to] {
				cost[e.to] = next
				cameFrom[e.to] = current.vertex
				heap.Push(frontier, queueItem{
					vertex:   e.to,
					priority: next + planar.Distance(g.vertices[e.to], goal),
				})
			}
		}
	}

	return nil
}

func reconstructPath(cameFrom []VertexID, from, to VertexID) []VertexID {
	reversed := []VertexID{to}
	for at := to; at != from; {
		at = cameFrom[at]
		reversed = append(reversed, at)
	}

	path := make([]VertexID, len(reversed))
	for i, id := range reversed {
		path[len(path)-1-i] = id
	}
	return path
}

// vertexQueue is the A* frontier, a min-heap on priority.
type vertexQueue []queueItem

type queueItem struct {
	vertex   VertexID
	priority float64
}

func (q vertexQueue) Len() int            { return len(q) }
func (q vertexQueue) Less(i, j int) bool  { return q[i].priority < q[j].priority }
func (q vertexQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *vertexQueue) Push(x any)         { *q = append(*q, x.(queueItem)) }
func (q *vertexQueue) Pop() any {
	old := *q
	item := old[len(old)-1]
	*q = old[:len(old)-1]
	return item
}
