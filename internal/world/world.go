// Package world coordinates ingestion: parsing batches, the recentring
// policy, traffic graph construction, and the per-chunk outline precompute.
package world

import (
	"math/rand/v2"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"geoworld/internal/geodata"
	"geoworld/internal/geoerr"
	"geoworld/internal/traffic"
	"geoworld/pkg/geo"
)

// RecenterThreshold is the maximum unscaled offset distance a new batch's
// median may be from the active offset before all spatial state is rebuilt
// around a new origin. Roughly the Eindhoven-Izmir distance; may be adjusted
// down if precision artifacts persist.
const RecenterThreshold = 0.083291353581523

// Options tunes a World. Zero fields take defaults.
type Options struct {
	// OutlineWorkers caps concurrent per-chunk outline builds.
	OutlineWorkers int
	// SimplifyThreshold is the triangle area below which outline vertices
	// are dropped, in projected units.
	SimplifyThreshold float64
	// VerticesPerAgent spawns one agent per this many new graph vertices.
	VerticesPerAgent int
	// Rand drives agent spawning.
	Rand *rand.Rand
}

const (
	defaultOutlineWorkers    = 4
	defaultSimplifyThreshold = 1.0
	defaultVerticesPerAgent  = 100
)

// World owns the offset, the latest ingested batch, the traffic graph, the
// precomputed outlines, and the spawned agents. All mutation goes through
// Ingest; reads must not overlap an Ingest in progress.
type World struct {
	log  *zap.Logger
	opts Options
	rng  *rand.Rand

	offset   geo.Offset
	data     *geodata.GeoData
	graph    *traffic.Graph
	outlines map[geo.ChunkIndex]*ChunkOutlines
	agents   []traffic.Agent
}

// New creates an empty world. The first ingested batch always recenters.
func New(log *zap.Logger, opts Options) *World {
	if opts.OutlineWorkers <= 0 {
		opts.OutlineWorkers = defaultOutlineWorkers
	}
	if opts.SimplifyThreshold <= 0 {
		opts.SimplifyThreshold = defaultSimplifyThreshold
	}
	if opts.VerticesPerAgent <= 0 {
		opts.VerticesPerAgent = defaultVerticesPerAgent
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return &World{
		log:      log,
		opts:     opts,
		rng:      rng,
		offset:   geo.DefaultOffset(),
		graph:    traffic.NewGraph(),
		outlines: make(map[geo.ChunkIndex]*ChunkOutlines),
	}
}

// Offset returns the projection origin currently in effect.
func (w *World) Offset() geo.Offset { return w.offset }

// Data returns the latest ingested batch, or nil before the first ingest.
func (w *World) Data() *geodata.GeoData { return w.data }

// Graph returns the traffic graph.
func (w *World) Graph() *traffic.Graph { return w.graph }

// Agents returns the agents spawned so far.
func (w *World) Agents() []traffic.Agent { return w.agents }

// Outlines returns the precomputed outlines for a chunk, if present.
func (w *World) Outlines(index geo.ChunkIndex) (*ChunkOutlines, bool) {
	outlines, ok := w.outlines[index]
	return outlines, ok
}

// Ingest parses a document and merges it into the world.
//
// The candidate offset is the unscaled projection of the batch's median node
// location. When it is farther than RecenterThreshold from the active offset,
// every offset-relative structure (graph, outlines, agents) is cleared, the
// offset is replaced wholesale, and the batch is re-bucketed under the new
// origin. Below threshold the batch joins the existing state additively.
func (w *World) Ingest(document []byte, format geoerr.Format) error {
	// First parse, bucketed under the offset currently in effect. Before the
	// first recentring there is no real origin yet, so bucket under zero;
	// those buckets are thrown away when the guaranteed recentring hits.
	parseOffset := w.offset
	if !parseOffset.IsSet() {
		parseOffset = geo.Offset{}
	}

	data, err := convert(document, format, parseOffset)
	if err != nil {
		return err
	}

	_, median, _ := Bounds(data)
	candidateX, candidateY := median.ProjectNoScale()
	candidate := geo.Offset{X: candidateX, Y: candidateY}

	if distance := w.offset.DistanceTo(candidate); distance > RecenterThreshold {
		w.log.Info("recentring, clearing spatial state",
			zap.Float64("distance", distance),
			zap.Float64("offset_x", candidate.X),
			zap.Float64("offset_y", candidate.Y))

		w.reset()
		w.offset = candidate

		// Re-bucket the batch so chunk keys agree with the new origin.
		data, err = convert(document, format, w.offset)
		if err != nil {
			return err
		}
	}

	w.data = data

	oldGraphSize := w.graph.Size()

	// Graph mutation is single-writer, so roads are added chunk by chunk on
	// this goroutine.
	for _, chunk := range data.Chunks {
		traffic.BuildFromRoads(w.graph, data.NodeLocations, chunk.Roads, w.offset)
	}

	// Outline builds only read the immutable batch and can fan out.
	group := new(errgroup.Group)
	group.SetLimit(w.opts.OutlineWorkers)
	var outlinesMu sync.Mutex
	for index, chunk := range data.Chunks {
		group.Go(func() error {
			outlines := buildOutlines(data.NodeLocations, chunk, w.offset, w.opts.SimplifyThreshold)
			outlinesMu.Lock()
			w.outlines[index] = outlines
			outlinesMu.Unlock()
			return nil
		})
	}
	_ = group.Wait() // outline builds are pure and never fail

	// One agent per VerticesPerAgent new vertices.
	if grown := w.graph.Size() - oldGraphSize; grown > 0 {
		spawned := traffic.SpawnAgents(w.graph, grown/w.opts.VerticesPerAgent, w.rng)
		w.agents = append(w.agents, spawned...)
	}

	w.log.Info("ingested batch",
		zap.Int("nodes", len(data.NodeLocations)),
		zap.Int("chunks", len(data.Chunks)),
		zap.Int("graph_vertices", w.graph.Size()),
		zap.Int("graph_edges", w.graph.EdgeCount()),
		zap.Int("agents", len(w.agents)))

	return nil
}

func convert(document []byte, format geoerr.Format, offset geo.Offset) (*geodata.GeoData, error) {
	switch format {
	case geoerr.FormatGeoJSON:
		return geodata.ConvertGeoJSON(document, offset)
	default:
		return geodata.ConvertOSMJSON(document, offset)
	}
}

// reset drops everything positioned relative to the old offset.
func (w *World) reset() {
	w.graph.Reset()
	w.outlines = make(map[geo.ChunkIndex]*ChunkOutlines)
	w.agents = nil
	w.data = nil
}

// Route finds the cheapest path between two external node ids for an agent
// class, returned as projected locations. A nil path with a nil error means
// the endpoints are in different connected components.
func (w *World) Route(fromID, toID uint64, class traffic.AgentClass) ([]geo.Location, error) {
	from, ok := w.graph.VertexID(fromID)
	if !ok {
		return nil, geoerr.MissingData("node %d is not in the traffic graph", fromID)
	}
	to, ok := w.graph.VertexID(toID)
	if !ok {
		return nil, geoerr.MissingData("node %d is not in the traffic graph", toID)
	}

	path := w.graph.ShortestPath(from, to, class)
	if path == nil {
		return nil, nil
	}

	locations := make([]geo.Location, 0, len(path))
	for _, vertex := range path {
		locations = append(locations, geo.Unproject(w.graph.Location(vertex), w.offset))
	}
	return locations, nil
}
