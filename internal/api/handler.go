// Package api exposes ingestion and routing over HTTP.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"geoworld/internal/geoerr"
	"geoworld/internal/overpass"
	"geoworld/internal/query"
	"geoworld/internal/traffic"
	"geoworld/internal/world"
)

// Handler serves the HTTP API. It serializes world mutation behind a RW lock:
// ingestion takes the write side, route and status queries the read side.
type Handler struct {
	world  *world.World
	client *overpass.Client
	log    *zap.Logger
	mu     sync.RWMutex
}

// NewHandler creates the API handler.
func NewHandler(w *world.World, client *overpass.Client, log *zap.Logger) *Handler {
	return &Handler{world: w, client: client, log: log}
}

// Register attaches all routes to the engine.
func (h *Handler) Register(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	v1.POST("/query", h.RunQuery)
	v1.GET("/route", h.GetRoute)
	v1.GET("/status", h.GetStatus)
}

// QueryRequest is the body of POST /api/v1/query.
type QueryRequest struct {
	Type  string `json:"type" binding:"required"`
	Value string `json:"value" binding:"required"`
}

// RunQuery resolves a user query, fetches or reads the document, and ingests
// it into the world.
// POST /api/v1/query
func (h *Handler) RunQuery(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request",
			"details": err.Error(),
		})
		return
	}

	inputType, err := query.ParseInputType(req.Type)
	if err != nil {
		h.renderError(c, err)
		return
	}
	dataQuery, err := query.Parse(inputType, req.Value)
	if err != nil {
		h.renderError(c, err)
		return
	}

	var document []byte
	format := geoerr.FormatOSMJSON
	switch dataQuery.Kind {
	case query.KindFile:
		document, err = os.ReadFile(dataQuery.Path)
		if err != nil {
			h.renderError(c, geoerr.IO("file://"+dataQuery.Path, 0, err.Error()))
			return
		}
		format = dataQuery.Format
	case query.KindOverpassQL:
		document, err = h.client.Query(c.Request.Context(), dataQuery.QL)
		if err != nil {
			h.renderError(c, err)
			return
		}
	}

	// The status body reads the graph and batch, so it must be built before
	// the lock is released; another ingest may be mutating them right after.
	h.mu.Lock()
	err = h.world.Ingest(document, format)
	var body gin.H
	if err == nil {
		body = h.statusBody()
	}
	h.mu.Unlock()
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, body)
}

// GetRoute answers a shortest-path query between two node ids.
// GET /api/v1/route?from=<id>&to=<id>&class=car|pedestrian
func (h *Handler) GetRoute(c *gin.Context) {
	fromID, err1 := strconv.ParseUint(c.Query("from"), 10, 64)
	toID, err2 := strconv.ParseUint(c.Query("to"), 10, 64)
	if err1 != nil || err2 != nil {
		h.renderError(c, geoerr.InputSyntax("`from` and `to` must be nonnegative integer node ids"))
		return
	}

	className := c.DefaultQuery("class", "pedestrian")
	class, ok := traffic.ParseAgentClass(className)
	if !ok {
		h.renderError(c, geoerr.InputSyntax("unknown agent class %q", className))
		return
	}

	h.mu.RLock()
	path, err := h.world.Route(fromID, toID, class)
	h.mu.RUnlock()
	if err != nil {
		h.renderError(c, err)
		return
	}

	// No route between connected components is a normal result.
	if path == nil {
		c.JSON(http.StatusOK, gin.H{"found": false})
		return
	}

	line := make(orb.LineString, 0, len(path))
	for _, location := range path {
		line = append(line, orb.Point{location.Longitude, location.Latitude})
	}
	feature := geojson.NewFeature(line)
	feature.Properties["class"] = className
	feature.Properties["vertices"] = len(path)

	c.JSON(http.StatusOK, gin.H{
		"found": true,
		"route": feature,
	})
}

// GetStatus reports the world's current offset and sizes.
// GET /api/v1/status
func (h *Handler) GetStatus(c *gin.Context) {
	h.mu.RLock()
	body := h.statusBody()
	h.mu.RUnlock()
	c.JSON(http.StatusOK, body)
}

func (h *Handler) statusBody() gin.H {
	offset := h.world.Offset()
	nodes := 0
	chunks := 0
	if data := h.world.Data(); data != nil {
		nodes = len(data.NodeLocations)
		chunks = len(data.Chunks)
	}
	return gin.H{
		"offset":         gin.H{"x": fmt.Sprint(offset.X), "y": fmt.Sprint(offset.Y)},
		"nodes":          nodes,
		"chunks":         chunks,
		"graph_vertices": h.world.Graph().Size(),
		"graph_edges":    h.world.Graph().EdgeCount(),
		"agents":         len(h.world.Agents()),
	}
}

// renderError maps the error taxonomy onto HTTP status codes.
func (h *Handler) renderError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	var appErr *geoerr.Error
	if errors.As(err, &appErr) {
		switch appErr.Kind {
		case geoerr.KindInputSyntax:
			status = http.StatusBadRequest
		case geoerr.KindDataSyntax:
			status = http.StatusUnprocessableEntity
		case geoerr.KindMissingData:
			status = http.StatusNotFound
		case geoerr.KindIO:
			status = http.StatusBadGateway
		}
	}

	if status == http.StatusInternalServerError || status == http.StatusBadGateway {
		h.log.Warn("request failed", zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
