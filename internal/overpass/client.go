// Package overpass executes OverpassQL queries against an Overpass API
// endpoint and hands back raw OSM JSON documents.
package overpass

import (
	"compress/gzip"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"geoworld/internal/geoerr"
)

// DefaultURL is the public Overpass API interpreter endpoint.
const DefaultURL = "https://overpass-api.de/api/interpreter"

// Client fetches Overpass query results and caches them on disk.
type Client struct {
	endpoint   string
	cacheDir   string
	client     *http.Client
	log        *zap.Logger
	inFlight   map[string]chan struct{}
	inFlightMu sync.Mutex
}

// NewClient creates a client caching responses under cacheDir.
func NewClient(endpoint, cacheDir string, timeout time.Duration, log *zap.Logger) (*Client, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &Client{
		endpoint: endpoint,
		cacheDir: cacheDir,
		client: &http.Client{
			Timeout: timeout,
		},
		log:      log,
		inFlight: make(map[string]chan struct{}),
	}, nil
}

// cachePath returns the file path for a cached query result.
func (c *Client) cachePath(ql string) string {
	sum := sha1.Sum([]byte(ql))
	return filepath.Join(c.cacheDir, hex.EncodeToString(sum[:])+".json")
}

// Query executes an OverpassQL query, returning the raw OSM JSON bytes.
// Identical queries are answered from the disk cache, and concurrent
// identical queries share a single fetch.
func (c *Client) Query(ctx context.Context, ql string) ([]byte, error) {
	path := c.cachePath(ql)

	// Check cache first
	if data, err := os.ReadFile(path); err == nil {
		return data, nil
	}

	// Wait out any identical fetch already in progress. The re-check loops:
	// when a shared fetch fails, only the waiter that wins the lock takes
	// over, and the rest go back to waiting on the new fetch.
	c.inFlightMu.Lock()
	for {
		ch, exists := c.inFlight[path]
		if !exists {
			break
		}
		c.inFlightMu.Unlock()
		<-ch
		if data, err := os.ReadFile(path); err == nil {
			return data, nil
		}
		c.inFlightMu.Lock()
	}

	// Mark as in-flight
	ch := make(chan struct{})
	c.inFlight[path] = ch
	c.inFlightMu.Unlock()

	defer func() {
		c.inFlightMu.Lock()
		delete(c.inFlight, path)
		close(ch)
		c.inFlightMu.Unlock()
	}()

	data, err := c.fetch(ctx, ql)
	if err != nil {
		return nil, err
	}

	// Cache to disk
	if err := os.WriteFile(path, data, 0644); err != nil {
		// We still have the data
		c.log.Warn("failed to cache overpass response", zap.Error(err))
	}

	return data, nil
}

func (c *Client) fetch(ctx context.Context, ql string) ([]byte, error) {
	form := url.Values{"data": {ql}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "geoworld/1.0")
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, geoerr.IO(c.endpoint, 0, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, geoerr.IO(c.endpoint, resp.StatusCode, "overpass query failed")
	}

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, geoerr.IO(c.endpoint, 0, fmt.Sprintf("gzip error: %v", err))
		}
		defer gzReader.Close()
		reader = gzReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, geoerr.IO(c.endpoint, 0, fmt.Sprintf("read error: %v", err))
	}

	return data, nil
}
