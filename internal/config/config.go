// Package config holds application configuration. Defaults are overridden by
// an optional JSON config file, then by environment variables.
package config

import (
	"encoding/json"
	"os"
	"strconv"

	"geoworld/internal/overpass"
)

// Config holds application configuration.
type Config struct {
	Server   Server   `json:"server"`
	Overpass Overpass `json:"overpass"`
	World    World    `json:"world"`
}

// Server contains the HTTP listener settings.
type Server struct {
	Addr string `json:"addr"`
}

// Overpass contains the settings of the Overpass API client.
type Overpass struct {
	URL            string `json:"url"`
	CacheDir       string `json:"cache_dir"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// World contains ingestion tuning parameters.
type World struct {
	// OutlineWorkers caps concurrent per-chunk outline builds.
	OutlineWorkers int `json:"outline_workers"`

	// SimplifyThreshold is the outline simplification area threshold in
	// projected units.
	SimplifyThreshold float64 `json:"simplify_threshold"`

	// VerticesPerAgent spawns one agent per this many new graph vertices.
	VerticesPerAgent int `json:"vertices_per_agent"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: Server{
			Addr: ":8080",
		},
		Overpass: Overpass{
			URL:            overpass.DefaultURL,
			CacheDir:       "overpass_cache",
			TimeoutSeconds: 180, // overpass queries can run long
		},
		World: World{
			OutlineWorkers:    4,
			SimplifyThreshold: 1.0,
			VerticesPerAgent:  100,
		},
	}
}

// Load builds the configuration from defaults, the config file at path (if it
// exists), and environment variables, in that order.
func Load(path string) (*Config, error) {
	cfg := Default()

	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	cfg.Server.Addr = getEnv("GEOWORLD_ADDR", cfg.Server.Addr)
	cfg.Overpass.URL = getEnv("GEOWORLD_OVERPASS_URL", cfg.Overpass.URL)
	cfg.Overpass.CacheDir = getEnv("GEOWORLD_CACHE_DIR", cfg.Overpass.CacheDir)
	cfg.Overpass.TimeoutSeconds = getEnvInt("GEOWORLD_OVERPASS_TIMEOUT", cfg.Overpass.TimeoutSeconds)
	cfg.World.OutlineWorkers = getEnvInt("GEOWORLD_OUTLINE_WORKERS", cfg.World.OutlineWorkers)
	cfg.World.SimplifyThreshold = getEnvFloat("GEOWORLD_SIMPLIFY_THRESHOLD", cfg.World.SimplifyThreshold)
	cfg.World.VerticesPerAgent = getEnvInt("GEOWORLD_VERTICES_PER_AGENT", cfg.World.VerticesPerAgent)

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
