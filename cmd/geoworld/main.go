package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"geoworld/internal/api"
	"geoworld/internal/config"
	"geoworld/internal/overpass"
	"geoworld/internal/world"
)

func main() {
	// A missing .env is fine; the defaults stand.
	_ = godotenv.Load()

	configPath := os.Getenv("GEOWORLD_CONFIG")
	if configPath == "" {
		configPath = "config.json"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	client, err := overpass.NewClient(
		cfg.Overpass.URL,
		cfg.Overpass.CacheDir,
		time.Duration(cfg.Overpass.TimeoutSeconds)*time.Second,
		logger,
	)
	if err != nil {
		logger.Fatal("failed to create overpass client", zap.Error(err))
	}

	w := world.New(logger, world.Options{
		OutlineWorkers:    cfg.World.OutlineWorkers,
		SimplifyThreshold: cfg.World.SimplifyThreshold,
		VerticesPerAgent:  cfg.World.VerticesPerAgent,
	})

	router := gin.Default()
	api.NewHandler(w, client, logger).Register(router)

	logger.Info("listening", zap.String("addr", cfg.Server.Addr))
	if err := router.Run(cfg.Server.Addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
