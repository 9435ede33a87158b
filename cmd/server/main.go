package main

import (
	"flag"
	"log"

	"github.com/BerylCAtieno/listing-expert-agent/internal/a2a"
	"github.com/BerylCAtieno/listing-expert-agent/internal/api"
	"github.com/BerylCAtieno/listing-expert-agent/internal/config"
	"github.com/BerylCAtieno/listing-expert-agent/internal/logging"
	"github.com/BerylCAtieno/listing-expert-agent/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (default: ~/.config/listing-expert/config.yaml)")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log, *verbose)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Provider.APIKey == "" && cfg.Provider.Backend != config.BackendVertex {
		logger.Warn("no API key configured; analyses will fail until GEMINI_API_KEY is set")
	}

	svc, closeProvider, err := service.FromConfig(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to configure service", zap.Error(err))
	}
	defer func() { _ = closeProvider() }()

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(api.RequestID(), api.RequestLogger(logger), gin.Recovery())

	api.NewHandler(svc, cfg.Server.MaxUploadBytes, logger).Register(router)
	a2a.NewA2AHandler(svc, cfg.Server.PublicURL, logger).Register(router)

	logger.Info("Listing Expert Agent starting",
		zap.String("port", cfg.Server.Port),
		zap.String("agent_card", "http://localhost:"+cfg.Server.Port+a2a.CardPath),
		zap.String("a2a_endpoint", "http://localhost:"+cfg.Server.Port+a2a.Endpoint),
		zap.String("analyze_endpoint", "http://localhost:"+cfg.Server.Port+"/api/analyze"))

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Server failed to start", zap.Error(err))
	}
}
